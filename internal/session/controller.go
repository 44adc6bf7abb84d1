package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/audio"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/capture"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/state"
)

// FrameSender is the transport seam: a reconnecting duplex channel
// that ships frames at most once.
type FrameSender interface {
	Run(ctx context.Context) error
	SendFrame(frame []byte)
	Close()
}

// Player is the playback seam: a queue drained until its context
// ends.
type Player interface {
	Run(ctx context.Context)
}

// SourceFactory opens the capture source. Called on every Start so a
// stopped session releases the device completely.
type SourceFactory func() (capture.Source, error)

// Controller owns the client session lifecycle. Start is idempotent;
// Stop tears components down in reverse start order: capture first,
// then processing, then transport, then state. A partial start is
// rolled back the same way.
type Controller struct {
	frameSamples int
	sender       FrameSender
	player       Player
	newSource    SourceFactory
	store        *state.Store // optional

	mu      sync.Mutex
	running bool
	source  capture.Source
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// NewController wires a controller. store may be nil when preferences
// are not persisted.
func NewController(frameSamples int, sender FrameSender, player Player, newSource SourceFactory, store *state.Store) *Controller {
	return &Controller{
		frameSamples: frameSamples,
		sender:       sender,
		player:       player,
		newSource:    newSource,
		store:        store,
	}
}

// Start brings the session up: transport and playback first, then the
// capture source, then the capture loop. Calling Start on a running
// session is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	log := observability.WithComponent("session")
	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		err := c.sender.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		c.player.Run(gctx)
		return nil
	})

	source, err := c.newSource()
	if err != nil {
		// Partial startup: everything already started comes down.
		cancel()
		_ = g.Wait()
		c.sender.Close()
		return fmt.Errorf("failed to open capture source: %w", err)
	}

	g.Go(func() error {
		return c.captureLoop(gctx, source)
	})

	c.running = true
	c.source = source
	c.cancel = cancel
	c.group = g

	if c.store != nil {
		if err := c.store.SetCapturing(true); err != nil {
			log.Warn().Err(err).Msg("failed to persist capturing flag")
		}
	}
	log.Info().Msg("session started")
	return nil
}

// captureLoop frames captured samples and ships them. A capture
// failure is fatal to the session.
func (c *Controller) captureLoop(ctx context.Context, source capture.Source) error {
	framer := audio.NewFramer(c.frameSamples)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		block, err := source.Read()
		for _, frame := range framer.Push(block) {
			c.sender.SendFrame(frame)
		}
		if err != nil {
			if tail := framer.Flush(); tail != nil {
				c.sender.SendFrame(tail)
			}
			// End of stream, a source closed by Stop, or cancellation
			// is a clean exit; anything else is fatal to the session.
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			observability.RecordError("capture", "session")
			return fmt.Errorf("capture source failed: %w", err)
		}
	}
}

// Stop tears the session down in reverse start order and resets the
// persisted capturing flag. Calling Stop on a stopped session is a
// no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}
	log := observability.WithComponent("session")

	// Capture first: stop producing frames.
	if err := c.source.Close(); err != nil {
		log.Warn().Err(err).Msg("capture source close failed")
	}

	// Then processing and transport loops.
	c.cancel()
	err := c.group.Wait()
	c.sender.Close()

	// State reset last.
	if c.store != nil {
		if storeErr := c.store.SetCapturing(false); storeErr != nil {
			log.Warn().Err(storeErr).Msg("failed to reset capturing flag")
		}
	}

	c.running = false
	c.source = nil
	c.cancel = nil
	c.group = nil
	log.Info().Msg("session stopped")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Running reports whether the session is up.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
