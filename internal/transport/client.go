package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/relay"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/resilience"
)

// Conn is the slice of a WebSocket connection the client uses.
// *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// DialFunc opens one connection to the relay.
type DialFunc func(ctx context.Context, url string) (Conn, error)

// GorillaDial dials with the default gorilla dialer.
func GorillaDial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Client maintains one duplex channel to the relay. It reconnects
// forever after a fixed pause; frames sent while disconnected are
// dropped, never buffered, so a reconnected session starts clean.
type Client struct {
	url      string
	backoff  time.Duration
	dial     DialFunc
	onResult func([]byte)

	mu      sync.RWMutex
	conn    Conn
	writeMu sync.Mutex

	dropped atomic.Int64
}

// ErrNotConnected is returned when a control message is sent while
// the channel is down.
var ErrNotConnected = errors.New("not connected to relay")

// NewClient creates a client for the given relay URL. onResult is
// called with every text message received from the server; it must
// not block.
func NewClient(url string, backoff time.Duration, dial DialFunc, onResult func([]byte)) *Client {
	if dial == nil {
		dial = GorillaDial
	}
	if onResult == nil {
		onResult = func([]byte) {}
	}
	return &Client{
		url:      url,
		backoff:  backoff,
		dial:     dial,
		onResult: onResult,
	}
}

// Run connects and serves the connection until ctx is cancelled,
// redialing after every disconnect. It blocks.
func (c *Client) Run(ctx context.Context) error {
	log := observability.WithComponent("transport")

	for {
		err := resilience.Reconnect(ctx, func() error {
			return c.connect(ctx)
		}, &resilience.ReconnectConfig{
			MaxAttempts: 0, // forever
			Backoff:     c.backoff,
			Multiplier:  1.0,
		})
		if err != nil {
			// Only cancellation escapes an unlimited reconnect loop.
			return err
		}

		log.Info().Str("url", c.url).Msg("connected to relay")

		// ReadMessage has no context; close the connection when ctx
		// ends so the read loop cannot outlive a cancelled Run.
		watchDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				c.Close()
			case <-watchDone:
			}
		}()
		c.readLoop()
		close(watchDone)
		c.setConn(nil)
		log.Warn().Msg("disconnected from relay")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff):
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	conn, err := c.dial(ctx, c.url)
	if err != nil {
		return err
	}
	c.setConn(conn)
	return nil
}

func (c *Client) setConn(conn Conn) {
	c.mu.Lock()
	old := c.conn
	c.conn = conn
	c.mu.Unlock()
	if old != nil && old != conn {
		_ = old.Close()
	}
}

func (c *Client) currentConn() Conn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Client) readLoop() {
	for {
		conn := c.currentConn()
		if conn == nil {
			return
		}
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			c.onResult(data)
		}
	}
}

// SendFrame ships one binary PCM frame. Frames are delivered at most
// once: while disconnected they are counted and dropped.
func (c *Client) SendFrame(frame []byte) {
	conn := c.currentConn()
	if conn == nil {
		c.dropped.Add(1)
		return
	}

	c.writeMu.Lock()
	err := conn.WriteMessage(websocket.BinaryMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		c.dropped.Add(1)
		observability.RecordError("frame_send", "transport")
	}
}

// SendControl ships one JSON control message, for example a language
// change. Unlike frames, a failed control send is reported: the caller
// may retry it after reconnect.
func (c *Client) SendControl(msg relay.ControlMessage) error {
	conn := c.currentConn()
	if conn == nil {
		return ErrNotConnected
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Connected reports whether a connection is currently open.
func (c *Client) Connected() bool {
	return c.currentConn() != nil
}

// Dropped returns how many frames were discarded while disconnected
// or failing to send.
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Close tears down the current connection, if any. Run's read loop
// will observe the closure and exit into its reconnect pause; cancel
// Run's context to stop it entirely.
func (c *Client) Close() {
	c.setConn(nil)
}
