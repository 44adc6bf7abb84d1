package playback

import (
	"context"
	"sync"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
)

// queueSize bounds pending playback items. Arrivals beyond it are
// dropped so playback never lags unboundedly behind the conversation.
const queueSize = 32

// Player renders one item of compressed audio and returns when it has
// finished or failed.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Item is one queued utterance. Release frees whatever ephemeral
// resource backs the item; the queue guarantees it runs exactly once,
// whether the item plays, fails, or is dropped.
type Item struct {
	Text    string
	Audio   []byte
	release func()
	once    sync.Once
}

// NewItem creates a playback item. release may be nil.
func NewItem(text string, audio []byte, release func()) *Item {
	return &Item{Text: text, Audio: audio, release: release}
}

// Release frees the item's resources. Safe to call more than once.
func (i *Item) Release() {
	i.once.Do(func() {
		if i.release != nil {
			i.release()
		}
	})
}

// Queue plays items strictly one at a time, in arrival order. Enqueue
// never blocks the receive path; when the queue is full the newest
// item is dropped. A failed item is skipped immediately and the next
// one starts.
type Queue struct {
	player Player
	items  chan *Item
}

// NewQueue creates a queue over the given player. Call Run to start
// draining it.
func NewQueue(player Player) *Queue {
	return &Queue{
		player: player,
		items:  make(chan *Item, queueSize),
	}
}

// Enqueue adds an item without blocking. Returns false if the queue
// was full and the item was dropped (and released).
func (q *Queue) Enqueue(item *Item) bool {
	select {
	case q.items <- item:
		return true
	default:
		item.Release()
		observability.RecordError("queue_full", "playback")
		return false
	}
}

// Run drains the queue until ctx is cancelled. At most one item plays
// at any moment. It blocks.
func (q *Queue) Run(ctx context.Context) {
	log := observability.WithComponent("playback")

	for {
		select {
		case <-ctx.Done():
			q.drain()
			return
		case item := <-q.items:
			if err := q.player.Play(ctx, item.Audio); err != nil {
				log.Warn().Err(err).Str("text", item.Text).Msg("playback failed, skipping item")
				observability.RecordError("play_failed", "playback")
			}
			item.Release()
		}
	}
}

// drain releases anything still queued at shutdown.
func (q *Queue) drain() {
	for {
		select {
		case item := <-q.items:
			item.Release()
		default:
			return
		}
	}
}

// Pending returns the number of items waiting to play.
func (q *Queue) Pending() int {
	return len(q.items)
}
