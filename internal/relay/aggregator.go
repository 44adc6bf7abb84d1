package relay

import (
	"sync"
	"time"
)

// Batch is one cut utterance: the frames accumulated during a window
// and the target language latched when the window was armed.
type Batch struct {
	Frames   [][]byte
	Language string
}

// Aggregator collects PCM frames for one connection and cuts them
// into utterance batches. The first frame after idle arms a single
// debounce timer; later frames never re-arm or extend it. When the
// timer fires, the buffer is snapshotted and cleared atomically and
// the batch is handed to onCut. This snapshot-and-clear is the only
// mutual-exclusion boundary between the receive path and the cut.
//
// The target language is latched when the window arms, so a language
// change that lands mid-batch applies from the next batch.
type Aggregator struct {
	window time.Duration
	onCut  func(Batch)

	mu       sync.Mutex
	frames   [][]byte
	armed    bool
	language string
	latched  string
	timer    *time.Timer
	closed   bool
}

// NewAggregator creates an idle aggregator. onCut runs on the timer
// goroutine with no locks held; it must not call back into the
// aggregator.
func NewAggregator(window time.Duration, defaultLanguage string, onCut func(Batch)) *Aggregator {
	return &Aggregator{
		window:   window,
		onCut:    onCut,
		language: defaultLanguage,
	}
}

// AddFrame appends one frame to the current buffer, arming the window
// if the aggregator was idle. Frames arriving after Close are dropped.
func (a *Aggregator) AddFrame(frame []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.frames = append(a.frames, frame)
	if !a.armed {
		a.armed = true
		a.latched = a.language
		a.timer = time.AfterFunc(a.window, a.fire)
	}
}

// SetLanguage updates the target language for batches whose window
// arms after this call.
func (a *Aggregator) SetLanguage(language string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.language = language
}

// Language returns the current target language.
func (a *Aggregator) Language() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.language
}

// fire cuts the batch: snapshot and clear under the lock, deliver
// outside it.
func (a *Aggregator) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	frames := a.frames
	a.frames = nil
	a.armed = false
	language := a.latched
	a.mu.Unlock()

	if len(frames) == 0 {
		return
	}
	a.onCut(Batch{Frames: frames, Language: language})
}

// Close stops the timer and discards any accumulated frames. The
// in-flight buffer of a disconnecting client is dropped, never
// processed.
func (a *Aggregator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.frames = nil
	a.armed = false
}
