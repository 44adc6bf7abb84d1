package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/audio"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/pipeline"
)

// batchQueueSize bounds pending batches per connection. A slow
// pipeline drops new batches rather than stalling the read loop.
const batchQueueSize = 8

// Session owns one relay WebSocket connection: its accumulation
// buffer, its language, and the goroutine draining cut batches
// through the pipeline.
type Session struct {
	ID      string
	cfg     *config.Config
	conn    *websocket.Conn
	pipe    *pipeline.Adapter
	log     zerolog.Logger
	agg     *Aggregator
	batches chan Batch
	done    chan struct{}

	writeMu sync.Mutex

	mu             sync.RWMutex
	batchesCut     int
	batchesHandled int
	started        time.Time
}

// NewSession wraps an accepted connection. Call Run to start serving
// it.
func NewSession(cfg *config.Config, conn *websocket.Conn, pipe *pipeline.Adapter) *Session {
	id := observability.NewCorrelationID()
	s := &Session{
		ID:      id,
		cfg:     cfg,
		conn:    conn,
		pipe:    pipe,
		log:     observability.WithCorrelationID(id),
		batches: make(chan Batch, batchQueueSize),
		done:    make(chan struct{}),
		started: time.Now(),
	}
	s.agg = NewAggregator(cfg.BatchWindow(), cfg.DefaultLanguage, s.enqueueBatch)
	return s
}

// Run serves the connection until the client disconnects. It blocks;
// the caller owns the connection's goroutine.
func (s *Session) Run() {
	observability.ActiveConnections.Inc()
	observability.ConnectionsTotal.Inc()
	defer observability.ActiveConnections.Dec()

	s.log.Info().Str("remote", s.conn.RemoteAddr().String()).Msg("session started")

	go s.processLoop()
	s.readLoop()

	// Teardown: stop accepting frames, drop the in-flight buffer,
	// stop the process loop.
	s.agg.Close()
	close(s.done)
	s.log.Info().Int("batches_handled", s.Handled()).Msg("session closed")
}

func (s *Session) readLoop() {
	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn().Err(err).Msg("connection closed unexpectedly")
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			observability.FramesReceived.Inc()
			observability.BytesReceived.Add(float64(len(data)))
			s.agg.AddFrame(data)
		case websocket.TextMessage:
			s.handleControl(data)
		}
	}
}

func (s *Session) handleControl(data []byte) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn().Err(err).Msg("malformed control message, ignoring")
		observability.RecordError("malformed_control", "relay")
		return
	}
	switch msg.Type {
	case ControlSetLanguage:
		if msg.Language == "" {
			s.log.Warn().Msg("setLanguage with empty language, ignoring")
			return
		}
		s.agg.SetLanguage(msg.Language)
		s.log.Info().Str("language", msg.Language).Msg("target language changed")
	default:
		s.log.Warn().Str("type", msg.Type).Msg("unknown control message type")
	}
}

// enqueueBatch hands a cut batch to the process loop without blocking
// the aggregator's timer goroutine.
func (s *Session) enqueueBatch(b Batch) {
	select {
	case s.batches <- b:
	default:
		s.log.Warn().Int("frames", len(b.Frames)).Msg("batch queue full, dropping batch")
		observability.BatchesTotal.WithLabelValues("error").Inc()
	}
}

func (s *Session) processLoop() {
	for {
		select {
		case <-s.done:
			return
		case b := <-s.batches:
			s.handleBatch(b)
		}
	}
}

func (s *Session) handleBatch(b Batch) {
	s.mu.Lock()
	s.batchesCut++
	cut := s.batchesCut
	s.mu.Unlock()

	// Warm-up suppression: the first N batches of a connection are
	// capture start-up noise.
	if cut <= s.cfg.WarmupBatches {
		s.log.Debug().Int("batch", cut).Msg("discarding warm-up batch")
		observability.BatchesTotal.WithLabelValues("warmup").Inc()
		return
	}

	wav, err := audio.EncodeWAV(b.Frames, s.cfg.SampleRate)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode batch")
		observability.BatchesTotal.WithLabelValues("error").Inc()
		return
	}
	if len(wav) < s.cfg.MinBatchBytes {
		s.log.Debug().Int("bytes", len(wav)).Msg("batch below silence threshold, discarding")
		observability.BatchesTotal.WithLabelValues("silence").Inc()
		return
	}

	res, err := s.pipe.Process(context.Background(), wav, b.Language)
	if err != nil {
		s.log.Error().Err(err).Str("language", b.Language).Msg("pipeline failed, dropping batch")
		observability.BatchesTotal.WithLabelValues("error").Inc()
		return
	}
	if res == nil {
		// No speech in the utterance.
		observability.BatchesTotal.WithLabelValues("silence").Inc()
		return
	}

	if err := s.sendResult(res); err != nil {
		s.log.Warn().Err(err).Msg("failed to send result")
		observability.RecordError("send_failed", "relay")
		return
	}

	s.mu.Lock()
	s.batchesHandled++
	s.mu.Unlock()
	observability.BatchesTotal.WithLabelValues("processed").Inc()
	observability.ResultsSent.Inc()
}

func (s *Session) sendResult(res *pipeline.Result) error {
	var payload interface{}
	if s.pipe.SubtitlesOnly() {
		payload = SubtitleMessage{Type: "subtitle", Text: res.TranslatedText}
	} else {
		payload = ResultMessage{
			TranslatedText: res.TranslatedText,
			AudioData:      base64.StdEncoding.EncodeToString(res.Audio),
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(payload)
}

// Language returns the session's current target language.
func (s *Session) Language() string {
	return s.agg.Language()
}

// Handled returns how many batches produced a delivered result.
func (s *Session) Handled() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batchesHandled
}

// Uptime returns how long the session has been open.
func (s *Session) Uptime() time.Duration {
	return time.Since(s.started)
}
