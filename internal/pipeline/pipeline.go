package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/resilience"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/stt"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/translate"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/tts"
)

// Result is the outcome of one utterance batch. Audio is nil in
// subtitles-only mode.
type Result struct {
	Transcript     string
	TranslatedText string
	Audio          []byte
}

// Adapter runs one utterance through transcribe, translate and
// synthesize. It carries no per-connection state and is shared by all
// sessions.
type Adapter struct {
	transcriber   stt.Transcriber
	translator    translate.Translator
	synthesizer   tts.Synthesizer
	subtitlesOnly bool
	timeout       time.Duration

	sttBreaker       *resilience.CircuitBreaker
	translateBreaker *resilience.CircuitBreaker
	ttsBreaker       *resilience.CircuitBreaker
}

// New creates a pipeline adapter over the given collaborators.
func New(cfg *config.Config, transcriber stt.Transcriber, translator translate.Translator, synthesizer tts.Synthesizer) *Adapter {
	reset := time.Duration(cfg.CircuitBreakerResetTimeout) * time.Second
	return &Adapter{
		transcriber:      transcriber,
		translator:       translator,
		synthesizer:      synthesizer,
		subtitlesOnly:    cfg.SubtitlesOnly,
		timeout:          time.Duration(cfg.PipelineTimeout) * time.Second,
		sttBreaker:       resilience.NewCircuitBreaker("stt", cfg.CircuitBreakerMaxFailures, reset),
		translateBreaker: resilience.NewCircuitBreaker("translate", cfg.CircuitBreakerMaxFailures, reset),
		ttsBreaker:       resilience.NewCircuitBreaker("tts", cfg.CircuitBreakerMaxFailures, reset),
	}
}

// SubtitlesOnly reports whether synthesis is skipped.
func (a *Adapter) SubtitlesOnly() bool {
	return a.subtitlesOnly
}

// Process runs one WAV utterance through all stages. A silent
// utterance (empty or whitespace transcript) returns (nil, nil). Any
// stage failure returns an error; the caller drops the batch and moves
// on, there are no retries and no partial results.
func (a *Adapter) Process(ctx context.Context, wav []byte, targetLanguage string) (*Result, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	transcript, err := a.transcribe(ctx, wav)
	if err != nil {
		return nil, fmt.Errorf("transcription stage: %w", err)
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, nil
	}

	translated, err := a.translateText(ctx, transcript, targetLanguage)
	if err != nil {
		return nil, fmt.Errorf("translation stage: %w", err)
	}

	result := &Result{
		Transcript:     transcript,
		TranslatedText: translated,
	}
	if a.subtitlesOnly {
		return result, nil
	}

	audio, err := a.synthesize(ctx, translated, LocaleFor(targetLanguage))
	if err != nil {
		return nil, fmt.Errorf("synthesis stage: %w", err)
	}
	result.Audio = audio
	return result, nil
}

func (a *Adapter) transcribe(ctx context.Context, wav []byte) (string, error) {
	var transcript string
	err := a.observe("transcribe", a.sttBreaker, func() error {
		var err error
		transcript, err = a.transcriber.Transcribe(ctx, wav)
		return err
	})
	return transcript, err
}

func (a *Adapter) translateText(ctx context.Context, text, language string) (string, error) {
	var translated string
	err := a.observe("translate", a.translateBreaker, func() error {
		var err error
		translated, err = a.translator.Translate(ctx, text, language)
		return err
	})
	return translated, err
}

func (a *Adapter) synthesize(ctx context.Context, text, locale string) ([]byte, error) {
	var audio []byte
	err := a.observe("synthesize", a.ttsBreaker, func() error {
		var err error
		audio, err = a.synthesizer.Synthesize(ctx, text, locale)
		return err
	})
	return audio, err
}

// observe wraps one stage call with its breaker and latency metric.
func (a *Adapter) observe(stage string, breaker *resilience.CircuitBreaker, fn func() error) error {
	start := time.Now()
	err := breaker.Call(fn)
	observability.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	observability.UpdateCircuitBreakerState(breaker.Name(), int(breaker.GetState()))
	if err != nil {
		observability.RecordError("collaborator", stage)
	}
	return err
}

// ReadinessChecks exposes per-collaborator probes for the /ready
// endpoint.
func (a *Adapter) ReadinessChecks() map[string]observability.CheckFunc {
	probe := func(ping func(context.Context) error) observability.CheckFunc {
		return func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return ping(ctx)
		}
	}
	checks := map[string]observability.CheckFunc{
		"stt":       probe(a.transcriber.Ping),
		"translate": probe(a.translator.Ping),
	}
	if !a.subtitlesOnly {
		checks["tts"] = probe(a.synthesizer.Ping)
	}
	return checks
}
