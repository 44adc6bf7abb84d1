package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/resilience"
)

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	f.calls++
	return f.transcript, f.err
}

func (f *fakeTranscriber) Ping(ctx context.Context) error { return nil }

type fakeTranslator struct {
	translated string
	err        error
	calls      int
	gotLang    string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	f.calls++
	f.gotLang = targetLanguage
	return f.translated, f.err
}

func (f *fakeTranslator) Ping(ctx context.Context) error { return nil }

type fakeSynthesizer struct {
	audio     []byte
	err       error
	calls     int
	gotLocale string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, locale string) ([]byte, error) {
	f.calls++
	f.gotLocale = locale
	return f.audio, f.err
}

func (f *fakeSynthesizer) Ping(ctx context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		PipelineTimeout:            5,
		CircuitBreakerMaxFailures:  5,
		CircuitBreakerResetTimeout: 30,
	}
}

func TestProcessFullPipeline(t *testing.T) {
	tr := &fakeTranscriber{transcript: "hello world"}
	tl := &fakeTranslator{translated: "hola mundo"}
	sy := &fakeSynthesizer{audio: []byte{1, 2, 3}}
	a := New(testConfig(), tr, tl, sy)

	res, err := a.Process(context.Background(), []byte("wav"), "Spanish")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.TranslatedText != "hola mundo" {
		t.Errorf("TranslatedText = %q", res.TranslatedText)
	}
	if len(res.Audio) != 3 {
		t.Errorf("Audio = %v", res.Audio)
	}
	if tl.gotLang != "Spanish" {
		t.Errorf("translator got language %q", tl.gotLang)
	}
	if sy.gotLocale != "es-ES" {
		t.Errorf("synthesizer got locale %q, want es-ES", sy.gotLocale)
	}
}

func TestProcessEmptyTranscriptIsNotAnError(t *testing.T) {
	tests := []string{"", "   ", "\n\t "}
	for _, transcript := range tests {
		tr := &fakeTranscriber{transcript: transcript}
		tl := &fakeTranslator{}
		sy := &fakeSynthesizer{}
		a := New(testConfig(), tr, tl, sy)

		res, err := a.Process(context.Background(), []byte("wav"), "Spanish")
		if err != nil {
			t.Fatalf("transcript %q: unexpected error: %v", transcript, err)
		}
		if res != nil {
			t.Errorf("transcript %q: expected nil result", transcript)
		}
		if tl.calls != 0 || sy.calls != 0 {
			t.Errorf("transcript %q: later stages ran on silence", transcript)
		}
	}
}

func TestProcessStageFailureStopsPipeline(t *testing.T) {
	t.Run("transcription fails", func(t *testing.T) {
		tr := &fakeTranscriber{err: fmt.Errorf("stt down")}
		tl := &fakeTranslator{}
		sy := &fakeSynthesizer{}
		a := New(testConfig(), tr, tl, sy)

		if _, err := a.Process(context.Background(), []byte("wav"), "Spanish"); err == nil {
			t.Fatal("expected error")
		}
		if tl.calls != 0 || sy.calls != 0 {
			t.Error("later stages ran after transcription failure")
		}
	})

	t.Run("translation fails", func(t *testing.T) {
		tr := &fakeTranscriber{transcript: "hello"}
		tl := &fakeTranslator{err: fmt.Errorf("gemini down")}
		sy := &fakeSynthesizer{}
		a := New(testConfig(), tr, tl, sy)

		if _, err := a.Process(context.Background(), []byte("wav"), "Spanish"); err == nil {
			t.Fatal("expected error")
		}
		if sy.calls != 0 {
			t.Error("synthesis ran after translation failure")
		}
	})

	t.Run("synthesis fails", func(t *testing.T) {
		tr := &fakeTranscriber{transcript: "hello"}
		tl := &fakeTranslator{translated: "hola"}
		sy := &fakeSynthesizer{err: fmt.Errorf("tts down")}
		a := New(testConfig(), tr, tl, sy)

		if _, err := a.Process(context.Background(), []byte("wav"), "Spanish"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestProcessSubtitlesOnlySkipsSynthesis(t *testing.T) {
	cfg := testConfig()
	cfg.SubtitlesOnly = true
	tr := &fakeTranscriber{transcript: "hello"}
	tl := &fakeTranslator{translated: "hola"}
	sy := &fakeSynthesizer{audio: []byte{1}}
	a := New(cfg, tr, tl, sy)

	res, err := a.Process(context.Background(), []byte("wav"), "Spanish")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if res.Audio != nil {
		t.Error("expected no audio in subtitles-only mode")
	}
	if sy.calls != 0 {
		t.Error("synthesizer called in subtitles-only mode")
	}
}

func TestProcessCircuitBreakerFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.CircuitBreakerMaxFailures = 2
	tr := &fakeTranscriber{err: fmt.Errorf("stt down")}
	a := New(cfg, tr, &fakeTranslator{}, &fakeSynthesizer{})

	for i := 0; i < 2; i++ {
		_, _ = a.Process(context.Background(), []byte("wav"), "Spanish")
	}
	// Breaker is open now; the transcriber must not be called again.
	before := tr.calls
	_, err := a.Process(context.Background(), []byte("wav"), "Spanish")
	if err == nil {
		t.Fatal("expected error from open breaker")
	}
	var open *resilience.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if tr.calls != before {
		t.Error("transcriber called while breaker open")
	}
}

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"Spanish", "es-ES"},
		{"spanish", "es-ES"},
		{" FRENCH ", "fr-FR"},
		{"German", "de-DE"},
		{"Japanese", "ja-JP"},
		{"Klingon", "en-US"},
		{"", "en-US"},
	}
	for _, tt := range tests {
		if got := LocaleFor(tt.language); got != tt.want {
			t.Errorf("LocaleFor(%q) = %q, want %q", tt.language, got, tt.want)
		}
	}
}
