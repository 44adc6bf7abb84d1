package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/pipeline"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/relay"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/stt"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/translate"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger("info", false)
		bootLog := observability.GetLogger()
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	log := observability.GetLogger()

	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	transcriber := stt.NewDeepgramClient(cfg)
	translator := translate.NewGeminiClient(cfg)
	synthesizer := tts.NewGoogleClient(cfg)
	pipe := pipeline.New(cfg, transcriber, translator, synthesizer)
	registry := relay.NewRegistry()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", relay.HandleRelayWS(cfg, pipe, registry))
	mux.HandleFunc("/health", observability.HealthHandler())
	mux.HandleFunc("/ready", observability.ReadyHandler(pipe.ReadinessChecks()))
	mux.HandleFunc("/sessions", relay.SessionsHandler(registry))
	if cfg.MetricsEnabled {
		mux.Handle("/metrics", observability.MetricsHandler())
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: mux,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).
			Bool("subtitles_only", cfg.SubtitlesOnly).
			Int("batch_window_ms", cfg.BatchWindowMs).
			Msg("relay server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
