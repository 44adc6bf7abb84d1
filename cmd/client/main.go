package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/capture"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/playback"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/relay"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/session"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/state"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/transport"
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

	prefsPath, err := state.DefaultPath()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot locate preferences")
	}
	store, err := state.Open(prefsPath, cfg.DefaultLanguage)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open preferences")
	}
	prefs := store.Get()
	log.Info().Str("installation_id", prefs.InstallationID).
		Str("language", prefs.TargetLanguage).Msg("preferences loaded")

	player, err := playback.NewExecPlayer(cfg.PlayerCommand)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid player command")
	}
	queue := playback.NewQueue(player)

	client := transport.NewClient(cfg.ServerURL, cfg.ReconnectBackoff(), nil, func(data []byte) {
		handleResult(queue, data)
	})

	sourceFactory := func() (capture.Source, error) {
		if cfg.CaptureCommand == "" {
			log.Info().Msg("capturing f32le samples from stdin")
			return capture.NewReaderSource(os.Stdin, cfg.FrameSamples), nil
		}
		log.Info().Str("command", cfg.CaptureCommand).Msg("starting capture command")
		return capture.NewExecSource(cfg.CaptureCommand, cfg.FrameSamples)
	}

	controller := session.NewController(cfg.FrameSamples, client, queue, sourceFactory, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := controller.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}

	// Replay the persisted language choice once the channel is up.
	go func() {
		msg := relay.ControlMessage{Type: relay.ControlSetLanguage, Language: prefs.TargetLanguage}
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
			if err := client.SendControl(msg); err == nil {
				log.Info().Str("language", msg.Language).Msg("target language set")
				return
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("stopping session")
	if err := controller.Stop(); err != nil {
		log.Error().Err(err).Msg("session stop failed")
	}
	log.Info().Int64("frames_dropped", client.Dropped()).Msg("client stopped")
}

// handleResult routes one server message: dubbed results go to the
// playback queue, subtitles go to stdout.
func handleResult(queue *playback.Queue, data []byte) {
	log := observability.WithComponent("client")

	var sub relay.SubtitleMessage
	if err := json.Unmarshal(data, &sub); err == nil && sub.Type == "subtitle" {
		fmt.Println(sub.Text)
		return
	}

	var res relay.ResultMessage
	if err := json.Unmarshal(data, &res); err != nil {
		log.Warn().Err(err).Msg("malformed result message")
		observability.RecordError("malformed_result", "client")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(res.AudioData)
	if err != nil {
		// A decode failure drops this item only.
		log.Warn().Err(err).Msg("undecodable audio payload, dropping item")
		observability.RecordError("audio_decode", "client")
		return
	}

	fmt.Println(res.TranslatedText)
	queue.Enqueue(playback.NewItem(res.TranslatedText, audio, nil))
}
