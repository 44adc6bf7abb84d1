package stt

import (
	"bytes"
	"context"
	"fmt"

	prerecorded "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listenClient "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/audio"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
)

// DeepgramClient implements Transcriber using Deepgram's pre-recorded
// transcription API. Each utterance batch is a complete WAV file, so
// the streaming API buys nothing here.
type DeepgramClient struct {
	client *prerecorded.Client
	model  string
}

// NewDeepgramClient creates a pre-recorded transcription client.
func NewDeepgramClient(cfg *config.Config) *DeepgramClient {
	rest := listenClient.NewREST(cfg.DeepgramAPIKey, &interfaces.ClientOptions{})
	return &DeepgramClient{
		client: prerecorded.New(rest),
		model:  cfg.DeepgramModel,
	}
}

// Transcribe sends the WAV utterance and returns the top alternative
// transcript. No speech detected is not an error: the caller gets an
// empty string.
func (d *DeepgramClient) Transcribe(ctx context.Context, wav []byte) (string, error) {
	log := observability.WithComponent("stt")

	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       d.model,
		SmartFormat: true,
	}

	res, err := d.client.FromStream(ctx, bytes.NewReader(wav), options)
	if err != nil {
		return "", fmt.Errorf("deepgram transcription failed: %w", err)
	}
	if res == nil || res.Results == nil || len(res.Results.Channels) == 0 ||
		len(res.Results.Channels[0].Alternatives) == 0 {
		log.Debug().Msg("deepgram returned no alternatives")
		return "", nil
	}

	transcript := res.Results.Channels[0].Alternatives[0].Transcript
	log.Debug().Int("wav_bytes", len(wav)).Int("transcript_len", len(transcript)).
		Msg("utterance transcribed")
	return transcript, nil
}

// Ping sends a minimal silent WAV to verify credentials and
// reachability.
func (d *DeepgramClient) Ping(ctx context.Context) error {
	wav, err := audio.EncodeWAV([][]byte{make([]byte, 64)}, 8000)
	if err != nil {
		return err
	}
	_, err = d.Transcribe(ctx, wav)
	return err
}
