package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
	"github.com/Navneet-Mishra-27/Live-Translator/internal/observability"
)

const googleTTSBaseURL = "https://texttospeech.googleapis.com/v1"

// GoogleClient implements Synthesizer using the Google Cloud
// Text-to-Speech REST API with MP3 output.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleClient creates a Google TTS client.
func NewGoogleClient(cfg *config.Config) *GoogleClient {
	return &GoogleClient{
		apiKey:  cfg.GoogleAPIKey,
		baseURL: googleTTSBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders text in the given locale and returns raw MP3
// bytes.
func (g *GoogleClient) Synthesize(ctx context.Context, text, locale string) ([]byte, error) {
	log := observability.WithComponent("tts")

	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = locale
	reqBody.AudioConfig.AudioEncoding = "MP3"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/text:synthesize?key=%s", g.baseURL, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error: status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	var out synthesizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode synthesis response: %w", err)
	}
	if out.AudioContent == "" {
		return nil, fmt.Errorf("TTS returned empty audio content")
	}

	mp3, err := base64.StdEncoding.DecodeString(out.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}

	log.Debug().Str("locale", locale).Int("text_len", len(text)).
		Int("mp3_bytes", len(mp3)).Msg("speech synthesized")
	return mp3, nil
}

// Ping synthesizes a single short word to verify the API key.
func (g *GoogleClient) Ping(ctx context.Context) error {
	_, err := g.Synthesize(ctx, "ok", "en-US")
	return err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
