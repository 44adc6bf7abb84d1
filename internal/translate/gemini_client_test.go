package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Navneet-Mishra-27/Live-Translator/internal/config"
)

func newTestClient(serverURL string) *GeminiClient {
	return &GeminiClient{
		apiKey:     "test-key",
		model:      "gemini-test",
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestTranslateReturnsTrimmedCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-test:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		prompt := req.Contents[0].Parts[0].Text
		if !strings.Contains(prompt, "Japanese") || !strings.Contains(prompt, "hello") {
			t.Errorf("prompt missing language or text: %q", prompt)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "  こんにちは\n"}},
				}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.Translate(context.Background(), "hello", "Japanese")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "こんにちは" {
		t.Errorf("Translate = %q, want trimmed translation", got)
	}
}

func TestTranslateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Translate(context.Background(), "hello", "Spanish"); err == nil {
		t.Fatal("expected error on 403 response")
	}
}

func TestTranslateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Translate(context.Background(), "hello", "Spanish"); err == nil {
		t.Fatal("expected error when no candidates are returned")
	}
}

func TestNewGeminiClientDefaults(t *testing.T) {
	cfg := &config.Config{GoogleAPIKey: "k", GeminiModel: "gemini-1.5-pro-latest"}
	c := NewGeminiClient(cfg)
	if c.baseURL != geminiBaseURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, geminiBaseURL)
	}
	if c.model != "gemini-1.5-pro-latest" {
		t.Errorf("model = %s", c.model)
	}
}
