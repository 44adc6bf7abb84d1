package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the live translation relay.
// The same struct serves both binaries; the client ignores the server
// fields and vice versa.
type Config struct {
	// Server configuration. The relay listens on loopback by default;
	// it is meant to run next to the capture client, not on the open
	// internet.
	Host string `envconfig:"HOST" default:"127.0.0.1"`
	Port string `envconfig:"PORT" default:"3000"`

	// Speech service credentials. Both are required on the server:
	// without them the pipeline cannot run, so startup fails fast
	// before any connection is accepted.
	DeepgramAPIKey string `envconfig:"DEEPGRAM_API_KEY"`
	DeepgramModel  string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"`
	GoogleAPIKey   string `envconfig:"GOOGLE_API_KEY"`
	GeminiModel    string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-pro-latest"`

	// Audio format. Fixed for the lifetime of every connection.
	SampleRate   int `envconfig:"SAMPLE_RATE" default:"44100"` // Hz, mono s16le
	FrameSamples int `envconfig:"FRAME_SAMPLES" default:"128"` // samples per capture frame

	// Batching. The debounce window is non-sliding: it starts at the
	// first frame after idle and is never re-armed by later frames.
	BatchWindowMs int `envconfig:"BATCH_WINDOW_MS" default:"5000"` // utterance window
	MinBatchBytes int `envconfig:"MIN_BATCH_BYTES" default:"1000"` // encoded WAV below this is treated as silence

	// WarmupBatches discards the first N batches of every connection to
	// skip capture start-up artifacts. Default 0: no suppression.
	WarmupBatches int `envconfig:"WARMUP_BATCHES" default:"0"`

	// SubtitlesOnly skips speech synthesis and sends text-only
	// subtitle messages instead of dubbed audio.
	SubtitlesOnly bool `envconfig:"SUBTITLES_ONLY" default:"false"`

	// DefaultLanguage is the target language used until the client
	// sends a setLanguage message.
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"Spanish"`

	// Client configuration.
	ServerURL          string `envconfig:"SERVER_URL" default:"ws://127.0.0.1:3000/ws"`
	ReconnectBackoffMs int    `envconfig:"RECONNECT_BACKOFF_MS" default:"3000"`
	CaptureCommand     string `envconfig:"CAPTURE_CMD" default:""`           // producer of raw f32le mono samples on stdout; empty = stdin
	PlayerCommand      string `envconfig:"PLAYER_CMD" default:"mpg123 -q -"` // consumer of MP3 bytes on stdin

	// Collaborator call budget, all pipeline stages together.
	PipelineTimeout int `envconfig:"PIPELINE_TIMEOUT" default:"30"` // seconds

	// Circuit breaker guarding collaborator calls.
	CircuitBreakerMaxFailures  int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`
	CircuitBreakerResetTimeout int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // seconds

	// Observability configuration.
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// BatchWindow returns the debounce window as a duration.
func (c *Config) BatchWindow() time.Duration {
	return time.Duration(c.BatchWindowMs) * time.Millisecond
}

// ReconnectBackoff returns the client reconnect backoff as a duration.
func (c *Config) ReconnectBackoff() time.Duration {
	return time.Duration(c.ReconnectBackoffMs) * time.Millisecond
}

// Load reads configuration from the environment, after loading a .env
// file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration directly from environment variables
// without consulting a .env file.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// ValidateServer checks the invariants the relay server cannot run
// without. Missing credentials are fatal by design: fail fast before
// accepting connections.
func (c *Config) ValidateServer() error {
	if c.DeepgramAPIKey == "" {
		return fmt.Errorf("DEEPGRAM_API_KEY is required")
	}
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.FrameSamples <= 0 {
		return fmt.Errorf("FRAME_SAMPLES must be positive, got %d", c.FrameSamples)
	}
	if c.BatchWindowMs <= 0 {
		return fmt.Errorf("BATCH_WINDOW_MS must be positive, got %d", c.BatchWindowMs)
	}
	return nil
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
