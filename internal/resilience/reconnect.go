package resilience

import (
	"context"
	"fmt"
	"time"
)

// ReconnectConfig controls the reconnect loop. MaxAttempts <= 0 means
// retry forever until the context is cancelled. Multiplier <= 1 keeps
// the backoff fixed, which is how the relay client uses it.
type ReconnectConfig struct {
	MaxAttempts int
	Backoff     time.Duration
	Multiplier  float64
	MaxBackoff  time.Duration
}

// DefaultReconnectConfig retries forever with a fixed 3 second pause.
func DefaultReconnectConfig() *ReconnectConfig {
	return &ReconnectConfig{
		MaxAttempts: 0,
		Backoff:     3 * time.Second,
		Multiplier:  1.0,
	}
}

// Reconnect calls fn until it succeeds, the attempt budget runs out,
// or ctx is cancelled. The pause between attempts starts at Backoff
// and grows by Multiplier up to MaxBackoff.
func Reconnect(ctx context.Context, fn func() error, cfg *ReconnectConfig) error {
	if cfg == nil {
		cfg = DefaultReconnectConfig()
	}

	backoff := cfg.Backoff
	var lastErr error
	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return fmt.Errorf("reconnect failed after %d attempts: %w", attempt, lastErr)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if cfg.Multiplier > 1 {
			backoff = time.Duration(float64(backoff) * cfg.Multiplier)
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}
	}
}
