package tts

import "context"

// Synthesizer renders text to compressed speech audio (MP3) in the
// voice of the given locale (for example "es-ES").
type Synthesizer interface {
	Synthesize(ctx context.Context, text, locale string) ([]byte, error)

	// Ping reports whether the service is reachable with the
	// configured credentials. Used by the readiness probe.
	Ping(ctx context.Context) error
}
