package translate

import "context"

// Translator turns a transcript into the target language. The target
// is a human-readable language name ("Spanish", "Japanese"), matching
// what clients send in setLanguage messages.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)

	// Ping reports whether the service is reachable with the
	// configured credentials. Used by the readiness probe.
	Ping(ctx context.Context) error
}
