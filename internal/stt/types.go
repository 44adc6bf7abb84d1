package stt

import "context"

// Transcriber converts one utterance of encoded audio to text. An
// empty transcript with a nil error means the audio carried no speech.
type Transcriber interface {
	// Transcribe sends a complete WAV utterance and returns the best
	// transcript.
	Transcribe(ctx context.Context, wav []byte) (string, error)

	// Ping reports whether the service is reachable with the
	// configured credentials. Used by the readiness probe.
	Ping(ctx context.Context) error
}
