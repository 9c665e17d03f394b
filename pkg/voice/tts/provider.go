// Package tts provides text-to-speech functionality.
package tts

import "context"

// Provider is the interface for text-to-speech services.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text string, opts SynthesizeOptions) (*Synthesis, error)
}

// SynthesizeOptions configures synthesis.
type SynthesizeOptions struct {
	VoiceID     int    // Provider voice identifier
	SpeechModel string // Provider-specific model
	Language    string // Language code
}

// Synthesis is the result of synthesis.
type Synthesis struct {
	Audio  []byte // Audio data
	Format string // Audio format
}
