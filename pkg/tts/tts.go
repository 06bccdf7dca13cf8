// Package tts defines the text-to-speech component trait: synthesis of
// a text string into audio frames.
package tts

import (
	"context"

	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
)

// Request carries the text to synthesize and the voice parameters a
// provider may honor.
type Request struct {
	Text     string
	Language string
	Voice    string
	Rate     float64
}

// Provider is the capability trait for TTS providers.
type Provider interface {
	component.Provider

	// Synthesize renders req into a sequence of audio frames delivered on
	// the returned channel, closed once synthesis completes or ctx is
	// cancelled.
	Synthesize(ctx context.Context, req Request) (<-chan *audio.Frame, error)
}
