// Package asr defines the ASR (speech recognition) component trait: a
// streaming transcriber that emits partial transcripts and exactly one
// final transcript per utterance.
package asr

import (
	"context"

	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
)

// Transcript is a (possibly partial) recognition result.
type Transcript struct {
	Text       string
	Language   string
	IsFinal    bool
	Confidence float64
	Stability  float64
}

// Provider is the capability trait for ASR providers.
type Provider interface {
	component.Provider

	// Transcribe consumes frames and returns a channel of Transcripts: zero
	// or more partials followed by exactly one final, or an error if the
	// stream could not be processed. The channel is closed once the final
	// transcript is sent or ctx is cancelled.
	Transcribe(ctx context.Context, frames <-chan *audio.Frame) (<-chan Transcript, error)
}

// CollectFinal drains out until a final transcript arrives (or ctx is
// done), discarding partials — the orchestrator's default of waiting
// for the final transcript rather than racing on partials.
func CollectFinal(ctx context.Context, out <-chan Transcript) (Transcript, bool) {
	for {
		select {
		case t, ok := <-out:
			if !ok {
				return Transcript{}, false
			}
			if t.IsFinal {
				return t, true
			}
		case <-ctx.Done():
			return Transcript{}, false
		}
	}
}
