package nlu

import (
	"context"
	"time"

	"github.com/lookatitude/irene/pkg/intent"
)

// Cascade runs providers in configured order and applies the selection
// rule: first provider at/above its own threshold wins; ties on
// confidence are broken in favor of the earlier provider in order; if
// none qualify, a conversation.chat fallback intent is produced.
type Cascade struct {
	Providers []Provider
}

// NewCascade builds a Cascade over providers, tried in the given order.
func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{Providers: providers}
}

// Recognize runs the cascade and always returns an Intent: either a
// qualifying recognition or the fallback.
func (c *Cascade) Recognize(ctx context.Context, text string, convo intent.ConversationContext, language string) intent.Intent {
	var best *intent.Intent
	for _, p := range c.Providers {
		in, ok := p.RecognizeWithParameters(ctx, text, convo)
		if !ok {
			continue
		}
		in.Language = language
		in.RawText = text
		in.TimestampNs = time.Now().UnixNano()
		if in.Confidence >= p.Threshold() {
			// First qualifying provider in order wins outright — later
			// providers are never consulted, which also resolves equal-
			// confidence ties in favor of the earlier provider.
			return in
		}
		if best == nil || in.Confidence > best.Confidence {
			cp := in
			best = &cp
		}
	}
	return fallback(text, language)
}

func fallback(text, language string) intent.Intent {
	return intent.Intent{
		Name:              intent.FallbackIntentName,
		Entities:          map[string]any{"text": text},
		Confidence:        0,
		RawText:           text,
		Language:          language,
		RecognitionMethod: intent.MethodFallback,
		TimestampNs:       time.Now().UnixNano(),
	}
}
