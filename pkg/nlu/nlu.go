// Package nlu implements the NLU recognition subsystem: donation-driven
// providers, cascaded in configured order, with language resolution and
// a deterministic fallback intent.
package nlu

import (
	"context"

	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/donation"
	"github.com/lookatitude/irene/pkg/intent"
)

// Provider is the capability trait every NLU provider implements.
type Provider interface {
	component.Provider

	// InitializeFromDonations builds internal pattern structures from
	// donations. Must not fail fatally on optional-pattern errors —
	// implementations log and degrade instead.
	InitializeFromDonations(donations map[string]*donation.HandlerDonation) error

	// Recognize returns a candidate intent and whether one was found at
	// all (including below-threshold best guesses, for diagnostics).
	Recognize(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool)

	// ExtractParameters fills entities for intentName from text according
	// to specs, honoring required/default semantics.
	ExtractParameters(ctx context.Context, text, intentName string, specs []donation.ParameterSpec) map[string]any

	// RecognizeWithParameters is Recognize followed by ExtractParameters
	// merged into the intent's entities; providers may override this for
	// single-pass efficiency.
	RecognizeWithParameters(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool)

	// Threshold returns the minimum confidence this provider's results
	// must meet to be selected by the cascade.
	Threshold() float64
}

// BaseProvider implements RecognizeWithParameters in terms of Recognize
// and ExtractParameters so most providers only need to implement those
// two and embed BaseProvider for the composed default.
type BaseProvider struct {
	Impl interface {
		Recognize(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool)
		ExtractParameters(ctx context.Context, text, intentName string, specs []donation.ParameterSpec) map[string]any
		ParameterSpecsFor(intentName string) []donation.ParameterSpec
	}
}

func (b BaseProvider) RecognizeWithParameters(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool) {
	in, ok := b.Impl.Recognize(ctx, text, convo)
	if !ok {
		return in, false
	}
	specs := b.Impl.ParameterSpecsFor(in.Name)
	extracted := b.Impl.ExtractParameters(ctx, text, in.Name, specs)
	if in.Entities == nil {
		in.Entities = map[string]any{}
	}
	for k, v := range extracted {
		in.Entities[k] = v
	}
	return in, true
}
