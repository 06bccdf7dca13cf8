// Package keyword implements a donation-driven phrase-matching NLU
// provider: the simplest recognition method in the cascade, relying
// purely on exact and substring phrase matches contributed by handler
// donations.
package keyword

import (
	"context"
	"strconv"
	"strings"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/donation"
	"github.com/lookatitude/irene/pkg/intent"
)

// Provider recognizes intents by phrase containment against donated
// KeywordDonations.
type Provider struct {
	health    component.Health
	threshold float64
	byIntent  map[string]donation.KeywordDonation
	handlerOf map[string]string // intent -> handler domain
}

// New constructs a keyword provider with the given confidence threshold.
func New(threshold float64) *Provider {
	return &Provider{
		health:    component.Healthy,
		threshold: threshold,
		byIntent:  map[string]donation.KeywordDonation{},
		handlerOf: map[string]string{},
	}
}

func (p *Provider) Name() string { return "keyword" }

func (p *Provider) Initialize(ctx context.Context, cfg map[string]interface{}) error {
	if th, ok := cfg["threshold"].(float64); ok {
		p.threshold = th
	}
	return nil
}

func (p *Provider) Healthcheck(ctx context.Context) component.Health { return p.health }
func (p *Provider) Shutdown(ctx context.Context) error               { return nil }
func (p *Provider) Threshold() float64                               { return p.threshold }

// InitializeFromDonations builds the phrase index. Providers never fail
// fatally here — a donation with no usable phrases is logged and simply
// contributes nothing.
func (p *Provider) InitializeFromDonations(donations map[string]*donation.HandlerDonation) error {
	index := map[string]donation.KeywordDonation{}
	handlerOf := map[string]string{}
	for handler, hd := range donations {
		for _, kw := range donation.ToKeywordDonations(hd) {
			if len(kw.Phrases) == 0 {
				o11y.Default().Warn("keyword provider: intent has no phrases, skipping", "intent", kw.Intent)
				continue
			}
			index[kw.Intent] = kw
			handlerOf[kw.Intent] = handler
		}
	}
	p.byIntent = index
	p.handlerOf = handlerOf
	return nil
}

// Recognize finds the intent whose phrase set best matches text, scored
// by the longest matching phrase as a fraction of the input text length
// (substring containment, case-insensitive).
func (p *Provider) Recognize(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool) {
	lower := strings.ToLower(text)
	var bestIntent string
	var bestScore float64

	for name, kw := range p.byIntent {
		for phrase := range kw.Phrases {
			pl := strings.ToLower(phrase)
			if strings.Contains(lower, pl) {
				score := 1.0
				if len(lower) > 0 {
					score = float64(len(pl)) / float64(len(lower))
					if score > 1 {
						score = 1
					}
				}
				if score > bestScore {
					bestScore = score
					bestIntent = name
				}
			}
		}
	}
	if bestIntent == "" {
		return intent.Intent{}, false
	}
	return intent.Intent{
		Name:              bestIntent,
		Confidence:        clamp01(bestScore + 0.3), // phrase matches are a strong signal
		SourceProvider:    p.Name(),
		RecognitionMethod: intent.MethodKeyword,
	}, true
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// ExtractParameters applies each ParameterSpec's extraction pattern (if any)
// or falls back to its default, never silently defaulting a required
// parameter that was not found.
func (p *Provider) ExtractParameters(ctx context.Context, text, intentName string, specs []donation.ParameterSpec) map[string]any {
	out := map[string]any{}
	lower := strings.ToLower(text)
	for _, spec := range specs {
		if v, ok := extractOne(lower, spec); ok {
			out[spec.Name] = v
			continue
		}
		if !spec.Required && spec.Default != nil {
			out[spec.Name] = spec.Default
		}
	}
	return out
}

func extractOne(lower string, spec donation.ParameterSpec) (any, bool) {
	switch spec.Type {
	case "int", "duration":
		return firstInt(lower)
	default:
		return nil, false
	}
}

func firstInt(s string) (int, bool) {
	var digits strings.Builder
	found := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			found = true
		} else if found {
			break
		}
	}
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *Provider) ParameterSpecsFor(intentName string) []donation.ParameterSpec {
	if kw, ok := p.byIntent[intentName]; ok {
		return kw.Parameters
	}
	return nil
}

// RecognizeWithParameters composes Recognize and ExtractParameters.
func (p *Provider) RecognizeWithParameters(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool) {
	in, ok := p.Recognize(ctx, text, convo)
	if !ok {
		return in, false
	}
	specs := p.ParameterSpecsFor(in.Name)
	extracted := p.ExtractParameters(ctx, text, in.Name, specs)
	in.Entities = extracted
	return in, true
}

// Register installs this provider's factory into reg under the "nlu"
// component.
func Register(reg *component.Registry, threshold float64) {
	reg.Register("nlu", "keyword", func() component.Provider { return New(threshold) })
}
