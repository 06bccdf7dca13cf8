// Package semantic implements an LLM-backed NLU provider: it asks a
// language model to pick the closest matching intent from the donated
// intent names plus a short description built from their phrases. It is
// the slow, expensive step in the cascade and is tried after keyword/rule
// providers.
package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/donation"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/llm"
)

// Provider is a semantic (LLM-backed) NLU provider.
type Provider struct {
	client    llm.Client
	health    component.Health
	threshold float64
	intents   map[string][]string // intent -> sample phrases
	group     singleflight.Group
}

// New constructs a semantic provider calling client to classify text.
func New(client llm.Client, threshold float64) *Provider {
	return &Provider{client: client, health: component.Healthy, threshold: threshold, intents: map[string][]string{}}
}

func (p *Provider) Name() string { return "semantic" }

func (p *Provider) Initialize(ctx context.Context, cfg map[string]interface{}) error {
	if th, ok := cfg["threshold"].(float64); ok {
		p.threshold = th
	}
	return nil
}

func (p *Provider) Healthcheck(ctx context.Context) component.Health {
	if p.client == nil {
		return component.Unavailable
	}
	return p.health
}

func (p *Provider) Shutdown(ctx context.Context) error { return nil }
func (p *Provider) Threshold() float64                 { return p.threshold }

// Retryable marks transient LLM failures (timeouts, rate limits) as
// worth retrying via the component framework's backoff policy.
func (p *Provider) Retryable() bool { return true }

func (p *Provider) InitializeFromDonations(donations map[string]*donation.HandlerDonation) error {
	intents := map[string][]string{}
	for _, hd := range donations {
		for _, kw := range donation.ToKeywordDonations(hd) {
			intents[kw.Intent] = kw.PhraseList()
		}
	}
	p.intents = intents
	return nil
}

type classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Recognize asks the LLM client to classify text against the known
// intent set. Deduplicates identical concurrent requests for the same
// text via singleflight since LLM calls are the most expensive stage.
func (p *Provider) Recognize(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool) {
	if p.client == nil {
		return intent.Intent{}, false
	}
	v, err, _ := p.group.Do(text, func() (any, error) {
		resp, err := p.client.Complete(ctx, llm.CompletionRequest{Prompt: p.buildPrompt(text), MaxTokens: 128})
		if err != nil {
			return nil, err
		}
		var c classification
		if jsonErr := json.Unmarshal([]byte(extractJSON(resp.Text)), &c); jsonErr != nil {
			return nil, jsonErr
		}
		return c, nil
	})
	if err != nil {
		o11y.Default().Warn("semantic provider classification failed", "err", err)
		return intent.Intent{}, false
	}
	c := v.(classification)
	if c.Intent == "" {
		return intent.Intent{}, false
	}
	return intent.Intent{
		Name:              c.Intent,
		Confidence:        c.Confidence,
		SourceProvider:    p.Name(),
		RecognitionMethod: intent.MethodSemantic,
	}, true
}

func (p *Provider) buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Classify the user utterance into one of these intents. Respond with JSON {\"intent\":...,\"confidence\":0-1}.\n")
	for name, phrases := range p.intents {
		fmt.Fprintf(&b, "- %s: e.g. %s\n", name, strings.Join(phrases, "; "))
	}
	fmt.Fprintf(&b, "Utterance: %q\n", text)
	return b.String()
}

func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < 0 || end < start {
		return "{}"
	}
	return s[start : end+1]
}

// ExtractParameters is a no-op for the semantic provider in this
// implementation — a future revision could ask the model for slots in
// the same call.
func (p *Provider) ExtractParameters(ctx context.Context, text, intentName string, specs []donation.ParameterSpec) map[string]any {
	return map[string]any{}
}

func (p *Provider) ParameterSpecsFor(intentName string) []donation.ParameterSpec { return nil }

func (p *Provider) RecognizeWithParameters(ctx context.Context, text string, convo intent.ConversationContext) (intent.Intent, bool) {
	return p.Recognize(ctx, text, convo)
}

// Register installs this provider's factory into reg under the "nlu"
// component.
func Register(reg *component.Registry, client llm.Client, threshold float64) {
	reg.Register("nlu", "semantic", func() component.Provider { return New(client, threshold) })
}
