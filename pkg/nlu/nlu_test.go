package nlu_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/donation"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/llm"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/nlu/providers/keyword"
	"github.com/lookatitude/irene/pkg/nlu/providers/semantic"
)

func timerDonations() map[string]*donation.HandlerDonation {
	return map[string]*donation.HandlerDonation{
		"timer": {
			HandlerDomain: "timer",
			Methods: map[string]*donation.MethodDonation{
				"timer.set": {
					Intent: "timer.set", Method: "set_timer",
					Phrases:    []string{"set a timer", "start a timer"},
					Parameters: []donation.ParameterSpec{{Name: "duration", Type: "duration", Required: true}},
				},
			},
		},
	}
}

func TestKeywordProvider_RecognizesDonatedPhrase(t *testing.T) {
	p := keyword.New(0.5)
	require.NoError(t, p.InitializeFromDonations(timerDonations()))

	in, ok := p.RecognizeWithParameters(context.Background(), "please set a timer for 10 minutes", intent.ConversationContext{})
	require.True(t, ok)
	assert.Equal(t, "timer.set", in.Name)
	assert.Equal(t, 10, in.Entities["duration"])
	assert.GreaterOrEqual(t, in.Confidence, p.Threshold())
}

func TestKeywordProvider_NoMatchReturnsFalse(t *testing.T) {
	p := keyword.New(0.5)
	require.NoError(t, p.InitializeFromDonations(timerDonations()))

	_, ok := p.RecognizeWithParameters(context.Background(), "what's the weather like", intent.ConversationContext{})
	assert.False(t, ok)
}

func TestCascade_FirstQualifyingProviderWins(t *testing.T) {
	p1 := keyword.New(0.2) // easy to satisfy
	require.NoError(t, p1.InitializeFromDonations(timerDonations()))
	p2 := keyword.New(0.99) // never satisfied in this test

	cascade := nlu.NewCascade(p1, p2)
	result := cascade.Recognize(context.Background(), "set a timer for 5 minutes", intent.ConversationContext{}, "en")
	assert.Equal(t, "timer.set", result.Name)
}

func TestCascade_FallsBackToConversationChatWhenNoneQualify(t *testing.T) {
	p := keyword.New(0.99)
	require.NoError(t, p.InitializeFromDonations(timerDonations()))

	cascade := nlu.NewCascade(p)
	result := cascade.Recognize(context.Background(), "completely unrelated text", intent.ConversationContext{}, "en")
	assert.Equal(t, intent.FallbackIntentName, result.Name)
	assert.Equal(t, intent.MethodFallback, result.RecognitionMethod)
}

func TestResolveLanguage_PrefersExplicitOverride(t *testing.T) {
	got := nlu.ResolveLanguage("ru", intent.ConversationContext{PreferredLanguage: "en"}, nil, "", "en")
	assert.Equal(t, "ru", got)
}

func TestResolveLanguage_FallsBackToPreviousTurnLanguage(t *testing.T) {
	convo := intent.ConversationContext{History: []intent.Turn{
		{User: &intent.Intent{Language: "ru"}},
	}}
	got := nlu.ResolveLanguage("", convo, nil, "", "en")
	assert.Equal(t, "ru", got)
}

func TestResolveLanguage_FallsBackToSystemDefault(t *testing.T) {
	got := nlu.ResolveLanguage("", intent.ConversationContext{}, nil, "", "en")
	assert.Equal(t, "en", got)
}

type fakeLLM struct {
	response string
}

func (f fakeLLM) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	return llm.CompletionResponse{Text: f.response}, nil
}

func TestSemanticProvider_ParsesClassificationJSON(t *testing.T) {
	p := semantic.New(fakeLLM{response: `{"intent":"weather.get_current","confidence":0.87}`}, 0.5)
	require.NoError(t, p.InitializeFromDonations(timerDonations()))

	in, ok := p.Recognize(context.Background(), "what's the weather", intent.ConversationContext{})
	require.True(t, ok)
	assert.Equal(t, "weather.get_current", in.Name)
	assert.InDelta(t, 0.87, in.Confidence, 0.001)
}

func TestSemanticProvider_UnhealthyWithoutClient(t *testing.T) {
	p := semantic.New(nil, 0.5)
	assert.Equal(t, component.Unavailable, p.Healthcheck(context.Background()))
}
