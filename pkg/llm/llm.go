// Package llm defines the minimal client trait the semantic NLU provider
// depends on. Concrete LLM backends (Anthropic, OpenAI, local models)
// are out of scope — this package only specifies the boundary a provider
// plugs behind, consistent with "concrete ASR/TTS/LLM algorithms...are
// providers plugged behind stable traits."
package llm

import "context"

// CompletionRequest asks a model to classify or generate structured text.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the model's raw text output.
type CompletionResponse struct {
	Text string
}

// Client is the capability trait a semantic NLU provider calls through.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}
