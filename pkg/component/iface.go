// Package component implements the uniform plug-in surface shared by every
// processing component (ASR, TTS, LLM, NLU, VoiceTrigger, Audio,
// TextProcessor): discovery, filtering, lifecycle, and provider selection.
package component

import "context"

// Health represents a provider's availability, used by the selection
// policy to decide whether to use it, fail over, or fail the stage.
type Health string

const (
	Healthy     Health = "healthy"
	Degraded    Health = "degraded"
	Unavailable Health = "unavailable"
)

// Provider is the capability-agnostic surface every concrete provider
// (synthesize, transcribe, detect, recognize, ...) implements in addition
// to its component-specific trait. The component framework only needs this
// much to drive lifecycle and selection; the rest of each provider's
// capability set lives in that component's own package (pkg/asr, pkg/tts,
// ...).
type Provider interface {
	// Name returns the provider's registration name (e.g. "whisper_local").
	Name() string

	// Initialize prepares the provider to serve requests, given its
	// configuration subtree. Called once per reload.
	Initialize(ctx context.Context, config map[string]interface{}) error

	// Healthcheck reports the provider's current availability.
	Healthcheck(ctx context.Context) Health

	// Shutdown releases any resources held by the provider.
	Shutdown(ctx context.Context) error
}

// Retryable is implemented by providers that declare themselves safe to
// retry locally.
type Retryable interface {
	Retryable() bool
}
