// Package intent implements the intent subsystem's core data model and
// the intent orchestrator/handler registry: conversation context,
// handler routing, and execution.
package intent

import "time"

// RecognitionMethod records how an Intent was produced.
type RecognitionMethod string

const (
	MethodKeyword  RecognitionMethod = "keyword"
	MethodRule     RecognitionMethod = "rule"
	MethodSemantic RecognitionMethod = "semantic"
	MethodHybrid   RecognitionMethod = "hybrid"
	MethodFallback RecognitionMethod = "fallback"
)

// FallbackIntentName is produced when no NLU provider exceeds its
// confidence threshold.
const FallbackIntentName = "conversation.chat"

// Intent is an immutable recognized user goal.
type Intent struct {
	Name              string
	Entities          map[string]any
	Confidence        float64
	RawText           string
	Language          string
	SourceProvider    string
	RecognitionMethod RecognitionMethod
	TimestampNs       int64
}

// Domain returns the part of Name before the first dot, per the
// invariant that Name splits into domain.action.
func (i Intent) Domain() string {
	for idx, r := range i.Name {
		if r == '.' {
			return i.Name[:idx]
		}
	}
	return i.Name
}

// Action represents a side-effecting directive a handler's result
// carries back to the orchestrator (e.g., "set a reminder", "play
// audio") beyond the spoken/textual response.
type Action struct {
	Type    string
	Payload map[string]any
}

// Result is produced by a handler and consumed by the orchestrator for
// rendering.
type Result struct {
	Text        string
	ShouldSpeak bool
	Language    string
	Metadata    map[string]any
	Actions     []Action
}

// Turn is a tagged union: exactly one of User/Assistant is set.
type Turn struct {
	ID        string
	User      *Intent
	Assistant *Result
	Timestamp time.Time
}

// ConversationContext is per-session conversational state, owned
// exclusively by the ContextManager.
type ConversationContext struct {
	SessionID         string
	StartedAt         time.Time
	LastActivity      time.Time
	History           []Turn
	UserProfile       map[string]any
	Variables         map[string]any
	PreferredLanguage string
}

// Snapshot returns a deep-enough copy safe for concurrent reads: the
// History slice and maps are copied so a reader never observes a
// mutation in progress.
func (c *ConversationContext) Snapshot() ConversationContext {
	out := *c
	out.History = append([]Turn(nil), c.History...)
	out.UserProfile = cloneMap(c.UserProfile)
	out.Variables = cloneMap(c.Variables)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
