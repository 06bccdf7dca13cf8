package intent

import "context"

// ChatFallbackHandler answers the conversation.chat intent the NLU
// cascade produces when no provider clears its confidence threshold. It
// never returns an error — a graceful, generic reply beats a "no handler
// resolved" failure for every utterance the system cannot place.
type ChatFallbackHandler struct {
	Reply string
}

// NewChatFallbackHandler builds a handler that always answers with reply.
// An empty reply is replaced with a generic default.
func NewChatFallbackHandler(reply string) *ChatFallbackHandler {
	if reply == "" {
		reply = "I'm not sure how to help with that yet."
	}
	return &ChatFallbackHandler{Reply: reply}
}

func (h *ChatFallbackHandler) Execute(ctx context.Context, in Intent, convo ConversationContext) (Result, error) {
	return Result{Text: h.Reply, ShouldSpeak: true, Language: in.Language}, nil
}

// RequiredParameters is always empty: the fallback never withholds a
// reply waiting on entities the NLU cascade never extracted for it.
func (h *ChatFallbackHandler) RequiredParameters(intentName string) []string { return nil }

// ClarifyingPrompt is never reached since RequiredParameters is empty.
func (h *ChatFallbackHandler) ClarifyingPrompt(intentName, missingParam string) string { return "" }
