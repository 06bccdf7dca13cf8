package donation

import (
	"context"

	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// MethodDispatcher invokes the business logic behind a donated method and
// produces a Result. Donation data describes routing and parameters only;
// the actual method body is necessarily supplied by the embedding
// application, so dispatch is injected rather than loaded from the
// donation file, the same way MethodExistenceChecker is injected.
type MethodDispatcher func(ctx context.Context, method string, in intent.Intent, convo intent.ConversationContext) (intent.Result, error)

// Handler adapts one merged HandlerDonation into an intent.Handler:
// donation data supplies routing and required-parameter metadata,
// templates supply localized clarifying prompts, and dispatch supplies
// the method body.
type Handler struct {
	donation  *HandlerDonation
	templates *TemplateSet
	dispatch  MethodDispatcher
}

// NewHandler builds a Handler over hd. templates may be nil, in which
// case ClarifyingPrompt falls back to a generic English prompt.
func NewHandler(hd *HandlerDonation, templates *TemplateSet, dispatch MethodDispatcher) *Handler {
	return &Handler{donation: hd, templates: templates, dispatch: dispatch}
}

// Execute looks up the method donated for in.Name and runs it through
// dispatch.
func (h *Handler) Execute(ctx context.Context, in intent.Intent, convo intent.ConversationContext) (intent.Result, error) {
	m, ok := h.donation.Methods[in.Name]
	if !ok {
		return intent.Result{}, ireneerrors.New("donation.Handler.Execute", ireneerrors.CodeHandler,
			"no method donated for intent "+in.Name, nil)
	}
	return h.dispatch(ctx, m.Method, in, convo)
}

// RequiredParameters merges the handler's global parameters with the
// matched method's own parameters and returns the names marked required.
func (h *Handler) RequiredParameters(intentName string) []string {
	m, ok := h.donation.Methods[intentName]
	if !ok {
		return nil
	}
	var out []string
	for _, p := range h.donation.GlobalParameters {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	for _, p := range m.Parameters {
		if p.Required {
			out = append(out, p.Name)
		}
	}
	return out
}

// ClarifyingPrompt looks up a "{intentName}.{missingParam}" template key
// in the default language, falling back to a generic prompt if the
// handler donated no template for it.
func (h *Handler) ClarifyingPrompt(intentName, missingParam string) string {
	if h.templates != nil {
		if text, ok := h.templates.Lookup(h.templates.DefaultLanguage, intentName+"."+missingParam); ok {
			return text
		}
	}
	return "I need a value for " + missingParam + "."
}
