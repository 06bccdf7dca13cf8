package intent

import (
	"context"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// Orchestrator executes recognized intents against the handler registry,
// maintaining conversation context.
type Orchestrator struct {
	Registry    *Registry
	Context     *ContextManager
	Middlewares []Middleware
}

// NewOrchestrator builds an Orchestrator wired to reg and ctxMgr.
func NewOrchestrator(reg *Registry, ctxMgr *ContextManager, middlewares ...Middleware) *Orchestrator {
	return &Orchestrator{Registry: reg, Context: ctxMgr, Middlewares: middlewares}
}

// ExecuteIntent resolves in to a handler, applies the middleware chain,
// and on success updates context atomically: user turn then assistant
// turn, in that order. If a required parameter is missing, the
// handler's clarifying prompt is returned without invoking Execute or
// the middleware chain; the prompt is still recorded in context as the
// assistant turn, like any other result.
func (o *Orchestrator) ExecuteIntent(ctx context.Context, in Intent, sessionID string) (Result, error) {
	convo := o.Context.Snapshot(sessionID)

	handler, ok := o.Registry.Resolve(in.Name)
	if !ok {
		return Result{}, ireneerrors.New("intent.ExecuteIntent", ireneerrors.CodeHandler, "no handler resolved for "+in.Name, nil)
	}

	if missing := firstMissingRequired(handler, in); missing != "" {
		res := Result{Text: handler.ClarifyingPrompt(in.Name, missing), ShouldSpeak: true, Language: in.Language}
		o.Context.AddUserTurn(sessionID, in)
		o.Context.AddAssistantTurn(sessionID, res)
		return res, nil
	}

	final := func(ctx context.Context, in Intent, convo ConversationContext) (Result, error) {
		return handler.Execute(ctx, in, convo)
	}
	res, err := Chain(o.Middlewares, final)(ctx, in, convo)
	if err != nil {
		return o.handleError(ctx, in, sessionID, err)
	}

	o.Context.AddUserTurn(sessionID, in)
	o.Context.AddAssistantTurn(sessionID, res)
	return res, nil
}

func (o *Orchestrator) handleError(ctx context.Context, in Intent, sessionID string, cause error) (Result, error) {
	errHandler, ok := o.Registry.ErrorHandler()
	if !ok {
		return Result{}, ireneerrors.New("intent.ExecuteIntent", ireneerrors.CodeHandler, "handler failed and no error handler registered", cause)
	}
	convo := o.Context.Snapshot(sessionID)
	res, err := errHandler.Execute(ctx, in, convo)
	if err != nil {
		o11y.Default().Error("error handler itself failed", "intent", in.Name, "err", err)
		return Result{}, ireneerrors.New("intent.ExecuteIntent", ireneerrors.CodeHandler, "error handler failed", err)
	}
	o.Context.AddUserTurn(sessionID, in)
	o.Context.AddAssistantTurn(sessionID, res)
	return res, nil
}

func firstMissingRequired(h Handler, in Intent) string {
	for _, name := range h.RequiredParameters(in.Name) {
		if _, ok := in.Entities[name]; !ok {
			return name
		}
	}
	return ""
}
