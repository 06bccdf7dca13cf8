package workflow

import (
	"context"

	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/textproc"
)

// ApiService is the text-in -> structured-out workflow variant: it
// never synthesizes audio, returning the raw Intent and Result for a
// caller (e.g. the HTTP transport) to render.
type ApiService struct {
	deps Dependencies
}

// NewApiService builds an ApiService from deps.
func NewApiService(deps Dependencies) *ApiService {
	return &ApiService{deps: defaultDeps(deps)}
}

// Response is what ApiService.ProcessText returns: both the recognized
// intent and the handler's result, so a structured API can report
// recognition_method/confidence alongside the rendered text.
type Response struct {
	Intent intent.Intent
	Result intent.Result
}

// ProcessText runs NLU and dispatch but never touches TTS/audio out.
func (a *ApiService) ProcessText(ctx context.Context, text string, rc *RequestContext) (Response, error) {
	cleaned := text
	if a.deps.TextPipeline != nil {
		cleaned = a.deps.TextPipeline.Process(cleaned, textproc.StageGeneral)
	}

	convo := a.deps.Orchestrator.Context.Snapshot(rc.SessionID)
	language := nlu.ResolveLanguage(rc.LanguageOverride, convo, a.deps.LanguageDetect, cleaned, a.deps.SystemLanguage)
	recognized := a.deps.Cascade.Recognize(ctx, cleaned, convo, language)

	if _, cancelled := rc.cancelled(); cancelled {
		return Response{Intent: recognized}, errCancelledBeforeExecution
	}

	result, err := a.deps.Orchestrator.ExecuteIntent(ctx, recognized, rc.SessionID)
	if err != nil {
		if errIsFatal(rc, err) {
			return Response{Intent: recognized}, err
		}
		result = emitErrorResult(ctx, err.Error())
	}
	return Response{Intent: recognized, Result: result}, nil
}
