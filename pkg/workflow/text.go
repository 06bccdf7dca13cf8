package workflow

import (
	"context"

	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/textproc"
	"github.com/lookatitude/irene/pkg/tts"
)

// TextAssistant is the text-in -> audio/text-out workflow variant.
type TextAssistant struct {
	deps Dependencies
}

// NewTextAssistant builds a TextAssistant from deps.
func NewTextAssistant(deps Dependencies) *TextAssistant {
	return &TextAssistant{deps: defaultDeps(deps)}
}

// ProcessText runs the NLU/dispatch/TTS pipeline directly on text,
// skipping wake word and ASR.
func (t *TextAssistant) ProcessText(ctx context.Context, text string, rc *RequestContext) (intent.Result, error) {
	cleaned := text
	if t.deps.TextPipeline != nil {
		cleaned = t.deps.TextPipeline.Process(cleaned, textproc.StageGeneral)
	}

	convo := t.deps.Orchestrator.Context.Snapshot(rc.SessionID)
	language := nlu.ResolveLanguage(rc.LanguageOverride, convo, t.deps.LanguageDetect, cleaned, t.deps.SystemLanguage)
	recognized := t.deps.Cascade.Recognize(ctx, cleaned, convo, language)

	if _, cancelled := rc.cancelled(); cancelled {
		return intent.Result{}, errCancelledBeforeExecution
	}

	result, err := t.deps.Orchestrator.ExecuteIntent(ctx, recognized, rc.SessionID)
	if err != nil {
		if errIsFatal(rc, err) {
			return intent.Result{}, err
		}
		result = emitErrorResult(ctx, err.Error())
	}

	if result.ShouldSpeak && rc.WantsAudio && t.deps.TTSProvider != nil && t.deps.AudioOut != nil {
		spoken := result.Text
		if t.deps.TextPipeline != nil {
			spoken = t.deps.TextPipeline.Process(spoken, textproc.StageTTSInput)
		}
		framesOut, err := t.deps.TTSProvider.Synthesize(ctx, tts.Request{Text: spoken, Language: result.Language})
		if err == nil {
			_ = t.deps.AudioOut.Play(ctx, framesOut)
		}
	}

	return result, nil
}
