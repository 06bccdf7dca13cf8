// Package workflow implements the pipeline orchestrator: an ordered
// streaming pipeline — wake word, ASR, text normalization, NLU, intent
// dispatch, response rendering, TTS, audio out — with backpressure,
// cancellation, and partial-failure semantics.
package workflow

import (
	"context"
	"time"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/asr"
	"github.com/lookatitude/irene/pkg/audioout"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/ireneerrors"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/observe"
	"github.com/lookatitude/irene/pkg/textproc"
	"github.com/lookatitude/irene/pkg/tts"
	"github.com/lookatitude/irene/pkg/vt"
)

// Source identifies where a RequestContext originated.
type Source string

const (
	SourceMic Source = "mic"
	SourceCLI Source = "cli"
	SourceWeb Source = "web"
	SourceWS  Source = "ws"
	SourceFile Source = "file"
)

// CancelMode distinguishes soft (finish current speech) from hard
// (stop immediately, roll back the uncommitted turn) cancellation.
type CancelMode int

const (
	CancelSoft CancelMode = iota
	CancelHard
)

// RequestContext carries per-request routing and cancellation state.
type RequestContext struct {
	Source            Source
	SessionID         string
	WantsAudio        bool
	SkipWakeWord      bool
	LanguageOverride  string
	Deadline          time.Time
	FatalOnError      bool

	cancel chan CancelMode
}

// NewRequestContext builds a RequestContext with an armed cancellation
// channel.
func NewRequestContext(source Source, sessionID string) *RequestContext {
	return &RequestContext{Source: source, SessionID: sessionID, cancel: make(chan CancelMode, 1)}
}

// Cancel requests cancellation in the given mode. Only the first call
// has effect.
func (r *RequestContext) Cancel(mode CancelMode) {
	select {
	case r.cancel <- mode:
	default:
	}
}

func (r *RequestContext) cancelled() (CancelMode, bool) {
	select {
	case mode := <-r.cancel:
		r.cancel <- mode // leave it readable for subsequent checks this request
		return mode, true
	default:
		return 0, false
	}
}

// State is a step of the voice assistant's state machine.
type State string

const (
	StateIdle          State = "idle"
	StateArmed         State = "armed"
	StateListening     State = "listening"
	StateTranscribing  State = "transcribing"
	StateUnderstanding State = "understanding"
	StateExecuting     State = "executing"
	StateResponding    State = "responding"
)

// MidUtterancePolicy names what happens when the wake word fires again
// while an utterance is already in flight. It is a configuration knob
// defaulting to "ignore". VoiceAssistant does not read it: once the
// trigger fires it is no longer fed, so a repeat wake word is ignored
// under either policy.
type MidUtterancePolicy string

const (
	PolicyIgnore  MidUtterancePolicy = "ignore"
	PolicyBargeIn MidUtterancePolicy = "barge_in"
)

// Dependencies bundles every component the orchestrator drives. Fields
// may be nil when that stage is disabled (e.g. no wake word for a text
// assistant).
type Dependencies struct {
	Trigger        vt.Detector
	ASRProvider    asr.Provider
	TTSProvider    tts.Provider
	AudioOut       audioout.Player
	TextPipeline   *textproc.Pipeline
	Cascade        *nlu.Cascade
	Orchestrator   *intent.Orchestrator
	SystemLanguage string
	MidUtterance   MidUtterancePolicy
	LanguageDetect nlu.LanguageDetector
	Observe        *observe.Bus
}

// publish is a nil-safe helper: workflows run fine without an observer
// bus wired, they just forgo state-transition events.
func (d Dependencies) publish(eventType string, fields map[string]any) {
	if d.Observe != nil {
		d.Observe.Publish(observe.Event{Type: eventType, Fields: fields})
	}
}

func defaultDeps(d Dependencies) Dependencies {
	if d.MidUtterance == "" {
		d.MidUtterance = PolicyIgnore
	}
	if d.SystemLanguage == "" {
		d.SystemLanguage = "en"
	}
	return d
}

func emitErrorResult(ctx context.Context, msg string) intent.Result {
	o11y.FromContext(ctx).Warn("workflow produced error result", "msg", msg)
	return intent.Result{Text: "Sorry, something went wrong.", ShouldSpeak: true}
}

func errIsFatal(rc *RequestContext, err error) bool {
	return rc.FatalOnError && err != nil
}

var errCancelledBeforeExecution = ireneerrors.New("workflow.processUtterance", ireneerrors.CodeCancelled, "cancelled before handler execution", nil)
