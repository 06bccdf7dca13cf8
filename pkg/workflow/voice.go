package workflow

import (
	"context"

	"github.com/lookatitude/irene/pkg/asr"
	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/intent"
	"github.com/lookatitude/irene/pkg/nlu"
	"github.com/lookatitude/irene/pkg/textproc"
	"github.com/lookatitude/irene/pkg/tts"
)

// VoiceAssistant is the audio-in -> audio-out workflow variant.
type VoiceAssistant struct {
	deps  Dependencies
	state State
}

// NewVoiceAssistant builds a VoiceAssistant from deps.
func NewVoiceAssistant(deps Dependencies) *VoiceAssistant {
	return &VoiceAssistant{deps: defaultDeps(deps), state: StateIdle}
}

// State returns the assistant's current pipeline state.
func (v *VoiceAssistant) State() State { return v.state }

// ProcessAudioStream runs the voice pipeline: wake word gating, ASR,
// normalization, NLU, dispatch, TTS, playback. It returns after exactly
// one utterance is processed (or the stream ends or rc is cancelled
// before execution) — utterances within a session are always processed
// serially, never overlapped.
func (v *VoiceAssistant) ProcessAudioStream(ctx context.Context, frames <-chan *audio.Frame, rc *RequestContext) (intent.Result, error) {
	v.state = StateArmed
	utteranceFrames, ok := v.awaitWakeWord(ctx, frames, rc)
	if !ok {
		return intent.Result{}, ctx.Err()
	}

	v.state = StateTranscribing
	final, ok := v.transcribe(ctx, utteranceFrames)
	if !ok {
		v.state = StateIdle
		return intent.Result{}, errCancelledBeforeExecution
	}

	v.state = StateUnderstanding
	cleaned := final.Text
	if v.deps.TextPipeline != nil {
		cleaned = v.deps.TextPipeline.Process(cleaned, textproc.StageASROutput)
	}

	convo := v.deps.Orchestrator.Context.Snapshot(rc.SessionID)
	language := nlu.ResolveLanguage(final.Language, convo, v.deps.LanguageDetect, cleaned, v.deps.SystemLanguage)
	recognized := v.deps.Cascade.Recognize(ctx, cleaned, convo, language)

	if _, cancelled := rc.cancelled(); cancelled {
		// Neither cancel mode proceeds to execution: the context must not
		// gain a turn for an utterance the caller already gave up on. No
		// speech has started yet at this checkpoint, so there is nothing
		// to let finish for a soft cancel either.
		v.state = StateIdle
		return intent.Result{}, errCancelledBeforeExecution
	}

	v.state = StateExecuting
	v.deps.publish("state.transition", map[string]any{"session": rc.SessionID, "state": string(StateExecuting)})
	result, err := v.deps.Orchestrator.ExecuteIntent(ctx, recognized, rc.SessionID)
	if err != nil {
		if errIsFatal(rc, err) {
			return intent.Result{}, err
		}
		result = emitErrorResult(ctx, err.Error())
	}

	v.state = StateResponding
	if err := v.speak(ctx, result, rc); err != nil && errIsFatal(rc, err) {
		return result, err
	}

	v.state = StateIdle
	v.deps.publish("state.transition", map[string]any{"session": rc.SessionID, "state": string(StateIdle)})
	return result, nil
}

// awaitWakeWord forwards frames to the trigger until it fires (or
// skip_wake_word is set), then tees remaining frames into a buffered
// channel for ASR. Once the trigger fires it is no longer fed, so a wake
// word that fires again during the utterance is ignored whatever the
// MidUtterance policy.
func (v *VoiceAssistant) awaitWakeWord(ctx context.Context, frames <-chan *audio.Frame, rc *RequestContext) (<-chan *audio.Frame, bool) {
	out := make(chan *audio.Frame, 64)

	if rc.SkipWakeWord || v.deps.Trigger == nil {
		go pipeUntilClosed(ctx, frames, out)
		return out, true
	}

	v.deps.Trigger.Arm()
	go func() {
		defer close(out)
		for {
			select {
			case f, ok := <-frames:
				if !ok {
					return
				}
				if ev, fired := v.deps.Trigger.Push(ctx, f); fired && ev.Detected {
					v.state = StateListening
					v.deps.publish("state.transition", map[string]any{"session": rc.SessionID, "state": string(StateListening)})
					pipeUntilClosed(ctx, frames, out)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, true
}

func pipeUntilClosed(ctx context.Context, in <-chan *audio.Frame, out chan<- *audio.Frame) {
	for {
		select {
		case f, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (v *VoiceAssistant) transcribe(ctx context.Context, frames <-chan *audio.Frame) (asr.Transcript, bool) {
	out, err := v.deps.ASRProvider.Transcribe(ctx, frames)
	if err != nil {
		return asr.Transcript{}, false
	}
	return asr.CollectFinal(ctx, out)
}

func (v *VoiceAssistant) speak(ctx context.Context, result intent.Result, rc *RequestContext) error {
	if !result.ShouldSpeak || !rc.WantsAudio || v.deps.TTSProvider == nil {
		return nil
	}
	text := result.Text
	if v.deps.TextPipeline != nil {
		text = v.deps.TextPipeline.Process(text, textproc.StageTTSInput)
	}
	framesOut, err := v.deps.TTSProvider.Synthesize(ctx, tts.Request{Text: text, Language: result.Language})
	if err != nil {
		return err
	}
	if v.deps.AudioOut == nil {
		return nil
	}
	if mode, cancelled := rc.cancelled(); cancelled && mode == CancelHard {
		v.deps.AudioOut.Stop()
		return nil
	}
	return v.deps.AudioOut.Play(ctx, framesOut)
}
