// Package audioout implements the audio output component: exclusive
// playback by default, with an internal serializing queue when
// concurrent_playback is enabled.
package audioout

import (
	"context"
	"sync"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/ireneerrors"
)

func playerUnavailable() error {
	return ireneerrors.New("audioout.Play", ireneerrors.CodeProviderUnavailable,
		"exclusive playback already in progress", nil)
}

// Sink is where playback frames ultimately go; a real provider writes to
// a device, the mock collects frames for assertions.
type Sink interface {
	Write(ctx context.Context, f *audio.Frame) error
}

// Player is the capability trait for audio-output providers.
type Player interface {
	component.Provider

	// Play streams frames to the device. When ConcurrentPlayback is false
	// (exclusive mode), a second concurrent Play call is rejected with
	// ireneerrors.CodeProviderUnavailable; when true, calls are serialized
	// through an internal queue instead of mixed or rejected.
	Play(ctx context.Context, frames <-chan *audio.Frame) error

	// Stop requests playback to halt within one frame boundary, for a
	// hard cancel during TTS playback.
	Stop()

	SetConcurrentPlayback(enabled bool)
}

// BaseOutput provides the exclusive/serialized queue policy shared by
// concrete providers; providers embed it and supply a Sink.
type BaseOutput struct {
	sink      Sink
	mu        sync.Mutex
	queue     sync.Mutex // serializes Play bodies when concurrent playback is enabled
	concurrent bool
	playing   bool
	stopCh    chan struct{}
}

// NewBaseOutput constructs a BaseOutput writing to sink.
func NewBaseOutput(sink Sink) *BaseOutput {
	return &BaseOutput{sink: sink, stopCh: make(chan struct{})}
}

func (b *BaseOutput) SetConcurrentPlayback(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.concurrent = enabled
}

// Stop signals the in-flight Play loop to exit at the next frame
// boundary.
func (b *BaseOutput) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.playing {
		close(b.stopCh)
		b.stopCh = make(chan struct{})
	}
}

func (b *BaseOutput) Play(ctx context.Context, frames <-chan *audio.Frame) error {
	b.mu.Lock()
	if b.playing && !b.concurrent {
		b.mu.Unlock()
		return playerUnavailable()
	}
	concurrent := b.concurrent
	b.playing = true
	stop := b.stopCh
	b.mu.Unlock()

	if concurrent {
		// Serialize writes through the queue lock instead of rejecting or
		// mixing, per the concurrent_playback policy.
		b.queue.Lock()
		defer b.queue.Unlock()
	}

	defer func() {
		b.mu.Lock()
		b.playing = false
		b.mu.Unlock()
	}()

	log := o11y.Default().WithComponent("audio_output", "base")
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			if err := b.sink.Write(ctx, f); err != nil {
				log.Error("audio write failed", "err", err)
				return err
			}
		case <-stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
