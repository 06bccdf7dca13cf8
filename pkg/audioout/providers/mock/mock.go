// Package mock implements an in-memory audio-output provider that
// collects played frames for assertions instead of writing to a device.
package mock

import (
	"context"
	"sync"

	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/audioout"
	"github.com/lookatitude/irene/pkg/component"
)

type collectingSink struct {
	mu     sync.Mutex
	frames []*audio.Frame
}

func (s *collectingSink) Write(ctx context.Context, f *audio.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return nil
}

func (s *collectingSink) Frames() []*audio.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*audio.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Provider is a test/bring-up audio-output provider.
type Provider struct {
	*audioout.BaseOutput
	sink   *collectingSink
	health component.Health
}

func New() *Provider {
	sink := &collectingSink{}
	return &Provider{BaseOutput: audioout.NewBaseOutput(sink), sink: sink, health: component.Healthy}
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) Initialize(ctx context.Context, cfg map[string]interface{}) error {
	if concurrent, ok := cfg["concurrent_playback"].(bool); ok {
		p.SetConcurrentPlayback(concurrent)
	}
	return nil
}

func (p *Provider) Healthcheck(ctx context.Context) component.Health { return p.health }
func (p *Provider) Shutdown(ctx context.Context) error               { return nil }

// Frames returns everything written to the sink so far, for assertions.
func (p *Provider) Frames() []*audio.Frame { return p.sink.Frames() }

// Register installs this provider's factory into reg under the
// "audio_output" component.
func Register(reg *component.Registry) {
	reg.Register("audio_output", "mock", func() component.Provider { return New() })
}
