// Package mock implements a deterministic voice-trigger provider useful for
// tests and for bring-up before a real wake-word engine is wired in: it
// fires on the first frame, pushed while armed, whose first byte matches a
// configured marker.
package mock

import (
	"context"

	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/vt"
)

// Provider is a test/bring-up voice-trigger detector.
type Provider struct {
	*vt.BaseDetector
	marker byte
	health component.Health
}

// New constructs a mock detector. It fires on any frame whose first byte
// equals the configured "marker" parameter (default 0x7F).
func New() *Provider {
	return &Provider{
		BaseDetector: vt.NewBaseDetector("mock", 16000, 1, 2, 1000),
		marker:       0x7F,
		health:       component.Healthy,
	}
}

func (p *Provider) Initialize(ctx context.Context, cfg map[string]interface{}) error {
	if words, ok := cfg["wake_words"].([]string); ok {
		p.SetWakeWords(words)
	}
	if m, ok := cfg["marker"].(int); ok {
		p.marker = byte(m)
	}
	return nil
}

func (p *Provider) Healthcheck(ctx context.Context) component.Health { return p.health }
func (p *Provider) Shutdown(ctx context.Context) error               { return nil }

func (p *Provider) Push(ctx context.Context, frame *audio.Frame) (*vt.Event, bool) {
	if !p.Armed() {
		return nil, false
	}
	p.Ring.Write(frame.Samples())
	if frame.Len() > 0 && frame.Samples()[0] == p.marker {
		word := "irene"
		if len(p.WakeWords()) > 0 {
			word = p.WakeWords()[0]
		}
		ev := vt.NowEvent(word, 0.99)
		p.Disarm()
		return &ev, true
	}
	return nil, false
}

// Register installs this provider's factory into reg under the
// "voice_trigger" component.
func Register(reg *component.Registry) {
	reg.Register("voice_trigger", "mock", func() component.Provider { return New() })
}
