// Package mock implements a deterministic ASR provider for tests and
// bring-up: it emits one partial transcript per frame received and a
// final transcript once the input channel closes.
package mock

import (
	"context"
	"fmt"

	"github.com/lookatitude/irene/pkg/asr"
	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
)

// Provider is a test/bring-up ASR provider.
type Provider struct {
	health component.Health
	text   string
}

// New constructs a mock ASR provider whose final transcript is
// "mock transcript"; Initialize replaces it with a non-empty cfg["text"].
func New() *Provider {
	return &Provider{health: component.Healthy, text: "mock transcript"}
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) Initialize(ctx context.Context, cfg map[string]interface{}) error {
	if t, ok := cfg["text"].(string); ok && t != "" {
		p.text = t
	}
	return nil
}

func (p *Provider) Healthcheck(ctx context.Context) component.Health { return p.health }
func (p *Provider) Shutdown(ctx context.Context) error               { return nil }

func (p *Provider) Transcribe(ctx context.Context, frames <-chan *audio.Frame) (<-chan asr.Transcript, error) {
	out := make(chan asr.Transcript)
	go func() {
		defer close(out)
		var n int
		for {
			select {
			case _, ok := <-frames:
				if !ok {
					select {
					case out <- asr.Transcript{Text: p.text, IsFinal: true, Confidence: 0.95}:
					case <-ctx.Done():
					}
					return
				}
				n++
				partial := asr.Transcript{
					Text:      fmt.Sprintf("%s (partial %d)", p.text, n),
					IsFinal:   false,
					Stability: float64(n) / 10,
				}
				select {
				case out <- partial:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Register installs this provider's factory into reg under the "asr"
// component.
func Register(reg *component.Registry) {
	reg.Register("asr", "mock", func() component.Provider { return New() })
}
