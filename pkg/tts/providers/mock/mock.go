// Package mock implements a deterministic TTS provider for tests and
// bring-up: it emits a fixed number of silent frames proportional to the
// length of the requested text.
package mock

import (
	"context"

	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
	"github.com/lookatitude/irene/pkg/tts"
)

const frameSamples = 320 // 20ms @ 16kHz mono 16-bit

// Provider is a test/bring-up TTS provider.
type Provider struct {
	health component.Health
}

func New() *Provider { return &Provider{health: component.Healthy} }

func (p *Provider) Name() string { return "mock" }

func (p *Provider) Initialize(ctx context.Context, cfg map[string]interface{}) error { return nil }

func (p *Provider) Healthcheck(ctx context.Context) component.Health { return p.health }
func (p *Provider) Shutdown(ctx context.Context) error               { return nil }

func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (<-chan *audio.Frame, error) {
	out := make(chan *audio.Frame)
	n := len(req.Text)/5 + 1
	go func() {
		defer close(out)
		samples := make([]byte, frameSamples*2)
		for i := 0; i < n; i++ {
			f := audio.NewFrame(samples, 16000, 1, audio.SampleFormatInt16, int64(i)*20_000_000, uint64(i+1))
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Register installs this provider's factory into reg under the "tts"
// component.
func Register(reg *component.Registry) {
	reg.Register("tts", "mock", func() component.Provider { return New() })
}
