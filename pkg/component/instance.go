package component

import (
	"context"
	"math"
	"time"

	"github.com/lookatitude/irene/internal/o11y"
	"github.com/lookatitude/irene/pkg/ireneerrors"
	"github.com/lookatitude/irene/pkg/observe"
)

// Instance is a configured component (one of ASR/TTS/LLM/NLU/VoiceTrigger/
// Audio/TextProcessor): an enabled flag, a default provider, an ordered
// fallback list, and the live provider instances keyed by name. At most one
// provider handles a single request at a time per instance.
type Instance struct {
	Name              string
	Enabled           bool
	DefaultProvider   string
	FallbackProviders []string
	Providers         map[string]Provider

	MaxRetries int
	BaseBackoff time.Duration

	// Observe, if set, receives "component.failover" and
	// "component.exhausted" events as Call walks the selection order.
	Observe *observe.Bus
}

func (c *Instance) publish(eventType string, fields map[string]any) {
	if c.Observe == nil {
		return
	}
	merged := map[string]any{"component": c.Name}
	for k, v := range fields {
		merged[k] = v
	}
	c.Observe.Publish(observe.Event{Type: eventType, Fields: merged})
}

// NewInstance constructs an Instance with MaxRetries set to 2 retries and
// BaseBackoff to a 100ms base backoff.
func NewInstance(name string) *Instance {
	return &Instance{
		Name:        name,
		Providers:   make(map[string]Provider),
		MaxRetries:  2,
		BaseBackoff: 100 * time.Millisecond,
	}
}

// Select implements the provider selection policy:
//  1. If the request pins a provider name and it is healthy, use it.
//  2. Else use the component's default provider if healthy.
//  3. Else iterate fallback providers until a healthy one is found.
//  4. Else fail the stage with ProviderUnavailable.
func (c *Instance) Select(ctx context.Context, pinned string) (Provider, error) {
	if !c.Enabled {
		return nil, ireneerrors.New("component.Select", ireneerrors.CodeProviderUnavailable,
			"component "+c.Name+" is disabled", nil)
	}

	order := []string{}
	if pinned != "" {
		order = append(order, pinned)
	}
	order = append(order, c.DefaultProvider)
	order = append(order, c.FallbackProviders...)

	seen := map[string]bool{}
	for _, name := range order {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		p, ok := c.Providers[name]
		if !ok {
			continue
		}
		if p.Healthcheck(ctx) == Healthy {
			return p, nil
		}
	}
	return nil, ireneerrors.New("component.Select", ireneerrors.CodeProviderUnavailable,
		"no healthy provider available for component "+c.Name, nil)
}

// Call runs fn against the provider selected for pinned, retrying with
// exponential backoff when the provider declares itself retryable and the
// error is a retryable taxonomy code, then failing over to the next
// candidate in the selection order before finally surfacing
// ProviderUnavailable.
func (c *Instance) Call(ctx context.Context, pinned string, fn func(Provider) error) error {
	order := []string{}
	if pinned != "" {
		order = append(order, pinned)
	}
	order = append(order, c.DefaultProvider)
	order = append(order, c.FallbackProviders...)

	seen := map[string]bool{}
	var lastErr error
	for _, name := range order {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		p, ok := c.Providers[name]
		if !ok || p.Healthcheck(ctx) != Healthy {
			continue
		}

		err := c.callWithRetry(ctx, p, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		c.publish("component.failover", map[string]any{"provider": name, "err": err.Error()})
	}

	if lastErr == nil {
		lastErr = ireneerrors.New("component.Call", ireneerrors.CodeProviderUnavailable,
			"no healthy provider available for component "+c.Name, nil)
	}
	c.publish("component.exhausted", map[string]any{"err": lastErr.Error()})
	return ireneerrors.New("component.Call", ireneerrors.CodeProviderUnavailable,
		"all providers exhausted for component "+c.Name, lastErr)
}

func (c *Instance) callWithRetry(ctx context.Context, p Provider, fn func(Provider) error) error {
	retryable, _ := p.(Retryable)
	attempts := 1
	if retryable != nil && retryable.Retryable() {
		attempts += c.MaxRetries
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := time.Duration(math.Pow(2, float64(i-1))) * c.BaseBackoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			o11y.Counter(ctx, "irene.component.retry_total", 1, o11y.Attrs{"component": c.Name, "provider": p.Name()})
		}
		err = fn(p)
		if err == nil {
			return nil
		}
		if !ireneerrors.Retryable(err) {
			return err
		}
	}
	return err
}
