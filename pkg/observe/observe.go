// Package observe implements a push-based event bus for metrics and
// stage-transition events. It is lossy under pressure by design:
// subscriber counters may be approximate rather than exact.
package observe

import (
	"context"
	"sync"

	"github.com/lookatitude/irene/internal/o11y"
)

// Event is a point-in-time occurrence published to subscribers (stage
// transitions, provider failovers, cancellations).
type Event struct {
	Type   string
	Fields map[string]any
}

// Observer receives events. Implementations must return quickly — the
// bus delivers on a bounded channel and drops the event rather than
// block a slow subscriber.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type subscription struct {
	ch chan Event
}

// Bus fans out events to subscribers without blocking the publisher: a
// full subscriber queue causes that event to be dropped for that
// subscriber only, with a counter increment.
type Bus struct {
	mu      sync.RWMutex
	subs    map[*subscription]Observer
	queueCap int
	dropped int64
}

// NewBus builds a Bus whose per-subscriber queue holds queueCap events.
func NewBus(queueCap int) *Bus {
	if queueCap <= 0 {
		queueCap = 32
	}
	return &Bus{subs: map[*subscription]Observer{}, queueCap: queueCap}
}

// Subscribe registers obs and returns an unsubscribe function. Delivery
// happens on a dedicated goroutine per subscriber so one slow Observe
// never blocks another.
func (b *Bus) Subscribe(ctx context.Context, obs Observer) (unsubscribe func()) {
	sub := &subscription{ch: make(chan Event, b.queueCap)}
	b.mu.Lock()
	b.subs[sub] = obs
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case e := <-sub.ch:
				obs.Observe(e)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
	}
}

// Publish delivers e to every subscriber, dropping it for any whose
// queue is full.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			b.dropped++
			o11y.Default().Warn("observe: dropped event for slow subscriber", "type", e.Type)
		}
	}
}

// Dropped returns the approximate count of events dropped due to
// backpressure.
func (b *Bus) Dropped() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
