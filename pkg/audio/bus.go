package audio

import (
	"context"
	"sync"

	"github.com/lookatitude/irene/internal/o11y"
)

// Bus is a bounded channel of Frames sized from sample_rate × window_ms.
// When a consumer falls behind, the oldest queued frame is dropped to
// make room for the newest one and a drop metric is incremented; the
// voice trigger and ASR stages must tolerate the gap.
type Bus struct {
	ch    chan *Frame
	stage string

	mu      sync.Mutex
	dropped int64
}

// NewBus creates a Bus with the given capacity (in frames) tagged with a
// stage name used for the drop-counter metric.
func NewBus(stage string, capacity int) *Bus {
	if capacity <= 0 {
		capacity = 1
	}
	return &Bus{ch: make(chan *Frame, capacity), stage: stage}
}

// Push enqueues f, dropping the oldest queued frame if the bus is full.
func (b *Bus) Push(ctx context.Context, f *Frame) {
	for {
		select {
		case b.ch <- f:
			return
		default:
		}
		select {
		case <-b.ch:
			b.mu.Lock()
			b.dropped++
			b.mu.Unlock()
			o11y.FramesDropped(ctx, b.stage, 1)
		default:
			// Raced with a consumer draining the channel; retry the push.
		}
	}
}

// Pull blocks until a frame is available or ctx is done.
func (b *Bus) Pull(ctx context.Context) (*Frame, bool) {
	select {
	case f := <-b.ch:
		return f, true
	case <-ctx.Done():
		return nil, false
	}
}

// Dropped returns the total number of frames dropped so far.
func (b *Bus) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close closes the underlying channel. Callers must stop pushing before
// calling Close.
func (b *Bus) Close() { close(b.ch) }

// WindowCapacity computes a frame-count bus capacity from sample rate and a
// window duration in milliseconds.
func WindowCapacity(sampleRate, frameSamples, windowMs int) int {
	if frameSamples <= 0 {
		return 1
	}
	framesPerMs := float64(sampleRate) / 1000.0 / float64(frameSamples)
	n := int(framesPerMs * float64(windowMs))
	if n < 1 {
		n = 1
	}
	return n
}
