// Package vt implements the voice trigger (wake-word) component: a
// frame-oriented detector backed by a ring buffer sized from sample rate
// and window duration.
package vt

import (
	"context"
	"time"

	"github.com/lookatitude/irene/pkg/audio"
	"github.com/lookatitude/irene/pkg/component"
)

// Event is emitted when the trigger fires while armed.
type Event struct {
	Detected    bool
	Word        string
	Confidence  float64
	TimestampNs int64
}

// Detector is the capability trait every voice-trigger provider implements
// in addition to component.Provider. It is stateful across Push calls and
// must be safe for single-producer/single-consumer use.
type Detector interface {
	component.Provider

	// Push feeds one frame into the detector's sliding window and returns
	// an Event if a wake word is detected in this call.
	Push(ctx context.Context, frame *audio.Frame) (*Event, bool)

	// Arm enables detection; Disarm suppresses it. Events are only
	// emitted while the trigger is armed.
	Arm()
	Disarm()
	Armed() bool

	// SetWakeWords and SetThreshold are runtime-configurable.
	SetWakeWords(words []string)
	SetThreshold(threshold float64)
}

// BaseDetector provides the armed-state bookkeeping and ring buffer shared
// by every concrete provider; providers embed it and implement their own
// scoring in Push.
type BaseDetector struct {
	Name_      string
	Ring       *audio.RingBuffer
	armed      bool
	wakeWords  []string
	threshold  float64
}

// NewBaseDetector builds a BaseDetector with a ring buffer windowed to
// windowMs milliseconds at the given sample rate/channels/byte width.
func NewBaseDetector(name string, sampleRate, channels, bytesPerSample, windowMs int) *BaseDetector {
	return &BaseDetector{
		Name_:     name,
		Ring:      audio.NewRingBuffer(sampleRate, channels, bytesPerSample, windowMs),
		threshold: 0.5,
	}
}

func (b *BaseDetector) Name() string { return b.Name_ }
func (b *BaseDetector) Arm()         { b.armed = true }
func (b *BaseDetector) Disarm()      { b.armed = false; b.Ring.Reset() }
func (b *BaseDetector) Armed() bool  { return b.armed }

func (b *BaseDetector) SetWakeWords(words []string) { b.wakeWords = words }
func (b *BaseDetector) SetThreshold(t float64)       { b.threshold = t }

// WakeWords returns the configured wake-word set.
func (b *BaseDetector) WakeWords() []string { return b.wakeWords }

// Threshold returns the configured detection threshold.
func (b *BaseDetector) Threshold() float64 { return b.threshold }

// NowEvent is a helper providers use to stamp an Event with the current
// time in nanoseconds without importing time at every call site.
func NowEvent(word string, confidence float64) Event {
	return Event{Detected: true, Word: word, Confidence: confidence, TimestampNs: time.Now().UnixNano()}
}
