// Package audio defines the frame model and backpressure primitives that
// flow through the pipeline orchestrator: immutable PCM frames, a ring
// buffer for the voice trigger's sliding window, and a bounded bus that
// drops the oldest frame when a consumer falls behind.
package audio

import "fmt"

// SampleFormat identifies the PCM sample encoding carried by a Frame.
type SampleFormat string

const (
	SampleFormatInt16 SampleFormat = "int16"
	SampleFormatFloat32 SampleFormat = "float32"
)

// Frame is an immutable buffer of PCM samples. Once constructed it must not
// be mutated; it may be shared by reference across consumers (wake-word
// trigger, ASR, VAD) and is garbage collected once the last consumer drops
// its reference.
type Frame struct {
	samples      []byte
	sampleRate   int
	channels     int
	sampleFormat SampleFormat
	timestampNs  int64
	sequence     uint64
}

// NewFrame constructs a Frame. It copies samples so the caller's buffer can
// be reused immediately after the call returns.
func NewFrame(samples []byte, sampleRate, channels int, format SampleFormat, timestampNs int64, sequence uint64) *Frame {
	buf := make([]byte, len(samples))
	copy(buf, samples)
	return &Frame{
		samples:      buf,
		sampleRate:   sampleRate,
		channels:     channels,
		sampleFormat: format,
		timestampNs:  timestampNs,
		sequence:     sequence,
	}
}

func (f *Frame) Samples() []byte        { return f.samples }
func (f *Frame) SampleRate() int        { return f.sampleRate }
func (f *Frame) Channels() int          { return f.channels }
func (f *Frame) Format() SampleFormat   { return f.sampleFormat }
func (f *Frame) TimestampNs() int64     { return f.timestampNs }
func (f *Frame) Sequence() uint64       { return f.sequence }
func (f *Frame) Len() int               { return len(f.samples) }

// BytesPerSample returns the byte width of a single sample in the frame's
// format, used by size validation and ring-buffer math.
func (f *Frame) BytesPerSample() int {
	switch f.sampleFormat {
	case SampleFormatFloat32:
		return 4
	default:
		return 2
	}
}

// SizeLimits bounds the accepted length of a Frame's sample buffer, in
// bytes, configured per input source.
type SizeLimits struct {
	MinBytes int
	MaxBytes int
}

// Validate reports whether f's size falls within limits and that the
// sequence strictly increases relative to prevSequence (0 if this is the
// first frame of the stream).
func Validate(f *Frame, limits SizeLimits, prevSequence uint64, isFirst bool) error {
	if f.Len() < limits.MinBytes || (limits.MaxBytes > 0 && f.Len() > limits.MaxBytes) {
		return fmt.Errorf("audio: frame size %d out of bounds [%d,%d]", f.Len(), limits.MinBytes, limits.MaxBytes)
	}
	if !isFirst && f.sequence <= prevSequence {
		return fmt.Errorf("audio: non-increasing sequence %d after %d", f.sequence, prevSequence)
	}
	return nil
}
