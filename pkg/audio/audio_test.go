package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_Accessors(t *testing.T) {
	f := NewFrame([]byte{1, 2, 3, 4}, 16000, 1, SampleFormatInt16, 1000, 1)
	assert.Equal(t, 16000, f.SampleRate())
	assert.Equal(t, 1, f.Channels())
	assert.Equal(t, SampleFormatInt16, f.Format())
	assert.Equal(t, 2, f.BytesPerSample())
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, uint64(1), f.Sequence())
}

func TestFrame_IsImmutableCopy(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	f := NewFrame(raw, 16000, 1, SampleFormatInt16, 0, 1)
	raw[0] = 99
	assert.Equal(t, byte(1), f.Samples()[0], "mutating caller buffer must not affect the frame")
}

func TestValidate_SizeBounds(t *testing.T) {
	limits := SizeLimits{MinBytes: 2, MaxBytes: 8}
	ok := NewFrame([]byte{1, 2, 3, 4}, 16000, 1, SampleFormatInt16, 0, 1)
	assert.NoError(t, Validate(ok, limits, 0, true))

	tooSmall := NewFrame([]byte{1}, 16000, 1, SampleFormatInt16, 0, 1)
	assert.Error(t, Validate(tooSmall, limits, 0, true))

	tooBig := NewFrame(make([]byte, 16), 16000, 1, SampleFormatInt16, 0, 1)
	assert.Error(t, Validate(tooBig, limits, 0, true))
}

func TestValidate_SequenceStrictlyIncreasing(t *testing.T) {
	limits := SizeLimits{MinBytes: 1, MaxBytes: 100}
	f := NewFrame([]byte{1, 2}, 16000, 1, SampleFormatInt16, 0, 5)
	assert.NoError(t, Validate(f, limits, 4, false))
	assert.Error(t, Validate(f, limits, 5, false))
	assert.Error(t, Validate(f, limits, 6, false))
}

func TestRingBuffer_WrapsAndKeepsChronologicalOrder(t *testing.T) {
	rb := NewRingBuffer(1000, 1, 1, 10) // 10 ms * 1 sample/ms * 1 byte = 10 bytes capacity
	require.Equal(t, 10, rb.Capacity())

	rb.Write([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, rb.Snapshot())

	rb.Write([]byte{6, 7, 8, 9, 10, 11, 12})
	assert.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, rb.Snapshot())
}

func TestRingBuffer_Reset(t *testing.T) {
	rb := NewRingBuffer(1, 1, 1, 10)
	rb.Write([]byte{1, 2, 3})
	rb.Reset()
	assert.Equal(t, 0, rb.Len())
	assert.Empty(t, rb.Snapshot())
}

func TestBus_DropsOldestUnderBackpressure(t *testing.T) {
	bus := NewBus("test", 2)
	ctx := context.Background()

	bus.Push(ctx, NewFrame([]byte{1}, 16000, 1, SampleFormatInt16, 0, 1))
	bus.Push(ctx, NewFrame([]byte{2}, 16000, 1, SampleFormatInt16, 0, 2))
	bus.Push(ctx, NewFrame([]byte{3}, 16000, 1, SampleFormatInt16, 0, 3)) // drops seq 1

	first, ok := bus.Pull(ctx)
	require.True(t, ok)
	assert.Equal(t, uint64(2), first.Sequence())

	assert.Equal(t, int64(1), bus.Dropped())
}

func TestBus_PullRespectsContextCancellation(t *testing.T) {
	bus := NewBus("test", 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok := bus.Pull(ctx)
	assert.False(t, ok)
}

func TestWindowCapacity(t *testing.T) {
	assert.Equal(t, 16, WindowCapacity(16000, 160, 160)) // 10ms frames, 160ms window -> 16 frames
	assert.Equal(t, 1, WindowCapacity(16000, 0, 100))
}
