package asr_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookatitude/irene/pkg/asr"
	"github.com/lookatitude/irene/pkg/asr/providers/mock"
	"github.com/lookatitude/irene/pkg/audio"
)

func TestMockProvider_EmitsPartialsThenExactlyOneFinal(t *testing.T) {
	p := mock.New()
	ctx := context.Background()
	frames := make(chan *audio.Frame, 3)
	frames <- audio.NewFrame([]byte{1, 2}, 16000, 1, audio.SampleFormatInt16, 0, 1)
	frames <- audio.NewFrame([]byte{3, 4}, 16000, 1, audio.SampleFormatInt16, 0, 2)
	close(frames)

	out, err := p.Transcribe(ctx, frames)
	require.NoError(t, err)

	var partials int
	var finals int
	for tr := range out {
		if tr.IsFinal {
			finals++
		} else {
			partials++
		}
	}
	assert.Equal(t, 2, partials)
	assert.Equal(t, 1, finals)
}

func TestCollectFinal_DiscardsPartials(t *testing.T) {
	out := make(chan asr.Transcript, 3)
	out <- asr.Transcript{Text: "partial one", IsFinal: false}
	out <- asr.Transcript{Text: "partial two", IsFinal: false}
	out <- asr.Transcript{Text: "done", IsFinal: true, Confidence: 0.9}
	close(out)

	final, ok := asr.CollectFinal(context.Background(), out)
	require.True(t, ok)
	assert.Equal(t, "done", final.Text)
	assert.True(t, final.IsFinal)
}

func TestCollectFinal_ReturnsFalseOnClosedChannelWithoutFinal(t *testing.T) {
	out := make(chan asr.Transcript)
	close(out)

	_, ok := asr.CollectFinal(context.Background(), out)
	assert.False(t, ok)
}

func TestCollectFinal_RespectsContextCancellation(t *testing.T) {
	out := make(chan asr.Transcript)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := asr.CollectFinal(ctx, out)
	assert.False(t, ok)
}

var _ asr.Provider = (*mock.Provider)(nil)
