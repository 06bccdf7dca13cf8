package o11y

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WithSessionAddsField(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{inner: slog.New(slog.NewJSONHandler(&buf, nil))}
	l.WithSession("s1").Info("handled turn")
	assert.Contains(t, buf.String(), `"session_id":"s1"`)
}

func TestLogger_WithComponentAddsBothFields(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{inner: slog.New(slog.NewJSONHandler(&buf, nil))}
	l.WithComponent("tts", "mock").Warn("provider degraded")
	out := buf.String()
	assert.Contains(t, out, `"component":"tts"`)
	assert.Contains(t, out, `"provider":"mock"`)
}

func TestLogger_ContextRoundTrip(t *testing.T) {
	l := NewLogger()
	ctx := l.WithContext(context.Background())
	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, Default(), FromContext(context.Background()))
}

func TestStartSpan_RecordsAttributesAndStatusWithoutPanicking(t *testing.T) {
	_, span := StartSpan(context.Background(), "nlu.recognize", Attrs{"provider": "keyword"})
	span.SetAttributes(Attrs{"confidence": 0.8})
	span.RecordError(assert.AnError)
	span.SetStatus(StatusError, assert.AnError.Error())
	span.End()
}

func TestInitPrometheusExporter_ServesMetricsEndpoint(t *testing.T) {
	handler, err := InitPrometheusExporter("irene-test")
	require.NoError(t, err)

	FramesDropped(context.Background(), "asr", 1)

	req := httptest.NewRequest("GET", "/monitoring/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "irene_audio_frames_dropped_total")
}
