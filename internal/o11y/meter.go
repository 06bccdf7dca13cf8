package o11y

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meter holds the package-level OTel meter used by metric recording
// functions across the runtime.
var meter metric.Meter

var (
	framesDroppedCounter metric.Int64Counter
	stageDuration        metric.Float64Histogram
	recognitionConfidence metric.Float64Histogram

	meterOnce sync.Once
	meterErr  error
)

func init() {
	meter = otel.Meter("github.com/lookatitude/irene")
}

func initInstruments() error {
	meterOnce.Do(func() {
		var err error

		framesDroppedCounter, err = meter.Int64Counter(
			"irene.audio.frames_dropped_total",
			metric.WithDescription("Number of audio frames dropped under backpressure"),
			metric.WithUnit("{frame}"),
		)
		if err != nil {
			meterErr = err
			return
		}

		stageDuration, err = meter.Float64Histogram(
			"irene.pipeline.stage_duration",
			metric.WithDescription("Duration of a pipeline stage"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			meterErr = err
			return
		}

		recognitionConfidence, err = meter.Float64Histogram(
			"irene.nlu.recognition_confidence",
			metric.WithDescription("Confidence score of NLU recognition results"),
			metric.WithUnit("1"),
		)
		if err != nil {
			meterErr = err
			return
		}
	})
	return meterErr
}

// InitMeter configures the package-level meter with the given service name.
func InitMeter(serviceName string) error {
	meter = otel.Meter(
		"github.com/lookatitude/irene",
		metric.WithInstrumentationAttributes(attribute.String("service.name", serviceName)),
	)
	meterOnce = sync.Once{}
	meterErr = nil
	return initInstruments()
}

// FramesDropped records n frames dropped by a bounded audio bus due to a
// slow consumer, tagged with the stream stage that dropped them.
func FramesDropped(ctx context.Context, stage string, n int64) {
	if err := initInstruments(); err != nil {
		return
	}
	framesDroppedCounter.Add(ctx, n, metric.WithAttributes(attribute.String("stage", stage)))
}

// StageDuration records how long a named pipeline stage took.
func StageDuration(ctx context.Context, stage string, durationMs float64) {
	if err := initInstruments(); err != nil {
		return
	}
	stageDuration.Record(ctx, durationMs, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecognitionConfidence records the confidence score produced by an NLU
// provider, tagged with provider name and whether it was selected.
func RecognitionConfidence(ctx context.Context, provider string, confidence float64, selected bool) {
	if err := initInstruments(); err != nil {
		return
	}
	recognitionConfidence.Record(ctx, confidence, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.Bool("selected", selected),
	))
}

// Counter records an increment to an arbitrary named counter metric.
func Counter(ctx context.Context, name string, value int64, attrs Attrs) {
	c, err := meter.Int64Counter(name)
	if err != nil {
		return
	}
	c.Add(ctx, value, metric.WithAttributes(attrsToOTel(attrs)...))
}
