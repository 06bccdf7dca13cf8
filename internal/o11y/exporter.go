package o11y

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/lookatitude/irene/pkg/ireneerrors"
)

// InitPrometheusExporter installs a Prometheus-backed MeterProvider as the
// OTel global meter provider and returns an http.Handler serving the
// scrape endpoint the runtime's /monitoring/metrics route delegates to.
func InitPrometheusExporter(serviceName string) (http.Handler, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, ireneerrors.New("o11y.InitPrometheusExporter", ireneerrors.CodeComponentInit,
			"failed to construct prometheus exporter", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	if err := InitMeter(serviceName); err != nil {
		return nil, err
	}

	return promhttp.Handler(), nil
}
