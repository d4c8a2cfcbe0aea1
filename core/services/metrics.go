package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricApi "go.opentelemetry.io/otel/sdk/metric"
)

type MetricsService struct {
	Meter         metric.Meter
	ApiTimeMetric metric.Float64Histogram
}

// NewMetricsService bootstraps the OpenTelemetry pipeline for
// Prometheus export. Call Shutdown for cleanup when done.
func NewMetricsService() (*MetricsService, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	provider := metricApi.NewMeterProvider(metricApi.WithReader(exporter))
	meter := provider.Meter("github.com/flux-anime/weaver")

	apiTimeMetric, err := meter.Float64Histogram("api_call", metric.WithDescription("api call durations"))
	if err != nil {
		return nil, err
	}

	return &MetricsService{
		Meter:         meter,
		ApiTimeMetric: apiTimeMetric,
	}, nil
}

func (m *MetricsService) ObserveAPICall(method string, path string, duration float64) {
	opts := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
	)
	m.ApiTimeMetric.Record(context.Background(), duration, opts)
}

func (m *MetricsService) Shutdown() error {
	log.Debug().Msg("metrics service shutting down")
	return nil
}
