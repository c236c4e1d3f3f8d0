package monitoring

import (
	"context"
	"fmt"

	"github.com/alchemorsel/mealplan/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

// MeterProvider exposes OpenTelemetry instruments, including the otelhttp
// server metrics, through the Prometheus registry
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// NewMeterProvider installs the global meter provider
func NewMeterProvider(reg prometheus.Registerer, app config.AppConfig) (*MeterProvider, error) {
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(reg),
		otelprom.WithNamespace(namespace),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewSchemaless(
			semconv.ServiceName(app.Name),
			semconv.ServiceVersion(app.Version),
		)),
	)
	otel.SetMeterProvider(provider)

	return &MeterProvider{provider: provider}, nil
}

// Meter returns a named meter
func (m *MeterProvider) Meter(name string) metric.Meter {
	return m.provider.Meter(name)
}

// Shutdown stops collection
func (m *MeterProvider) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
