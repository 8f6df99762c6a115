// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// Business operations (gst, forex, mandi, ocr, auth), cache lookups and HTTP
// requests are recorded on one registry served by the metrics server.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns the meter provider, the Prometheus exporter and its registry.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
}

// ProviderOption customizes a Provider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	runtimeCollectors bool
	serviceVersion    string
}

// WithRuntimeCollectors registers the Go runtime and process collectors on the registry.
func WithRuntimeCollectors() ProviderOption {
	return func(o *providerOptions) {
		o.runtimeCollectors = true
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) ProviderOption {
	return func(o *providerOptions) {
		o.serviceVersion = version
	}
}

// NewProvider creates a metrics provider exporting to a private Prometheus registry.
// The namespace is used as the service name and as the prefix of every instrument.
func NewProvider(namespace string, opts ...ProviderOption) (*Provider, error) {
	options := providerOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	registry := prometheus.NewRegistry()
	if options.runtimeCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", namespace)}
	if options.serviceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", options.serviceVersion))
	}
	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics resource: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
	}, nil
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the OpenTelemetry meter provider.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
