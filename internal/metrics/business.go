package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records business operation counts and durations.
type BusinessMetrics interface {
	// RecordOperation records a business operation with its status.
	// Domain examples: "gst", "forex", "auth"
	// Operation examples: "verify", "quote", "otp_verify"
	// Status is "success", "error" or a domain outcome such as a GSTIN verdict reason.
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the duration of a business operation in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// CacheMetrics records cache lookups by cache name and result.
type CacheMetrics interface {
	RecordCacheLookup(ctx context.Context, cache, result string)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	cacheCounter     metric.Int64Counter
}

// BusinessRecorder is implemented by the OpenTelemetry backed recorder and
// satisfies both BusinessMetrics and CacheMetrics.
type BusinessRecorder interface {
	BusinessMetrics
	CacheMetrics
}

// NewBusinessMetrics creates the OpenTelemetry backed recorder. Instrument
// names are prefixed with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessRecorder, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	cacheCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_cache_lookups_total", namespace),
		metric.WithDescription("Total number of cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		cacheCounter:     cacheCounter,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordCacheLookup(ctx context.Context, cache, result string) {
	b.cacheCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("cache", cache),
			attribute.String("result", result),
		),
	)
}

// NoOpBusinessMetrics discards everything. Used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op recorder.
func NewNoOpBusinessMetrics() BusinessRecorder {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing.
func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

// RecordDuration does nothing.
func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

// RecordCacheLookup does nothing.
func (n *NoOpBusinessMetrics) RecordCacheLookup(ctx context.Context, cache, result string) {}
