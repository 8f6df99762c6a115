package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("bizdata")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "bizdata")

	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	// Should not panic or do anything
	noOpMetrics.RecordOperation(context.Background(), "gst", "verify", "valid")
	noOpMetrics.RecordDuration(context.Background(), "gst", "verify", 100*time.Millisecond, "valid")
	noOpMetrics.RecordCacheLookup(context.Background(), "forex", CacheHit)
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "gst", "verify", "valid")
	bm.RecordOperation(ctx, "gst", "verify", "valid")
	bm.RecordOperation(ctx, "gst", "verify", "checksum_mismatch")
	bm.RecordOperation(ctx, "forex", "quote", "success")

	bm.RecordDuration(ctx, "gst", "verify", 5*time.Millisecond, "valid")
	bm.RecordDuration(ctx, "gst", "verify", 6*time.Millisecond, "valid")
	bm.RecordDuration(ctx, "forex", "quote", 150*time.Millisecond, "success")

	bm.RecordCacheLookup(ctx, "forex", CacheMiss)
	bm.RecordCacheLookup(ctx, "forex", CacheHit)
	bm.RecordCacheLookup(ctx, "forex", CacheHit)
	bm.RecordCacheLookup(ctx, "forex", CacheStale)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="gst".*operation="verify".*status="valid"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="gst".*operation="verify".*status="checksum_mismatch"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="gst".*operation="verify".*status="valid"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_cache_lookups_total`,
		`cache="forex".*result="hit"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_cache_lookups_total`,
		`cache="forex".*result="stale"`,
		`1`,
	)
}
