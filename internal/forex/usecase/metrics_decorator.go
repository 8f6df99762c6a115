package usecase

import (
	"context"
	"time"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
	"github.com/allisson/bizdata/internal/metrics"
)

// forexUseCaseWithMetrics decorates ForexUseCase with metrics instrumentation.
type forexUseCaseWithMetrics struct {
	next    ForexUseCase
	metrics metrics.BusinessMetrics
}

// NewForexUseCaseWithMetrics wraps a ForexUseCase with metrics recording.
func NewForexUseCaseWithMetrics(useCase ForexUseCase, m metrics.BusinessMetrics) ForexUseCase {
	return &forexUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *forexUseCaseWithMetrics) GetUSDINR(ctx context.Context) (*forexDomain.Quote, error) {
	start := time.Now()
	quote, err := f.next.GetUSDINR(ctx)
	f.record(ctx, "usd_inr", start, err)
	return quote, err
}

func (f *forexUseCaseWithMetrics) GetQuote(ctx context.Context, base, target string) (*forexDomain.Quote, error) {
	start := time.Now()
	quote, err := f.next.GetQuote(ctx, base, target)
	f.record(ctx, "quote", start, err)
	return quote, err
}

func (f *forexUseCaseWithMetrics) GetRates(
	ctx context.Context,
	base string,
	symbols []string,
) (*forexDomain.Rates, error) {
	start := time.Now()
	rates, err := f.next.GetRates(ctx, base, symbols)
	f.record(ctx, "rates", start, err)
	return rates, err
}

func (f *forexUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "forex", operation, status)
	f.metrics.RecordDuration(ctx, "forex", operation, time.Since(start), status)
}
