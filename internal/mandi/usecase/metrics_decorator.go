package usecase

import (
	"context"
	"time"

	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
	"github.com/allisson/bizdata/internal/metrics"
)

type mandiUseCaseWithMetrics struct {
	next    MandiUseCase
	metrics metrics.BusinessMetrics
}

// NewMandiUseCaseWithMetrics wraps a MandiUseCase with metrics recording.
func NewMandiUseCaseWithMetrics(useCase MandiUseCase, m metrics.BusinessMetrics) MandiUseCase {
	return &mandiUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (m *mandiUseCaseWithMetrics) Snapshot(
	ctx context.Context,
	filter mandiDomain.Filter,
) (*mandiDomain.Snapshot, error) {
	start := time.Now()
	snapshot, err := m.next.Snapshot(ctx, filter)

	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "mandi", "snapshot", status)
	m.metrics.RecordDuration(ctx, "mandi", "snapshot", time.Since(start), status)

	return snapshot, err
}
