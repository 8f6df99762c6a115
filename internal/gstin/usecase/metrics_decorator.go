package usecase

import (
	"context"
	"time"

	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
	"github.com/allisson/bizdata/internal/metrics"
)

// verifyUseCaseWithMetrics decorates VerifyUseCase with metrics instrumentation.
type verifyUseCaseWithMetrics struct {
	next    VerifyUseCase
	metrics metrics.BusinessMetrics
}

// NewVerifyUseCaseWithMetrics wraps a VerifyUseCase with metrics recording.
// Single verifications are labelled "valid" or with the failure reason.
func NewVerifyUseCaseWithMetrics(useCase VerifyUseCase, m metrics.BusinessMetrics) VerifyUseCase {
	return &verifyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Verify records metrics for single verifications.
func (v *verifyUseCaseWithMetrics) Verify(ctx context.Context, candidate string) (*gstinDomain.Verdict, error) {
	start := time.Now()
	verdict, err := v.next.Verify(ctx, candidate)

	status := verdictStatus(verdict, err)
	v.metrics.RecordOperation(ctx, "gst", "verify", status)
	v.metrics.RecordDuration(ctx, "gst", "verify", time.Since(start), status)

	return verdict, err
}

// VerifyBatch records one batch operation plus one verify operation per verdict.
func (v *verifyUseCaseWithMetrics) VerifyBatch(
	ctx context.Context,
	candidates []string,
) ([]*gstinDomain.Verdict, error) {
	start := time.Now()
	verdicts, err := v.next.VerifyBatch(ctx, candidates)

	status := "success"
	if err != nil {
		status = "error"
	}

	for _, verdict := range verdicts {
		v.metrics.RecordOperation(ctx, "gst", "verify", verdictStatus(verdict, nil))
	}
	v.metrics.RecordOperation(ctx, "gst", "verify_batch", status)
	v.metrics.RecordDuration(ctx, "gst", "verify_batch", time.Since(start), status)

	return verdicts, err
}

func verdictStatus(verdict *gstinDomain.Verdict, err error) string {
	switch {
	case err != nil || verdict == nil:
		return "error"
	case verdict.Valid:
		return "valid"
	default:
		return string(verdict.Reason)
	}
}
