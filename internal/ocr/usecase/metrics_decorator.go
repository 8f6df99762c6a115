package usecase

import (
	"context"
	"time"

	"github.com/allisson/bizdata/internal/metrics"
	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
)

// ocrUseCaseWithMetrics decorates OCRUseCase with metrics instrumentation.
type ocrUseCaseWithMetrics struct {
	next    OCRUseCase
	metrics metrics.BusinessMetrics
}

// NewOCRUseCaseWithMetrics wraps an OCRUseCase with metrics recording.
func NewOCRUseCaseWithMetrics(useCase OCRUseCase, m metrics.BusinessMetrics) OCRUseCase {
	return &ocrUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Extract records the outcome as success, rejected (invalid upload) or error.
func (o *ocrUseCaseWithMetrics) Extract(
	ctx context.Context,
	upload *ocrDomain.Upload,
) (*ocrDomain.Document, error) {
	start := time.Now()
	document, err := o.next.Extract(ctx, upload)

	status := "success"
	switch {
	case err == nil:
	case ocrDomain.IsRejected(err):
		status = "rejected"
	default:
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "ocr", "pdf_to_text", status)
	o.metrics.RecordDuration(ctx, "ocr", "pdf_to_text", time.Since(start), status)

	return document, err
}
