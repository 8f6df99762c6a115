// Package usecase defines business logic for GSTIN verification.
package usecase

import (
	"context"

	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
)

// VerifyUseCase validates GST identification numbers.
type VerifyUseCase interface {
	// Verify classifies one candidate. An invalid candidate is reported in the
	// verdict; the error is only set when the context is done.
	Verify(ctx context.Context, candidate string) (*gstinDomain.Verdict, error)

	// VerifyBatch classifies every candidate, preserving input order.
	// Returns ErrBatchTooLarge when more candidates than the configured maximum are given.
	VerifyBatch(ctx context.Context, candidates []string) ([]*gstinDomain.Verdict, error)
}
