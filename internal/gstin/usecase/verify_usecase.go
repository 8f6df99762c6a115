package usecase

import (
	"context"
	"fmt"

	"github.com/allisson/bizdata/internal/errors"
	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
)

// DefaultBatchMax is used when a non-positive batch maximum is configured.
const DefaultBatchMax = 50

type verifyUseCase struct {
	batchMax int
}

// Verify classifies a single candidate.
func (v *verifyUseCase) Verify(ctx context.Context, candidate string) (*gstinDomain.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	verdict := gstinDomain.Validate(candidate)
	return &verdict, nil
}

// VerifyBatch classifies each candidate independently. The context is checked
// between items so a cancelled request stops early.
func (v *verifyUseCase) VerifyBatch(ctx context.Context, candidates []string) ([]*gstinDomain.Verdict, error) {
	if len(candidates) > v.batchMax {
		return nil, errors.Wrap(
			gstinDomain.ErrBatchTooLarge,
			fmt.Sprintf("got %d, maximum is %d", len(candidates), v.batchMax),
		)
	}

	verdicts := make([]*gstinDomain.Verdict, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		verdict := gstinDomain.Validate(candidate)
		verdicts = append(verdicts, &verdict)
	}

	return verdicts, nil
}

// NewVerifyUseCase creates a VerifyUseCase accepting at most batchMax candidates per batch.
func NewVerifyUseCase(batchMax int) VerifyUseCase {
	if batchMax <= 0 {
		batchMax = DefaultBatchMax
	}
	return &verifyUseCase{batchMax: batchMax}
}
