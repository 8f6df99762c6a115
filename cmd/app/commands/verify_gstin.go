package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
	gstinUseCase "github.com/allisson/bizdata/internal/gstin/usecase"
)

// verifyResult is the JSON form of one verdict.
type verifyResult struct {
	GSTIN     string `json:"gstin"`
	Valid     bool   `json:"valid"`
	StateCode string `json:"state_code,omitempty"`
	State     string `json:"state,omitempty"`
	PAN       string `json:"pan,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message"`
}

// ErrInvalidGSTINs is returned when at least one candidate failed validation.
var ErrInvalidGSTINs = errors.New("one or more GSTINs are invalid")

// RunVerifyGSTIN validates candidates offline and prints one verdict per line.
func RunVerifyGSTIN(
	ctx context.Context,
	verifyUseCase gstinUseCase.VerifyUseCase,
	writer io.Writer,
	candidates []string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("at least one GSTIN is required")
	}

	verdicts, err := verifyUseCase.VerifyBatch(ctx, candidates)
	if err != nil {
		return err
	}

	invalid := 0
	results := make([]verifyResult, 0, len(verdicts))
	for _, verdict := range verdicts {
		if !verdict.Valid {
			invalid++
		}
		results = append(results, toVerifyResult(verdict))
	}

	if format == "json" {
		if err := writeJSON(writer, results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if err := writeVerifyText(writer, result); err != nil {
				return err
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidGSTINs, invalid, len(verdicts))
	}
	return nil
}

func toVerifyResult(verdict *gstinDomain.Verdict) verifyResult {
	result := verifyResult{
		GSTIN:     verdict.GSTIN,
		Valid:     verdict.Valid,
		StateCode: verdict.StateCode,
		PAN:       verdict.PAN,
		Reason:    string(verdict.Reason),
		Message:   verdict.Reason.Message(),
	}
	if name, ok := verdict.StateName(); ok {
		result.State = name
	}
	return result
}

func writeVerifyText(writer io.Writer, result verifyResult) error {
	if result.Valid {
		_, err := fmt.Fprintf(writer, "%s\tvalid\t%s\tPAN %s\n", result.GSTIN, result.State, result.PAN)
		return err
	}
	_, err := fmt.Fprintf(writer, "%s\tinvalid\t%s\t%s\n", result.GSTIN, result.Reason, result.Message)
	return err
}
