package domain

import (
	"github.com/allisson/bizdata/internal/errors"
)

// GSTIN validation errors. All of them wrap ErrInvalidInput through ErrInvalidGSTIN.
var (
	// ErrInvalidGSTIN is the parent of every GSTIN validation failure.
	ErrInvalidGSTIN = errors.Wrap(errors.ErrInvalidInput, "invalid gstin")

	ErrInvalidLength    = errors.Wrap(ErrInvalidGSTIN, string(ReasonInvalidLength))
	ErrInvalidStateCode = errors.Wrap(ErrInvalidGSTIN, string(ReasonInvalidStateCode))
	ErrInvalidFormat    = errors.Wrap(ErrInvalidGSTIN, string(ReasonInvalidFormat))
	ErrInvalidCharacter = errors.Wrap(ErrInvalidGSTIN, string(ReasonInvalidCharacter))
	ErrChecksumMismatch = errors.Wrap(ErrInvalidGSTIN, string(ReasonChecksumMismatch))

	// ErrBatchTooLarge indicates a batch request exceeded the configured maximum.
	ErrBatchTooLarge = errors.Wrap(errors.ErrInvalidInput, "too many gstins in batch")
)
