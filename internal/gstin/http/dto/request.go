// Package dto provides data transfer objects for GSTIN HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/bizdata/internal/validation"
)

// maxCandidateLength bounds each batch item so oversized strings are rejected before validation.
const maxCandidateLength = 64

// VerifyBatchRequest contains the GSTINs to validate in one call.
type VerifyBatchRequest struct {
	GSTINs []string `json:"gstins"`
	// Strict rejects the whole batch when any candidate is not a valid GSTIN.
	Strict bool `json:"strict"`
}

// Validate checks that the batch is non-empty, within maxItems and that each item is a non-blank string.
// Structural GSTIN failures are reported per item in the response unless Strict is set.
func (r *VerifyBatchRequest) Validate(maxItems int) error {
	itemRules := []validation.Rule{
		customValidation.NotBlank,
		validation.RuneLength(1, maxCandidateLength),
	}
	if r.Strict {
		itemRules = append(itemRules, customValidation.GSTIN)
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.GSTINs,
			validation.Required,
			validation.Length(1, maxItems),
			validation.Each(itemRules...),
		),
	)
}
