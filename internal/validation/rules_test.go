package validation

import (
	"errors"
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/bizdata/internal/errors"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		shouldErr bool
	}{
		{name: "valid email", email: "ops@example.in", shouldErr: false},
		{name: "valid email with plus", email: "ops+otp@example.co.in", shouldErr: false},
		{name: "missing at", email: "ops.example.in", shouldErr: true},
		{name: "missing domain", email: "ops@", shouldErr: true},
		{name: "short tld", email: "ops@example.i", shouldErr: true},
		{name: "empty string skipped", email: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.email, Email)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("laptop", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, validation.Validate("key", NoWhitespace))
	assert.Error(t, validation.Validate(" key", NoWhitespace))
	assert.Error(t, validation.Validate("key\n", NoWhitespace))
}

func TestOTPCode(t *testing.T) {
	tests := []struct {
		code      string
		shouldErr bool
	}{
		{code: "123456", shouldErr: false},
		{code: "000000", shouldErr: false},
		{code: "12345", shouldErr: true},
		{code: "1234567", shouldErr: true},
		{code: "12a456", shouldErr: true},
		{code: "١٢٣٤٥٦", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := validation.Validate(tt.code, OTPCode)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurrencyCode(t *testing.T) {
	assert.NoError(t, validation.Validate("USD", CurrencyCode))
	assert.NoError(t, validation.Validate("inr", CurrencyCode))
	assert.Error(t, validation.Validate("US", CurrencyCode))
	assert.Error(t, validation.Validate("US1", CurrencyCode))
	assert.Error(t, validation.Validate("EURO", CurrencyCode))
}

func TestTier(t *testing.T) {
	for _, tier := range []string{"free", "pro", "enterprise", "PRO"} {
		assert.NoError(t, validation.Validate(tier, Tier), tier)
	}
	assert.Error(t, validation.Validate("gold", Tier))
}

func TestGSTIN(t *testing.T) {
	tests := []struct {
		name    string
		gstin   string
		errCode string
	}{
		{name: "valid", gstin: "27AAPFU0939F1ZV"},
		{name: "valid lowercase", gstin: "27aapfu0939f1zv"},
		{name: "empty skipped", gstin: ""},
		{name: "too short", gstin: "27AAPFU0939F1Z", errCode: "validation_gstin_invalid_length"},
		{name: "bad state", gstin: "X7AAPFU0939F1ZV", errCode: "validation_gstin_invalid_state_code"},
		{name: "bad format", gstin: "27AAPFU0939F1YV", errCode: "validation_gstin_invalid_format"},
		{name: "bad character", gstin: "27AAPF#0939F1ZV", errCode: "validation_gstin_invalid_character"},
		{name: "bad checksum", gstin: "27AAPFU0939F1ZA", errCode: "validation_gstin_checksum_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.gstin, GSTIN)
			if tt.errCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var vErr validation.Error
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.errCode, vErr.Code())
		})
	}

	t.Run("non string", func(t *testing.T) {
		assert.Error(t, validation.Validate(42, GSTIN))
	})
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(validation.NewError("code", "must be valid"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "must be valid")
}
