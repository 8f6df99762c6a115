// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	apperrors "github.com/allisson/bizdata/internal/errors"
	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	otpCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

	currencyRegex = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OTPCode validates a six digit one-time code.
var OTPCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return otpCodeRegex.MatchString(s)
	},
	validation.NewError("validation_otp_code", "must be a 6 digit code"),
)

// CurrencyCode validates a three letter ISO 4217 style code, in any case.
var CurrencyCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return currencyRegex.MatchString(s)
	},
	validation.NewError("validation_currency_code", "must be a 3 letter currency code"),
)

// Tier validates an account tier name.
var Tier = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := authDomain.ParseTier(s)
		return err == nil
	},
	validation.NewError("validation_tier", "must be one of free, pro, enterprise"),
)

// GSTIN validates a GST identification number, including its check character.
// The error message carries the validator's reason for the first failing check.
var GSTIN = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_gstin_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}

	verdict := gstinDomain.Validate(s)
	if verdict.Valid {
		return nil
	}
	return validation.NewError("validation_gstin_"+string(verdict.Reason), verdict.Reason.Message())
})
