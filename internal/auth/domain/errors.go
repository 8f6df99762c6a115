package domain

import (
	"github.com/allisson/bizdata/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials covers a wrong, expired or missing OTP, session or API key.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrOTPAttemptsExceeded indicates the OTP was deleted after too many failed attempts.
	ErrOTPAttemptsExceeded = errors.Wrap(errors.ErrLocked, "too many failed verification attempts")

	// ErrOTPResendTooSoon indicates a new OTP was requested before the resend interval elapsed.
	ErrOTPResendTooSoon = errors.Wrap(errors.ErrTooManyRequests, "verification code requested too recently")

	// ErrAPIKeyLimitReached indicates the account already has the maximum number of live keys.
	ErrAPIKeyLimitReached = errors.Wrap(errors.ErrConflict, "api key limit reached")

	// ErrTierNotAllowed indicates the API key tier does not include the requested feature.
	ErrTierNotAllowed = errors.Wrap(errors.ErrForbidden, "feature not available on this tier")

	// ErrUnknownTier indicates an unrecognized tier name.
	ErrUnknownTier = errors.Wrap(errors.ErrInvalidInput, "unknown tier")

	// ErrAccountExists indicates an account with the same email already exists.
	ErrAccountExists = errors.Wrap(errors.ErrConflict, "account already exists")

	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")
	ErrAPIKeyNotFound  = errors.Wrap(errors.ErrNotFound, "api key not found")
	ErrOTPNotFound     = errors.Wrap(errors.ErrNotFound, "otp not found")
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")
)
