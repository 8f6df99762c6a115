package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session authenticates API key management calls. The bearer token is only
// returned once; TokenHash is its SHA-256 hex digest.
type Session struct {
	ID        uuid.UUID
	TokenHash string
	AccountID uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session is no longer valid at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionOutput is returned to the client after a successful OTP verification.
type SessionOutput struct {
	Token     string //nolint:gosec // returned once to the caller
	ExpiresAt time.Time
	Account   *Account
}
