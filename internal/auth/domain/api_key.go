package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// APIKeyPrefix starts every plain API key.
	APIKeyPrefix = "bd_"

	// DisplayPrefixLength is how many leading characters of a key are kept for display.
	DisplayPrefixLength = 8
)

// APIKey is a credential for the data endpoints. Only the SHA-256 hash of
// the plain key is stored; Prefix identifies the key in listings.
type APIKey struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Name       string
	Tier       Tier
	KeyHash    string
	Prefix     string
	CreatedAt  time.Time
	RevokedAt  *time.Time
	LastUsedAt *time.Time
}

// IsRevoked reports whether the key was revoked.
func (k *APIKey) IsRevoked() bool {
	return k.RevokedAt != nil
}

// CreateAPIKeyOutput carries the plain key, shown exactly once.
type CreateAPIKeyOutput struct {
	PlainKey string //nolint:gosec // returned once to the caller
	APIKey   *APIKey
}

// CleanupResult counts what an expiry sweep removed, or would remove on a dry run.
type CleanupResult struct {
	OTPs     int64
	Sessions int64
}
