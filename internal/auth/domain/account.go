package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account owns API keys. It is created the first time an email verifies an OTP.
type Account struct {
	ID        uuid.UUID // Unique identifier (UUIDv7)
	Email     string    // Normalized email address
	Tier      Tier
	CreatedAt time.Time
}

// NormalizeEmail lowercases and trims an email address so one mailbox maps to one account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
