// Package usecase defines business logic interfaces for accounts, sessions and API keys.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// AccountRepository defines persistence operations for accounts.
// Implementations must support transaction-aware operations via context propagation.
type AccountRepository interface {
	// Create stores a new account. Returns ErrAccountExists if the email is taken.
	Create(ctx context.Context, account *authDomain.Account) error

	// Update modifies an existing account's tier.
	Update(ctx context.Context, account *authDomain.Account) error

	// Get retrieves an account by ID. Returns ErrAccountNotFound if not found.
	Get(ctx context.Context, accountID uuid.UUID) (*authDomain.Account, error)

	// GetForUpdate retrieves an account by ID, locking its row until the
	// surrounding transaction ends where the store supports it.
	GetForUpdate(ctx context.Context, accountID uuid.UUID) (*authDomain.Account, error)

	// GetByEmail retrieves an account by normalized email. Returns ErrAccountNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*authDomain.Account, error)
}

// APIKeyRepository defines persistence operations for API keys.
// Implementations must support transaction-aware operations via context propagation.
type APIKeyRepository interface {
	// Create stores a new API key.
	Create(ctx context.Context, apiKey *authDomain.APIKey) error

	// Get retrieves an API key by ID. Returns ErrAPIKeyNotFound if not found.
	Get(ctx context.Context, apiKeyID uuid.UUID) (*authDomain.APIKey, error)

	// GetByKeyHash retrieves an API key by its SHA-256 hash. Returns ErrAPIKeyNotFound if not found.
	GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.APIKey, error)

	// ListByAccount returns every key of an account, newest first, revoked keys included.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*authDomain.APIKey, error)

	// CountActiveByAccount counts the account's keys that are not revoked.
	CountActiveByAccount(ctx context.Context, accountID uuid.UUID) (int, error)

	// Revoke marks a key revoked. Returns ErrAPIKeyNotFound if no live key has that ID.
	Revoke(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error

	// TouchLastUsed records when a key was last used.
	TouchLastUsed(ctx context.Context, apiKeyID uuid.UUID, usedAt time.Time) error

	// UpdateTierByAccount sets the tier of every live key of an account and
	// returns how many keys changed.
	UpdateTierByAccount(ctx context.Context, accountID uuid.UUID, tier authDomain.Tier) (int64, error)
}

// OTPRepository stores at most one pending code per email with expiry.
// Implementations must be safe for concurrent use.
type OTPRepository interface {
	// Save creates or replaces the OTP of an email.
	Save(ctx context.Context, otp *authDomain.OTP) error

	// Get returns the live OTP of an email. Returns ErrOTPNotFound if none or expired.
	Get(ctx context.Context, email string) (*authDomain.OTP, error)

	// IncrementAttempts atomically claims a verification attempt and returns the new count.
	// Returns ErrOTPNotFound if the OTP no longer exists.
	IncrementAttempts(ctx context.Context, email string) (int, error)

	// Delete removes the OTP of an email. Returns ErrOTPNotFound if it was already gone,
	// so exactly one concurrent caller can consume a code.
	Delete(ctx context.Context, email string) error

	// DeleteExpired removes OTPs expired at now, or only counts them when dryRun is set.
	DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error)
}

// SessionRepository stores sessions with expiry.
// Implementations must be safe for concurrent use.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *authDomain.Session) error

	// GetByTokenHash returns the live session for a token hash.
	// Returns ErrSessionNotFound if none or expired.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Session, error)

	// DeleteExpired removes sessions expired at now, or only counts them when dryRun is set.
	DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error)
}

// OTPMailer delivers one-time codes without blocking the caller.
type OTPMailer interface {
	// SendOTP queues the code for delivery. Returns ErrUnavailable when the queue is full.
	SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error
}

// SessionUseCase handles email OTP login and session authentication.
type SessionUseCase interface {
	// RequestOTP issues a new code for email and queues it for delivery.
	//
	// A new code replaces any pending one, but not before the resend interval
	// has elapsed since the pending code was issued (ErrOTPResendTooSoon).
	RequestOTP(ctx context.Context, email string) error

	// VerifyOTP exchanges a code for a session.
	//
	// A wrong, expired or missing code returns ErrInvalidCredentials and counts
	// as a failed attempt. Once the attempts are exhausted the code is deleted
	// and ErrOTPAttemptsExceeded is returned. On success the code is consumed,
	// the account is created on first login and a session token is issued.
	VerifyOTP(ctx context.Context, email, code string) (*authDomain.SessionOutput, error)

	// AuthenticateSession returns the account of a live session.
	// Returns ErrInvalidCredentials for unknown or expired sessions.
	AuthenticateSession(ctx context.Context, tokenHash string) (*authDomain.Account, error)

	// CleanupExpired sweeps expired OTPs and sessions. With dryRun it only counts them.
	CleanupExpired(ctx context.Context, dryRun bool) (*authDomain.CleanupResult, error)
}

// APIKeyUseCase manages the API keys of an account.
type APIKeyUseCase interface {
	// Create mints a key for an account, copying the account tier.
	//
	// Returns the plain key exactly once. Returns ErrAPIKeyLimitReached when
	// the account already has the maximum number of live keys.
	Create(ctx context.Context, accountID uuid.UUID, name string) (*authDomain.CreateAPIKeyOutput, error)

	// List returns every key of an account, newest first.
	List(ctx context.Context, accountID uuid.UUID) ([]*authDomain.APIKey, error)

	// Revoke revokes a key of the account. Keys of other accounts are reported
	// as ErrAPIKeyNotFound.
	Revoke(ctx context.Context, accountID, apiKeyID uuid.UUID) error

	// Authenticate returns the live key for a key hash and records its use.
	// Returns ErrInvalidCredentials for unknown or revoked keys.
	Authenticate(ctx context.Context, keyHash string) (*authDomain.APIKey, error)
}

// AccountUseCase holds the operator actions on accounts.
type AccountUseCase interface {
	// SetTier changes the tier of the account with email, creating the account
	// if needed, and re-tiers its live API keys.
	SetTier(ctx context.Context, email string, tier authDomain.Tier) (*authDomain.Account, error)

	// Ensure returns the account of email, creating it on the free tier if needed.
	Ensure(ctx context.Context, email string) (*authDomain.Account, error)
}
