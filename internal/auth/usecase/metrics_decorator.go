package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/metrics"
)

// recordAuthOperation records one auth operation outcome.
func recordAuthOperation(
	ctx context.Context,
	m metrics.BusinessMetrics,
	operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, "auth", operation, status)
	m.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RequestOTP records metrics for OTP requests.
func (s *sessionUseCaseWithMetrics) RequestOTP(ctx context.Context, email string) error {
	start := time.Now()
	err := s.next.RequestOTP(ctx, email)
	recordAuthOperation(ctx, s.metrics, "otp_request", start, err)
	return err
}

// VerifyOTP records metrics for OTP verification.
func (s *sessionUseCaseWithMetrics) VerifyOTP(
	ctx context.Context,
	email, code string,
) (*authDomain.SessionOutput, error) {
	start := time.Now()
	output, err := s.next.VerifyOTP(ctx, email, code)
	recordAuthOperation(ctx, s.metrics, "otp_verify", start, err)
	return output, err
}

// AuthenticateSession records metrics for session authentication.
func (s *sessionUseCaseWithMetrics) AuthenticateSession(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Account, error) {
	start := time.Now()
	account, err := s.next.AuthenticateSession(ctx, tokenHash)
	recordAuthOperation(ctx, s.metrics, "session_authenticate", start, err)
	return account, err
}

// CleanupExpired records metrics for expiry sweeps.
func (s *sessionUseCaseWithMetrics) CleanupExpired(
	ctx context.Context,
	dryRun bool,
) (*authDomain.CleanupResult, error) {
	start := time.Now()
	result, err := s.next.CleanupExpired(ctx, dryRun)
	recordAuthOperation(ctx, s.metrics, "cleanup_expired", start, err)
	return result, err
}

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for API key creation.
func (a *apiKeyUseCaseWithMetrics) Create(
	ctx context.Context,
	accountID uuid.UUID,
	name string,
) (*authDomain.CreateAPIKeyOutput, error) {
	start := time.Now()
	output, err := a.next.Create(ctx, accountID, name)
	recordAuthOperation(ctx, a.metrics, "api_key_create", start, err)
	return output, err
}

// List records metrics for API key listing.
func (a *apiKeyUseCaseWithMetrics) List(ctx context.Context, accountID uuid.UUID) ([]*authDomain.APIKey, error) {
	start := time.Now()
	keys, err := a.next.List(ctx, accountID)
	recordAuthOperation(ctx, a.metrics, "api_key_list", start, err)
	return keys, err
}

// Revoke records metrics for API key revocation.
func (a *apiKeyUseCaseWithMetrics) Revoke(ctx context.Context, accountID, apiKeyID uuid.UUID) error {
	start := time.Now()
	err := a.next.Revoke(ctx, accountID, apiKeyID)
	recordAuthOperation(ctx, a.metrics, "api_key_revoke", start, err)
	return err
}

// Authenticate records metrics for API key authentication.
func (a *apiKeyUseCaseWithMetrics) Authenticate(ctx context.Context, keyHash string) (*authDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Authenticate(ctx, keyHash)
	recordAuthOperation(ctx, a.metrics, "api_key_authenticate", start, err)
	return apiKey, err
}

// accountUseCaseWithMetrics decorates AccountUseCase with metrics instrumentation.
type accountUseCaseWithMetrics struct {
	next    AccountUseCase
	metrics metrics.BusinessMetrics
}

// NewAccountUseCaseWithMetrics wraps an AccountUseCase with metrics recording.
func NewAccountUseCaseWithMetrics(useCase AccountUseCase, m metrics.BusinessMetrics) AccountUseCase {
	return &accountUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// SetTier records metrics for tier changes.
func (a *accountUseCaseWithMetrics) SetTier(
	ctx context.Context,
	email string,
	tier authDomain.Tier,
) (*authDomain.Account, error) {
	start := time.Now()
	account, err := a.next.SetTier(ctx, email, tier)
	recordAuthOperation(ctx, a.metrics, "account_set_tier", start, err)
	return account, err
}

// Ensure records metrics for account lookups by the operator.
func (a *accountUseCaseWithMetrics) Ensure(ctx context.Context, email string) (*authDomain.Account, error) {
	start := time.Now()
	account, err := a.next.Ensure(ctx, email)
	recordAuthOperation(ctx, a.metrics, "account_ensure", start, err)
	return account, err
}
