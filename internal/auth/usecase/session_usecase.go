// Package usecase implements business logic orchestration for accounts, sessions and API keys.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	authService "github.com/allisson/bizdata/internal/auth/service"
	"github.com/allisson/bizdata/internal/config"
	"github.com/allisson/bizdata/internal/database"
)

// sessionUseCase implements SessionUseCase.
type sessionUseCase struct {
	config       *config.Config
	txManager    database.TxManager
	accountRepo  AccountRepository
	otpRepo      OTPRepository
	sessionRepo  SessionRepository
	otpService   authService.OTPService
	tokenService authService.TokenService
	mailer       OTPMailer
	now          func() time.Time
}

// RequestOTP issues and queues a new code for email.
//
// Security Notes:
//   - The response never reveals whether an account exists for the email
//   - Only the Argon2id hash of the code is stored
//   - If the code cannot be queued it is deleted so the caller may retry at once
func (s *sessionUseCase) RequestOTP(ctx context.Context, email string) error {
	email = authDomain.NormalizeEmail(email)
	now := s.now().UTC()

	existing, err := s.otpRepo.Get(ctx, email)
	switch {
	case err == nil:
		if !existing.ResendAllowed(now, s.config.OTPResendInterval) {
			return authDomain.ErrOTPResendTooSoon
		}
	case !errors.Is(err, authDomain.ErrOTPNotFound):
		return err
	}

	plainCode, codeHash, err := s.otpService.GenerateCode()
	if err != nil {
		return err
	}

	otp := &authDomain.OTP{
		Email:     email,
		CodeHash:  codeHash,
		Attempts:  0,
		ExpiresAt: now.Add(s.config.OTPTTL),
		CreatedAt: now,
	}
	if err := s.otpRepo.Save(ctx, otp); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(ctx, email, plainCode, otp.ExpiresAt); err != nil {
		_ = s.otpRepo.Delete(ctx, email)
		return err
	}

	return nil
}

// VerifyOTP exchanges a code for a session.
//
// This method:
// 1. Loads the pending code of the email
// 2. Atomically claims an attempt, rejecting claims past the maximum
// 3. Compares the code in constant time
// 4. Consumes the code; only one concurrent caller can succeed
// 5. Creates the account on first login and issues a session
//
// Security Notes:
//   - Missing, expired and wrong codes all return ErrInvalidCredentials
//   - The plain session token is only returned once
func (s *sessionUseCase) VerifyOTP(
	ctx context.Context,
	email, code string,
) (*authDomain.SessionOutput, error) {
	email = authDomain.NormalizeEmail(email)
	now := s.now().UTC()

	otp, err := s.otpRepo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, authDomain.ErrOTPNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if otp.IsExpired(now) {
		_ = s.otpRepo.Delete(ctx, email)
		return nil, authDomain.ErrInvalidCredentials
	}

	// attempts are claimed before comparing
	attempts, err := s.otpRepo.IncrementAttempts(ctx, email)
	if err != nil {
		if errors.Is(err, authDomain.ErrOTPNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}
	if attempts > s.config.OTPMaxAttempts {
		// the holder of the last attempt consumes or deletes the code
		return nil, authDomain.ErrOTPAttemptsExceeded
	}

	if !s.otpService.CompareCode(code, otp.CodeHash) {
		if attempts >= s.config.OTPMaxAttempts {
			_ = s.otpRepo.Delete(ctx, email)
			return nil, authDomain.ErrOTPAttemptsExceeded
		}
		return nil, authDomain.ErrInvalidCredentials
	}

	if err := s.otpRepo.Delete(ctx, email); err != nil {
		if errors.Is(err, authDomain.ErrOTPNotFound) {
			// consumed by a concurrent verification
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	var output *authDomain.SessionOutput
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		account, err := s.ensureAccount(ctx, email, now)
		if err != nil {
			return err
		}

		plainToken, tokenHash, err := s.tokenService.GenerateToken()
		if err != nil {
			return err
		}

		session := &authDomain.Session{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: tokenHash,
			AccountID: account.ID,
			ExpiresAt: now.Add(s.config.SessionTTL),
			CreatedAt: now,
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return err
		}

		output = &authDomain.SessionOutput{
			Token:     plainToken,
			ExpiresAt: session.ExpiresAt,
			Account:   account,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// ensureAccount returns the account of email, creating it on the free tier.
func (s *sessionUseCase) ensureAccount(
	ctx context.Context,
	email string,
	now time.Time,
) (*authDomain.Account, error) {
	return getOrCreateAccount(ctx, s.accountRepo, email, authDomain.TierFree, now)
}

// AuthenticateSession returns the account of a live session.
func (s *sessionUseCase) AuthenticateSession(ctx context.Context, tokenHash string) (*authDomain.Account, error) {
	session, err := s.sessionRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrSessionNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if session.IsExpired(s.now().UTC()) {
		return nil, authDomain.ErrInvalidCredentials
	}

	account, err := s.accountRepo.Get(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, authDomain.ErrAccountNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	return account, nil
}

// CleanupExpired sweeps expired OTPs and sessions.
func (s *sessionUseCase) CleanupExpired(ctx context.Context, dryRun bool) (*authDomain.CleanupResult, error) {
	now := s.now().UTC()

	otps, err := s.otpRepo.DeleteExpired(ctx, now, dryRun)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.DeleteExpired(ctx, now, dryRun)
	if err != nil {
		return nil, err
	}

	return &authDomain.CleanupResult{OTPs: otps, Sessions: sessions}, nil
}

// getOrCreateAccount loads the account of email or creates it with tier.
// A concurrent creation of the same email is resolved by reloading it.
func getOrCreateAccount(
	ctx context.Context,
	accountRepo AccountRepository,
	email string,
	tier authDomain.Tier,
	now time.Time,
) (*authDomain.Account, error) {
	account, err := accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, authDomain.ErrAccountNotFound) {
		return nil, err
	}

	account = &authDomain.Account{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     email,
		Tier:      tier,
		CreatedAt: now,
	}
	if err := accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, authDomain.ErrAccountExists) {
			return accountRepo.GetByEmail(ctx, email)
		}
		return nil, err
	}

	return account, nil
}

// NewSessionUseCase creates a new SessionUseCase with the provided dependencies.
func NewSessionUseCase(
	config *config.Config,
	txManager database.TxManager,
	accountRepo AccountRepository,
	otpRepo OTPRepository,
	sessionRepo SessionRepository,
	otpService authService.OTPService,
	tokenService authService.TokenService,
	mailer OTPMailer,
) SessionUseCase {
	return &sessionUseCase{
		config:       config,
		txManager:    txManager,
		accountRepo:  accountRepo,
		otpRepo:      otpRepo,
		sessionRepo:  sessionRepo,
		otpService:   otpService,
		tokenService: tokenService,
		mailer:       mailer,
		now:          time.Now,
	}
}
