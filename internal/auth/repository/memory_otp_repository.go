package repository

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// MemoryOTPRepository keeps one OTP per email in process memory.
// Expired entries are invisible to reads and removed by DeleteExpired.
type MemoryOTPRepository struct {
	mu   sync.Mutex
	otps map[string]authDomain.OTP
	now  func() time.Time
}

// Save creates or replaces the OTP of an email.
func (m *MemoryOTPRepository) Save(ctx context.Context, otp *authDomain.OTP) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.otps[otp.Email] = *otp
	return nil
}

// Get returns the live OTP of an email.
func (m *MemoryOTPRepository) Get(ctx context.Context, email string) (*authDomain.OTP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	otp, ok := m.live(email)
	if !ok {
		return nil, authDomain.ErrOTPNotFound
	}
	return &otp, nil
}

// IncrementAttempts claims a verification attempt under the lock.
func (m *MemoryOTPRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	otp, ok := m.live(email)
	if !ok {
		return 0, authDomain.ErrOTPNotFound
	}
	otp.Attempts++
	m.otps[email] = otp
	return otp.Attempts, nil
}

// Delete removes the OTP of an email.
func (m *MemoryOTPRepository) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.otps[email]; !ok {
		return authDomain.ErrOTPNotFound
	}
	delete(m.otps, email)
	return nil
}

// DeleteExpired removes OTPs expired at now.
func (m *MemoryOTPRepository) DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for email, otp := range m.otps {
		if otp.IsExpired(now) {
			count++
			if !dryRun {
				delete(m.otps, email)
			}
		}
	}
	return count, nil
}

// live returns the unexpired OTP of email. Callers hold the lock.
func (m *MemoryOTPRepository) live(email string) (authDomain.OTP, bool) {
	otp, ok := m.otps[email]
	if !ok || otp.IsExpired(m.now()) {
		return authDomain.OTP{}, false
	}
	return otp, true
}

// NewMemoryOTPRepository creates an empty in-memory OTP repository.
func NewMemoryOTPRepository() *MemoryOTPRepository {
	return &MemoryOTPRepository{
		otps: make(map[string]authDomain.OTP),
		now:  time.Now,
	}
}
