package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	authRepository "github.com/allisson/bizdata/internal/auth/repository"
	authService "github.com/allisson/bizdata/internal/auth/service"
	"github.com/allisson/bizdata/internal/config"
	"github.com/allisson/bizdata/internal/database"
)

// plainOTPService stores codes as "hashed:<code>" so tests can read them back.
type plainOTPService struct {
	mu        sync.Mutex
	next      string
	onCompare func()
}

func (p *plainOTPService) GenerateCode() (string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	code := p.next
	if code == "" {
		code = "123456"
	}
	return code, "hashed:" + code, nil
}

func (p *plainOTPService) CompareCode(plainCode, codeHash string) bool {
	if p.onCompare != nil {
		p.onCompare()
	}
	return "hashed:"+plainCode == codeHash
}

// recordingMailer keeps every queued code.
type recordingMailer struct {
	mu    sync.Mutex
	sent  map[string]string
	fail  error
	calls int
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(map[string]string)}
}

func (r *recordingMailer) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail != nil {
		return r.fail
	}
	r.sent[email] = code
	return nil
}

func (r *recordingMailer) codeFor(email string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[email]
}

// mockOTPRepository is a testify mock for failure paths the memory store cannot produce.
type mockOTPRepository struct {
	mock.Mock
	OTPRepository
}

func (m *mockOTPRepository) DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error) {
	args := m.Called(ctx, now, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

var errStore = errors.New("store unavailable")

func testConfig() *config.Config {
	return &config.Config{
		OTPTTL:            10 * time.Minute,
		OTPMaxAttempts:    3,
		OTPResendInterval: time.Minute,
		SessionTTL:        24 * time.Hour,
		APIKeysPerAccount: 2,
	}
}

type authFixture struct {
	cfg       *config.Config
	clock     time.Time
	accounts  *authRepository.MemoryAccountRepository
	apiKeys   *authRepository.MemoryAPIKeyRepository
	otps      *authRepository.MemoryOTPRepository
	sessions  *authRepository.MemorySessionRepository
	otpSvc    *plainOTPService
	tokenSvc  authService.TokenService
	mailer    *recordingMailer
	sessionUC *sessionUseCase
	apiKeyUC  *apiKeyUseCase
	accountUC *accountUseCase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		cfg:      testConfig(),
		clock:    time.Now().UTC(),
		accounts: authRepository.NewMemoryAccountRepository(),
		apiKeys:  authRepository.NewMemoryAPIKeyRepository(),
		otps:     authRepository.NewMemoryOTPRepository(),
		sessions: authRepository.NewMemorySessionRepository(),
		otpSvc:   &plainOTPService{},
		tokenSvc: authService.NewTokenService(),
		mailer:   newRecordingMailer(),
	}
	now := func() time.Time { return f.clock }
	txManager := database.NewNoopTxManager()

	f.sessionUC = NewSessionUseCase(
		f.cfg, txManager, f.accounts, f.otps, f.sessions, f.otpSvc, f.tokenSvc, f.mailer,
	).(*sessionUseCase)
	f.sessionUC.now = now

	f.apiKeyUC = NewAPIKeyUseCase(f.cfg, txManager, f.accounts, f.apiKeys, f.tokenSvc).(*apiKeyUseCase)
	f.apiKeyUC.now = now

	f.accountUC = NewAccountUseCase(txManager, f.accounts, f.apiKeys).(*accountUseCase)
	f.accountUC.now = now
	return f
}

func (f *authFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}
