// Package mocks provides mock implementations of the auth use cases for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// MockSessionUseCase is a mock implementation of SessionUseCase for testing.
type MockSessionUseCase struct {
	mock.Mock
}

// RequestOTP mocks the RequestOTP method of SessionUseCase.
func (m *MockSessionUseCase) RequestOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// VerifyOTP mocks the VerifyOTP method of SessionUseCase.
func (m *MockSessionUseCase) VerifyOTP(
	ctx context.Context,
	email, code string,
) (*authDomain.SessionOutput, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SessionOutput), args.Error(1)
}

// AuthenticateSession mocks the AuthenticateSession method of SessionUseCase.
func (m *MockSessionUseCase) AuthenticateSession(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Account, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

// CleanupExpired mocks the CleanupExpired method of SessionUseCase.
func (m *MockSessionUseCase) CleanupExpired(
	ctx context.Context,
	dryRun bool,
) (*authDomain.CleanupResult, error) {
	args := m.Called(ctx, dryRun)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CleanupResult), args.Error(1)
}

// MockAPIKeyUseCase is a mock implementation of APIKeyUseCase for testing.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// Create mocks the Create method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Create(
	ctx context.Context,
	accountID uuid.UUID,
	name string,
) (*authDomain.CreateAPIKeyOutput, error) {
	args := m.Called(ctx, accountID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateAPIKeyOutput), args.Error(1)
}

// List mocks the List method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) List(ctx context.Context, accountID uuid.UUID) ([]*authDomain.APIKey, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.APIKey), args.Error(1)
}

// Revoke mocks the Revoke method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Revoke(ctx context.Context, accountID, apiKeyID uuid.UUID) error {
	args := m.Called(ctx, accountID, apiKeyID)
	return args.Error(0)
}

// Authenticate mocks the Authenticate method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Authenticate(ctx context.Context, keyHash string) (*authDomain.APIKey, error) {
	args := m.Called(ctx, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.APIKey), args.Error(1)
}

// MockAccountUseCase is a mock implementation of AccountUseCase for testing.
type MockAccountUseCase struct {
	mock.Mock
}

// SetTier mocks the SetTier method of AccountUseCase.
func (m *MockAccountUseCase) SetTier(
	ctx context.Context,
	email string,
	tier authDomain.Tier,
) (*authDomain.Account, error) {
	args := m.Called(ctx, email, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

// Ensure mocks the Ensure method of AccountUseCase.
func (m *MockAccountUseCase) Ensure(ctx context.Context, email string) (*authDomain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}
