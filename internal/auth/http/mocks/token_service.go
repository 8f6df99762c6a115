// Package mocks provides mock implementations for testing HTTP handlers and middleware.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of TokenService for testing.
type MockTokenService struct {
	mock.Mock
}

// GenerateToken mocks the GenerateToken method of TokenService.
func (m *MockTokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// GenerateAPIKey mocks the GenerateAPIKey method of TokenService.
func (m *MockTokenService) GenerateAPIKey() (plainKey string, keyHash string, prefix string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

// HashToken mocks the HashToken method of TokenService.
func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}
