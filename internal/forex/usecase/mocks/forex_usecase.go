// Package mocks provides mock implementations of the forex use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
)

// MockForexUseCase is a mock implementation of ForexUseCase for testing.
type MockForexUseCase struct {
	mock.Mock
}

// GetUSDINR mocks the GetUSDINR method of ForexUseCase.
func (m *MockForexUseCase) GetUSDINR(ctx context.Context) (*forexDomain.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forexDomain.Quote), args.Error(1)
}

// GetQuote mocks the GetQuote method of ForexUseCase.
func (m *MockForexUseCase) GetQuote(ctx context.Context, base, target string) (*forexDomain.Quote, error) {
	args := m.Called(ctx, base, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forexDomain.Quote), args.Error(1)
}

// GetRates mocks the GetRates method of ForexUseCase.
func (m *MockForexUseCase) GetRates(
	ctx context.Context,
	base string,
	symbols []string,
) (*forexDomain.Rates, error) {
	args := m.Called(ctx, base, symbols)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*forexDomain.Rates), args.Error(1)
}
