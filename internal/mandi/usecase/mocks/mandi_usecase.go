// Package mocks provides mock implementations of the mandi use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
)

// MockMandiUseCase is a mock implementation of MandiUseCase for testing.
type MockMandiUseCase struct {
	mock.Mock
}

// Snapshot mocks the Snapshot method of MandiUseCase.
func (m *MockMandiUseCase) Snapshot(
	ctx context.Context,
	filter mandiDomain.Filter,
) (*mandiDomain.Snapshot, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mandiDomain.Snapshot), args.Error(1)
}
