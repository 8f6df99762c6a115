// Package mocks provides mock implementations of the GSTIN use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	gstinDomain "github.com/allisson/bizdata/internal/gstin/domain"
)

// MockVerifyUseCase is a mock implementation of VerifyUseCase for testing.
type MockVerifyUseCase struct {
	mock.Mock
}

// Verify mocks the Verify method of VerifyUseCase.
func (m *MockVerifyUseCase) Verify(ctx context.Context, candidate string) (*gstinDomain.Verdict, error) {
	args := m.Called(ctx, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gstinDomain.Verdict), args.Error(1)
}

// VerifyBatch mocks the VerifyBatch method of VerifyUseCase.
func (m *MockVerifyUseCase) VerifyBatch(
	ctx context.Context,
	candidates []string,
) ([]*gstinDomain.Verdict, error) {
	args := m.Called(ctx, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*gstinDomain.Verdict), args.Error(1)
}
