// Package mocks provides mock implementations of the OCR use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	ocrDomain "github.com/allisson/bizdata/internal/ocr/domain"
)

// MockOCRUseCase is a mock implementation of OCRUseCase for testing.
type MockOCRUseCase struct {
	mock.Mock
}

// Extract mocks the Extract method of OCRUseCase.
func (m *MockOCRUseCase) Extract(ctx context.Context, upload *ocrDomain.Upload) (*ocrDomain.Document, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocrDomain.Document), args.Error(1)
}
