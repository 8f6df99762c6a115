package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
	"github.com/allisson/bizdata/internal/forex/usecase"
	usecaseMocks "github.com/allisson/bizdata/internal/forex/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectRecord(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "forex", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "forex", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestForexUseCaseWithMetrics(t *testing.T) {
	mockNext := &usecaseMocks.MockForexUseCase{}
	mockMetrics := &mockBusinessMetrics{}
	uc := usecase.NewForexUseCaseWithMetrics(mockNext, mockMetrics)

	ctx := context.Background()

	t.Run("GetUSDINR success", func(t *testing.T) {
		quote := &forexDomain.Quote{Base: "USD", Target: "INR", Rate: 83.12}
		mockNext.On("GetUSDINR", ctx).Return(quote, nil).Once()
		expectRecord(mockMetrics, ctx, "usd_inr", "success")

		res, err := uc.GetUSDINR(ctx)

		assert.NoError(t, err)
		assert.Equal(t, quote, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("GetQuote error", func(t *testing.T) {
		mockNext.On("GetQuote", ctx, "USD", "XXX").Return(nil, forexDomain.ErrCurrencyNotFound).Once()
		expectRecord(mockMetrics, ctx, "quote", "error")

		res, err := uc.GetQuote(ctx, "USD", "XXX")

		assert.ErrorIs(t, err, forexDomain.ErrCurrencyNotFound)
		assert.Nil(t, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("GetRates success", func(t *testing.T) {
		rates := &forexDomain.Rates{Base: "EUR", Rates: map[string]float64{"INR": 90.1}}
		mockNext.On("GetRates", ctx, "EUR", []string{"INR"}).Return(rates, nil).Once()
		expectRecord(mockMetrics, ctx, "rates", "success")

		res, err := uc.GetRates(ctx, "EUR", []string{"INR"})

		assert.NoError(t, err)
		assert.Equal(t, rates, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
