package usecase

import (
	"context"
	"time"

	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
)

type mandiUseCase struct {
	priceRepo PriceRepository
	now       func() time.Time
}

func (m *mandiUseCase) Snapshot(ctx context.Context, filter mandiDomain.Filter) (*mandiDomain.Snapshot, error) {
	prices, err := m.priceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &mandiDomain.Snapshot{
		Timestamp: m.now(),
		Source:    mandiDomain.Source,
		Prices:    prices,
	}, nil
}

// NewMandiUseCase creates a MandiUseCase over a price repository.
func NewMandiUseCase(priceRepo PriceRepository) MandiUseCase {
	return &mandiUseCase{
		priceRepo: priceRepo,
		now:       time.Now,
	}
}
