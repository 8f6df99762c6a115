// Package usecase defines business logic for mandi price snapshots.
package usecase

import (
	"context"

	mandiDomain "github.com/allisson/bizdata/internal/mandi/domain"
)

// PriceRepository lists mandi prices.
type PriceRepository interface {
	List(ctx context.Context, filter mandiDomain.Filter) ([]mandiDomain.Price, error)
}

// MandiUseCase builds price snapshots.
type MandiUseCase interface {
	// Snapshot returns the prices matching filter stamped with the current time.
	Snapshot(ctx context.Context, filter mandiDomain.Filter) (*mandiDomain.Snapshot, error)
}
