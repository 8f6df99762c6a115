// Package usecase defines business logic for exchange rate lookups.
package usecase

import (
	"context"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
)

// ForexUseCase serves exchange rates.
type ForexUseCase interface {
	// GetUSDINR returns the USD to INR quote.
	GetUSDINR(ctx context.Context) (*forexDomain.Quote, error)

	// GetQuote returns the rate of one currency pair. Codes are case-insensitive.
	GetQuote(ctx context.Context, base, target string) (*forexDomain.Quote, error)

	// GetRates returns rates against base, restricted to symbols when given.
	GetRates(ctx context.Context, base string, symbols []string) (*forexDomain.Rates, error)
}
