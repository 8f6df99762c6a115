// Package service provides exchange rate providers: an HTTP client for the
// upstream API and a TTL cache in front of it.
package service

import (
	"context"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
)

// RateProvider returns the latest rates for a base currency.
type RateProvider interface {
	// Latest returns a snapshot of rates quoted against base. base must already be normalized.
	Latest(ctx context.Context, base string) (*forexDomain.Rates, error)
}
