package domain

import (
	"github.com/allisson/bizdata/internal/errors"
)

// Forex errors.
var (
	// ErrUpstreamUnavailable indicates the rate provider could not be reached or returned garbage.
	ErrUpstreamUnavailable = errors.Wrap(errors.ErrBadGateway, "exchange rate provider unavailable")

	// ErrCurrencyNotFound indicates the provider does not quote the requested currency.
	ErrCurrencyNotFound = errors.Wrap(errors.ErrNotFound, "currency not found")

	// ErrInvalidCurrency indicates a currency code that is not three letters.
	ErrInvalidCurrency = errors.Wrap(errors.ErrInvalidInput, "currency code must be 3 letters")
)
