// Package dto provides data transfer objects for forex HTTP responses.
package dto

import (
	"time"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
)

// QuoteResponse is one currency pair.
type QuoteResponse struct {
	Base      string    `json:"base"`
	Target    string    `json:"target"`
	Rate      float64   `json:"rate"`
	Timestamp int64     `json:"timestamp,omitempty"`
	Date      string    `json:"date"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
}

// RatesResponse is every rate quoted against one base.
type RatesResponse struct {
	Base      string             `json:"base"`
	Date      string             `json:"date"`
	Timestamp int64              `json:"timestamp,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
	Stale     bool               `json:"stale"`
	Rates     map[string]float64 `json:"rates"`
}

// MapQuoteToResponse converts a domain quote. Timestamp is the provider update time in Unix seconds.
func MapQuoteToResponse(quote *forexDomain.Quote) QuoteResponse {
	return QuoteResponse{
		Base:      quote.Base,
		Target:    quote.Target,
		Rate:      quote.Rate,
		Timestamp: unixOrZero(quote.UpdatedAt),
		Date:      quote.Date,
		FetchedAt: quote.FetchedAt,
		Stale:     quote.Stale,
	}
}

// MapRatesToResponse converts a domain rates snapshot.
func MapRatesToResponse(rates *forexDomain.Rates) RatesResponse {
	return RatesResponse{
		Base:      rates.Base,
		Date:      rates.Date,
		Timestamp: unixOrZero(rates.UpdatedAt),
		FetchedAt: rates.FetchedAt,
		Stale:     rates.Stale,
		Rates:     rates.Rates,
	}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
