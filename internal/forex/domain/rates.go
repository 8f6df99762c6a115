// Package domain defines the exchange rate models.
package domain

import (
	"strings"
	"time"
)

// Currency codes used by the fixed USD/INR endpoint.
const (
	USD = "USD"
	INR = "INR"
)

// Rates is one provider snapshot for a base currency.
type Rates struct {
	Base string
	// Date is the provider's business date (YYYY-MM-DD).
	Date string
	// UpdatedAt is the provider's last update time.
	UpdatedAt time.Time
	// Rates maps a currency code to units of that currency per one unit of Base.
	Rates map[string]float64
	// FetchedAt is when this process received the snapshot.
	FetchedAt time.Time
	// Stale is set when the snapshot outlived its TTL and was served because the provider failed.
	Stale bool
}

// Quote is the rate of one currency pair.
type Quote struct {
	Base      string
	Target    string
	Rate      float64
	Date      string
	UpdatedAt time.Time
	FetchedAt time.Time
	Stale     bool
}

// Quote extracts the Base/target pair. Returns ErrCurrencyNotFound when the
// provider did not list target.
func (r *Rates) Quote(target string) (*Quote, error) {
	target = strings.ToUpper(target)
	rate, ok := r.Rates[target]
	if !ok {
		return nil, ErrCurrencyNotFound
	}
	return &Quote{
		Base:      r.Base,
		Target:    target,
		Rate:      rate,
		Date:      r.Date,
		UpdatedAt: r.UpdatedAt,
		FetchedAt: r.FetchedAt,
		Stale:     r.Stale,
	}, nil
}

// Filter returns a copy restricted to the given symbols. Unknown symbols are
// reported with ErrCurrencyNotFound. An empty symbol list returns every rate.
func (r *Rates) Filter(symbols []string) (*Rates, error) {
	filtered := *r
	filtered.Rates = make(map[string]float64, len(r.Rates))

	if len(symbols) == 0 {
		for code, rate := range r.Rates {
			filtered.Rates[code] = rate
		}
		return &filtered, nil
	}

	for _, symbol := range symbols {
		code, err := NormalizeCurrency(symbol)
		if err != nil {
			return nil, err
		}
		rate, ok := r.Rates[code]
		if !ok {
			return nil, ErrCurrencyNotFound
		}
		filtered.Rates[code] = rate
	}
	return &filtered, nil
}

// NormalizeCurrency upper-cases a currency code and checks it is three ASCII letters.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}
