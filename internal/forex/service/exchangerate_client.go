package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
)

// DefaultExchangeRateAPIBaseURL is the public v4 endpoint.
const DefaultExchangeRateAPIBaseURL = "https://api.exchangerate-api.com/v4"

const maxResponseBytes = 1 << 20

// ExchangeRateAPIClient fetches rates from an exchangerate-api.com compatible endpoint.
type ExchangeRateAPIClient struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

type exchangeRateResponse struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

// NewExchangeRateAPIClient creates a client with a bounded request timeout.
func NewExchangeRateAPIClient(baseURL string, timeout time.Duration) *ExchangeRateAPIClient {
	if baseURL == "" {
		baseURL = DefaultExchangeRateAPIBaseURL
	}
	return &ExchangeRateAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Latest calls GET {baseURL}/latest/{base}.
// Transport, status and decoding failures are reported as ErrUpstreamUnavailable;
// a 404 from the provider means it does not support base.
func (c *ExchangeRateAPIClient) Latest(ctx context.Context, base string) (*forexDomain.Rates, error) {
	endpoint := fmt.Sprintf("%s/latest/%s", c.baseURL, url.PathEscape(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", forexDomain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", forexDomain.ErrUpstreamUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: base %s", forexDomain.ErrCurrencyNotFound, base)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", forexDomain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload exchangeRateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", forexDomain.ErrUpstreamUnavailable, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: response has no rates", forexDomain.ErrUpstreamUnavailable)
	}

	rates := &forexDomain.Rates{
		Base:      strings.ToUpper(payload.Base),
		Date:      payload.Date,
		Rates:     make(map[string]float64, len(payload.Rates)),
		FetchedAt: c.now().UTC(),
	}
	if rates.Base == "" {
		rates.Base = base
	}
	if payload.TimeLastUpdated > 0 {
		rates.UpdatedAt = time.Unix(payload.TimeLastUpdated, 0).UTC()
	}
	for code, rate := range payload.Rates {
		rates.Rates[strings.ToUpper(code)] = rate
	}

	return rates, nil
}
