package service

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/bizdata/internal/errors"
	forexDomain "github.com/allisson/bizdata/internal/forex/domain"
	"github.com/allisson/bizdata/internal/metrics"
)

const cacheName = "forex"

// CachedRateProvider serves rates from memory for ttl. Concurrent misses for
// the same base share one upstream call. When the upstream fails, an entry
// younger than staleTTL is returned marked Stale.
type CachedRateProvider struct {
	next     RateProvider
	ttl      time.Duration
	staleTTL time.Duration
	metrics  metrics.CacheMetrics
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]*forexDomain.Rates
	group   singleflight.Group
}

// NewCachedRateProvider wraps next with a TTL cache.
func NewCachedRateProvider(
	next RateProvider,
	ttl, staleTTL time.Duration,
	cacheMetrics metrics.CacheMetrics,
	logger *slog.Logger,
) *CachedRateProvider {
	if staleTTL < ttl {
		staleTTL = ttl
	}
	return &CachedRateProvider{
		next:     next,
		ttl:      ttl,
		staleTTL: staleTTL,
		metrics:  cacheMetrics,
		logger:   logger,
		now:      time.Now,
		entries:  make(map[string]*forexDomain.Rates),
	}
}

// Latest returns cached rates for base, fetching them on a miss.
func (c *CachedRateProvider) Latest(ctx context.Context, base string) (*forexDomain.Rates, error) {
	entry := c.lookup(base)
	if entry != nil && c.age(entry) < c.ttl {
		c.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheHit)
		return cloneRates(entry, false), nil
	}

	// The shared fetch must not be cancelled by whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	result, err, _ := c.group.Do(base, func() (interface{}, error) {
		rates, err := c.next.Latest(fetchCtx, base)
		if err != nil {
			return nil, err
		}
		return c.store(base, rates), nil
	})
	if err == nil {
		c.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheMiss)
		return cloneRates(result.(*forexDomain.Rates), false), nil
	}

	if entry != nil && c.age(entry) < c.staleTTL && apperrors.Is(err, apperrors.ErrBadGateway) {
		c.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheStale)
		c.logger.Warn("serving stale exchange rates",
			slog.String("base", base),
			slog.Duration("age", c.age(entry)),
			slog.Any("error", err),
		)
		return cloneRates(entry, true), nil
	}

	c.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheMiss)
	return nil, err
}

// Len returns the number of cached bases.
func (c *CachedRateProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedRateProvider) lookup(base string) *forexDomain.Rates {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[base]
}

func (c *CachedRateProvider) store(base string, rates *forexDomain.Rates) *forexDomain.Rates {
	stored := cloneRates(rates, false)
	stored.FetchedAt = c.now().UTC()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[base] = stored
	return stored
}

func (c *CachedRateProvider) age(rates *forexDomain.Rates) time.Duration {
	return c.now().Sub(rates.FetchedAt)
}

func cloneRates(rates *forexDomain.Rates, stale bool) *forexDomain.Rates {
	clone := *rates
	clone.Rates = maps.Clone(rates.Rates)
	clone.Stale = stale
	return &clone
}
