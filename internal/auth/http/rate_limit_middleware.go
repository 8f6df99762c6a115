package http

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	apperrors "github.com/allisson/bizdata/internal/errors"
	"github.com/allisson/bizdata/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleTTL         = time.Hour
)

// TierLimit is the token bucket of one tier.
type TierLimit struct {
	RequestsPerSec float64
	Burst          int
}

// rateLimiterStore holds keyed rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	limit      TierLimit
	lastAccess time.Time
	mu         sync.Mutex
}

// getLimiter retrieves or creates the limiter of key. An existing limiter is
// resized when limit changed since it was created.
func (s *rateLimiterStore) getLimiter(key string, limit TierLimit) *rate.Limiter {
	now := time.Now()
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		if entry.limit != limit {
			entry.limiter.SetLimitAt(now, rate.Limit(limit.RequestsPerSec))
			entry.limiter.SetBurstAt(now, limit.Burst)
			entry.limit = limit
		}
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(limit.RequestsPerSec), limit.Burst),
		limit:      limit,
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale removes rate limiters that haven't been accessed recently.
// Runs periodically to prevent unbounded memory growth.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeIdle(time.Now().Add(-limiterIdleTTL))
		}
	}
}

// removeIdle drops limiters last used before threshold.
func (s *rateLimiterStore) removeIdle(threshold time.Time) {
	s.limiters.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		shouldDelete := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if shouldDelete {
			s.limiters.Delete(key)
		}
		return true
	})
}

// allow consumes one token from limiter, returning the whole seconds until
// the next token when the bucket is empty.
func allow(limiter *rate.Limiter) (bool, int) {
	if limiter.Allow() {
		return true, 0
	}
	reservation := limiter.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	if delay == rate.InfDuration {
		return false, int(limiterIdleTTL.Seconds())
	}
	return false, int(math.Ceil(delay.Seconds()))
}

// TierRateLimitMiddleware enforces a per-API-key token bucket sized by the key tier.
//
// MUST be used after APIKeyAuthMiddleware. A key whose tier is missing from
// limits uses the free tier bucket. When an operator re-tiers an account the
// bucket is resized on the key's next request.
//
// Returns:
//   - 429 Too Many Requests: Rate limit exceeded (includes Retry-After header)
//   - Continues: Request allowed within rate limit
func TierRateLimitMiddleware(
	limits map[authDomain.Tier]TierLimit,
	logger *slog.Logger,
) gin.HandlerFunc {
	store := &rateLimiterStore{}

	go store.cleanupStale(context.Background(), limiterCleanupInterval)

	return func(c *gin.Context) {
		apiKey, ok := GetAPIKey(c.Request.Context())
		if !ok || apiKey == nil {
			logger.Error("rate limit middleware: no api key in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		limit, ok := limits[apiKey.Tier]
		if !ok {
			limit = limits[authDomain.TierFree]
		}

		allowed, retryAfter := allow(store.getLimiter(apiKey.ID.String(), limit))
		if !allowed {
			logger.Debug("rate limit exceeded",
				slog.String("api_key_id", apiKey.ID.String()),
				slog.String("tier", apiKey.Tier.String()),
				slog.Int("retry_after", retryAfter))

			httputil.HandleRateLimitedGin(c, retryAfter,
				"Too many requests for this API key tier. Please retry after the specified delay.")
			c.Abort()
			return
		}

		c.Next()
	}
}
