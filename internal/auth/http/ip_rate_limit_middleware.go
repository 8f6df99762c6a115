package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/allisson/bizdata/internal/httputil"
)

// IPRateLimitMiddleware enforces per-IP rate limiting on the OTP endpoints.
//
// Designed for unauthenticated endpoints to slow down code guessing and
// mailbox flooding. Each IP address gets an independent token bucket.
//
// Uses c.ClientIP(), which reads X-Forwarded-For and X-Real-IP only when the
// peer is one of the engine's trusted proxies (TRUSTED_PROXIES) and the
// connection's remote address otherwise.
//
// Returns:
//   - 429 Too Many Requests: Rate limit exceeded (includes Retry-After header)
//   - Continues: Request allowed within rate limit
func IPRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{}
	limit := TierLimit{RequestsPerSec: rps, Burst: burst}

	go store.cleanupStale(context.Background(), limiterCleanupInterval)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, retryAfter := allow(store.getLimiter(clientIP, limit))
		if !allowed {
			logger.Debug("ip rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			httputil.HandleRateLimitedGin(c, retryAfter,
				"Too many requests from this IP. Please retry after the specified delay.")
			c.Abort()
			return
		}

		c.Next()
	}
}
