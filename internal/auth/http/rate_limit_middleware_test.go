package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

var testTierLimits = map[authDomain.Tier]TierLimit{
	authDomain.TierFree:       {RequestsPerSec: 1, Burst: 2},
	authDomain.TierPro:        {RequestsPerSec: 1, Burst: 5},
	authDomain.TierEnterprise: {RequestsPerSec: 100, Burst: 100},
}

// newTierRouter serves /test behind the tier limiter with the key returned by current.
func newTierRouter(current func() *authDomain.APIKey) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithAPIKey(c.Request.Context(), current()))
		c.Next()
	})
	router.Use(TierRateLimitMiddleware(testTierLimits, createTestLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func countAllowed(router *gin.Engine, n int) int {
	allowed := 0
	for i := 0; i < n; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		if w.Code == http.StatusOK {
			allowed++
		}
	}
	return allowed
}

func TestTierRateLimitMiddleware_BurstPerTier(t *testing.T) {
	free := &authDomain.APIKey{ID: uuid.Must(uuid.NewV7()), Tier: authDomain.TierFree}
	pro := &authDomain.APIKey{ID: uuid.Must(uuid.NewV7()), Tier: authDomain.TierPro}

	assert.Equal(t, 2, countAllowed(newTierRouter(func() *authDomain.APIKey { return free }), 10))
	assert.Equal(t, 5, countAllowed(newTierRouter(func() *authDomain.APIKey { return pro }), 10))
}

func TestTierRateLimitMiddleware_RetryAfter(t *testing.T) {
	apiKey := &authDomain.APIKey{ID: uuid.Must(uuid.NewV7()), Tier: authDomain.TierFree}
	router := newTierRouter(func() *authDomain.APIKey { return apiKey })

	countAllowed(router, 2)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.Equal(t, "rate_limit_exceeded", decodeError(t, w).Error)
}

func TestTierRateLimitMiddleware_IndependentKeys(t *testing.T) {
	first := &authDomain.APIKey{ID: uuid.Must(uuid.NewV7()), Tier: authDomain.TierFree}
	second := &authDomain.APIKey{ID: uuid.Must(uuid.NewV7()), Tier: authDomain.TierFree}

	var mu sync.Mutex
	current := first
	router := newTierRouter(func() *authDomain.APIKey {
		mu.Lock()
		defer mu.Unlock()
		return current
	})

	assert.Equal(t, 2, countAllowed(router, 5))

	mu.Lock()
	current = second
	mu.Unlock()

	assert.Equal(t, 2, countAllowed(router, 5))
}

func TestTierRateLimitMiddleware_ResizesOnTierChange(t *testing.T) {
	id := uuid.Must(uuid.NewV7())
	var mu sync.Mutex
	tier := authDomain.TierFree
	router := newTierRouter(func() *authDomain.APIKey {
		mu.Lock()
		defer mu.Unlock()
		return &authDomain.APIKey{ID: id, Tier: tier}
	})

	assert.Equal(t, 2, countAllowed(router, 5))

	mu.Lock()
	tier = authDomain.TierEnterprise
	mu.Unlock()

	// the next request resizes the bucket, which then refills at 100 rps
	countAllowed(router, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, countAllowed(router, 3))
}

func TestTierRateLimitMiddleware_UnknownTierUsesFree(t *testing.T) {
	apiKey := &authDomain.APIKey{ID: uuid.Must(uuid.NewV7()), Tier: authDomain.Tier("legacy")}

	assert.Equal(t, 2, countAllowed(newTierRouter(func() *authDomain.APIKey { return apiKey }), 5))
}

func TestTierRateLimitMiddleware_RequiresAPIKey(t *testing.T) {
	router := gin.New()
	router.Use(TierRateLimitMiddleware(testTierLimits, createTestLogger()))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	store := &rateLimiterStore{}
	limit := TierLimit{RequestsPerSec: 1, Burst: 1}

	store.getLimiter("stale", limit)
	store.getLimiter("fresh", limit)

	val, ok := store.limiters.Load("stale")
	require.True(t, ok)
	entry := val.(*rateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * limiterIdleTTL)
	entry.mu.Unlock()

	store.removeIdle(time.Now().Add(-limiterIdleTTL))

	_, ok = store.limiters.Load("stale")
	assert.False(t, ok)
	_, ok = store.limiters.Load("fresh")
	assert.True(t, ok)
}

func TestAllow_ZeroBurst(t *testing.T) {
	store := &rateLimiterStore{}
	allowed, retryAfter := allow(store.getLimiter("none", TierLimit{RequestsPerSec: 1, Burst: 0}))

	assert.False(t, allowed)
	assert.Positive(t, retryAfter)
}
