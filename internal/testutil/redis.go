package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// defaultRedisTestURL is used when TEST_REDIS_URL is not set. Database 15 keeps
// test keys away from a development instance.
const defaultRedisTestURL = "redis://localhost:6380/15"

// GetRedisTestURL returns the Redis test URL, checking environment variable first.
func GetRedisTestURL() string {
	if url := os.Getenv("TEST_REDIS_URL"); url != "" {
		return url
	}
	return defaultRedisTestURL
}

// SetupRedis connects to the test Redis, flushes its database and closes the
// client when the test ends. The test is skipped when Redis is unreachable.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(GetRedisTestURL())
	require.NoError(t, err, "failed to parse redis test url")

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush redis test database")

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
