package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/testutil"
)

func TestRedisOTPRepository(t *testing.T) {
	client := testutil.SetupRedis(t)
	repo := NewRedisOTPRepository(client)
	ctx := context.Background()
	now := time.Now().UTC()

	otp := &authDomain.OTP{
		Email:     "r@example.com",
		CodeHash:  "hash",
		ExpiresAt: now.Add(time.Minute),
		CreatedAt: now,
	}
	require.NoError(t, repo.Save(ctx, otp))

	got, err := repo.Get(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.CodeHash)
	assert.Zero(t, got.Attempts)
	assert.True(t, otp.ExpiresAt.Equal(got.ExpiresAt))

	ttl, err := client.PTTL(ctx, "otp:r@example.com").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementAttempts(ctx, "r@example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err = repo.Get(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Attempts)

	// re-saving resets attempts
	require.NoError(t, repo.Save(ctx, otp))
	got, err = repo.Get(ctx, "r@example.com")
	require.NoError(t, err)
	assert.Zero(t, got.Attempts)

	var wins atomic.Int32
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.Delete(ctx, "r@example.com") == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	_, err = repo.Get(ctx, "r@example.com")
	assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)

	_, err = repo.IncrementAttempts(ctx, "r@example.com")
	assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)

	exists, err := client.Exists(ctx, "otp:r@example.com").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	count, err := repo.DeleteExpired(ctx, now, false)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRedisSessionRepository(t *testing.T) {
	client := testutil.SetupRedis(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()
	now := time.Now().UTC()

	session := &authDomain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: "token-hash",
		AccountID: uuid.Must(uuid.NewV7()),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByTokenHash(ctx, "token-hash")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.AccountID, got.AccountID)
	assert.Equal(t, "token-hash", got.TokenHash)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))

	ttl, err := client.TTL(ctx, "session:token-hash").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	_, err = repo.GetByTokenHash(ctx, "unknown")
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
}
