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
)

func newAccount(email string) *authDomain.Account {
	return &authDomain.Account{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     email,
		Tier:      authDomain.TierFree,
		CreatedAt: time.Now().UTC(),
	}
}

func newAPIKey(accountID uuid.UUID, hash string) *authDomain.APIKey {
	return &authDomain.APIKey{
		ID:        uuid.Must(uuid.NewV7()),
		AccountID: accountID,
		Name:      "default",
		Tier:      authDomain.TierFree,
		KeyHash:   hash,
		Prefix:    "bd_abcde",
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		account := newAccount("a@example.com")
		require.NoError(t, repo.Create(ctx, account))

		got, err := repo.Get(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account, got)

		got, err = repo.GetByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)

		got, err = repo.GetForUpdate(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		require.NoError(t, repo.Create(ctx, newAccount("dup@example.com")))

		err := repo.Create(ctx, newAccount("dup@example.com"))
		assert.ErrorIs(t, err, authDomain.ErrAccountExists)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := NewMemoryAccountRepository()

		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)

		_, err = repo.GetByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)

		err = repo.Update(ctx, newAccount("missing@example.com"))
		assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)
	})

	t.Run("Update tier", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		account := newAccount("u@example.com")
		require.NoError(t, repo.Create(ctx, account))

		account.Tier = authDomain.TierPro
		require.NoError(t, repo.Update(ctx, account))

		got, err := repo.GetByEmail(ctx, "u@example.com")
		require.NoError(t, err)
		assert.Equal(t, authDomain.TierPro, got.Tier)
	})

	t.Run("Returned values are copies", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		account := newAccount("c@example.com")
		require.NoError(t, repo.Create(ctx, account))

		got, err := repo.Get(ctx, account.ID)
		require.NoError(t, err)
		got.Tier = authDomain.TierEnterprise

		again, err := repo.Get(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, authDomain.TierFree, again.Tier)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := repo.Create(cancelled, newAccount("x@example.com"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryAPIKeyRepository(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.Must(uuid.NewV7())

	t.Run("Create, Get and GetByKeyHash", func(t *testing.T) {
		repo := NewMemoryAPIKeyRepository()
		key := newAPIKey(accountID, "hash-1")
		require.NoError(t, repo.Create(ctx, key))

		got, err := repo.Get(ctx, key.ID)
		require.NoError(t, err)
		assert.Equal(t, key, got)

		got, err = repo.GetByKeyHash(ctx, "hash-1")
		require.NoError(t, err)
		assert.Equal(t, key.ID, got.ID)

		_, err = repo.GetByKeyHash(ctx, "unknown")
		assert.ErrorIs(t, err, authDomain.ErrAPIKeyNotFound)
	})

	t.Run("ListByAccount newest first", func(t *testing.T) {
		repo := NewMemoryAPIKeyRepository()
		first := newAPIKey(accountID, "h1")
		second := newAPIKey(accountID, "h2")
		other := newAPIKey(uuid.Must(uuid.NewV7()), "h3")
		for _, k := range []*authDomain.APIKey{first, second, other} {
			require.NoError(t, repo.Create(ctx, k))
		}

		keys, err := repo.ListByAccount(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, keys, 2)
		assert.Equal(t, second.ID, keys[0].ID)
		assert.Equal(t, first.ID, keys[1].ID)

		empty, err := repo.ListByAccount(ctx, uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("Revoke", func(t *testing.T) {
		repo := NewMemoryAPIKeyRepository()
		key := newAPIKey(accountID, "h-revoke")
		require.NoError(t, repo.Create(ctx, key))

		count, err := repo.CountActiveByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		revokedAt := time.Now().UTC()
		require.NoError(t, repo.Revoke(ctx, key.ID, revokedAt))

		got, err := repo.Get(ctx, key.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)
		assert.True(t, got.IsRevoked())

		count, err = repo.CountActiveByAccount(ctx, accountID)
		require.NoError(t, err)
		assert.Zero(t, count)

		assert.ErrorIs(t, repo.Revoke(ctx, key.ID, revokedAt), authDomain.ErrAPIKeyNotFound)
		assert.ErrorIs(t, repo.Revoke(ctx, uuid.New(), revokedAt), authDomain.ErrAPIKeyNotFound)
	})

	t.Run("TouchLastUsed", func(t *testing.T) {
		repo := NewMemoryAPIKeyRepository()
		key := newAPIKey(accountID, "h-touch")
		require.NoError(t, repo.Create(ctx, key))

		usedAt := time.Now().UTC()
		require.NoError(t, repo.TouchLastUsed(ctx, key.ID, usedAt))

		got, err := repo.Get(ctx, key.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastUsedAt)
		assert.Equal(t, usedAt, *got.LastUsedAt)
	})

	t.Run("UpdateTierByAccount skips revoked keys", func(t *testing.T) {
		repo := NewMemoryAPIKeyRepository()
		live := newAPIKey(accountID, "h-live")
		revoked := newAPIKey(accountID, "h-dead")
		require.NoError(t, repo.Create(ctx, live))
		require.NoError(t, repo.Create(ctx, revoked))
		require.NoError(t, repo.Revoke(ctx, revoked.ID, time.Now()))

		changed, err := repo.UpdateTierByAccount(ctx, accountID, authDomain.TierPro)
		require.NoError(t, err)
		assert.Equal(t, int64(1), changed)

		got, err := repo.Get(ctx, live.ID)
		require.NoError(t, err)
		assert.Equal(t, authDomain.TierPro, got.Tier)

		got, err = repo.Get(ctx, revoked.ID)
		require.NoError(t, err)
		assert.Equal(t, authDomain.TierFree, got.Tier)
	})
}

func TestMemoryOTPRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newOTP := func(email string, expiresAt time.Time) *authDomain.OTP {
		return &authDomain.OTP{
			Email:     email,
			CodeHash:  "hash",
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
	}

	t.Run("Save replaces", func(t *testing.T) {
		repo := NewMemoryOTPRepository()
		require.NoError(t, repo.Save(ctx, newOTP("a@example.com", now.Add(time.Minute))))

		replacement := newOTP("a@example.com", now.Add(2*time.Minute))
		replacement.CodeHash = "other"
		require.NoError(t, repo.Save(ctx, replacement))

		got, err := repo.Get(ctx, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, "other", got.CodeHash)
	})

	t.Run("Expired OTP is invisible", func(t *testing.T) {
		repo := NewMemoryOTPRepository()
		require.NoError(t, repo.Save(ctx, newOTP("old@example.com", now.Add(-time.Second))))

		_, err := repo.Get(ctx, "old@example.com")
		assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)

		_, err = repo.IncrementAttempts(ctx, "old@example.com")
		assert.ErrorIs(t, err, authDomain.ErrOTPNotFound)
	})

	t.Run("IncrementAttempts is atomic", func(t *testing.T) {
		repo := NewMemoryOTPRepository()
		require.NoError(t, repo.Save(ctx, newOTP("n@example.com", now.Add(time.Minute))))

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.IncrementAttempts(ctx, "n@example.com")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.Get(ctx, "n@example.com")
		require.NoError(t, err)
		assert.Equal(t, 50, got.Attempts)
	})

	t.Run("Delete succeeds once", func(t *testing.T) {
		repo := NewMemoryOTPRepository()
		require.NoError(t, repo.Save(ctx, newOTP("d@example.com", now.Add(time.Minute))))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if repo.Delete(ctx, "d@example.com") == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		assert.ErrorIs(t, repo.Delete(ctx, "d@example.com"), authDomain.ErrOTPNotFound)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		repo := NewMemoryOTPRepository()
		require.NoError(t, repo.Save(ctx, newOTP("live@example.com", now.Add(time.Minute))))
		require.NoError(t, repo.Save(ctx, newOTP("dead1@example.com", now.Add(-time.Minute))))
		require.NoError(t, repo.Save(ctx, newOTP("dead2@example.com", now)))

		count, err := repo.DeleteExpired(ctx, now, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.Len(t, repo.otps, 3)

		count, err = repo.DeleteExpired(ctx, now, false)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.Len(t, repo.otps, 1)
	})
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newSession := func(hash string, expiresAt time.Time) *authDomain.Session {
		return &authDomain.Session{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: hash,
			AccountID: uuid.Must(uuid.NewV7()),
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
	}

	t.Run("Create and GetByTokenHash", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		session := newSession("h1", now.Add(time.Hour))
		require.NoError(t, repo.Create(ctx, session))

		got, err := repo.GetByTokenHash(ctx, "h1")
		require.NoError(t, err)
		assert.Equal(t, session, got)

		_, err = repo.GetByTokenHash(ctx, "missing")
		assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
	})

	t.Run("Expired session is invisible", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		require.NoError(t, repo.Create(ctx, newSession("h2", now.Add(time.Hour))))
		repo.now = func() time.Time { return now.Add(2 * time.Hour) }

		_, err := repo.GetByTokenHash(ctx, "h2")
		assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		repo := NewMemorySessionRepository()
		require.NoError(t, repo.Create(ctx, newSession("live", now.Add(time.Hour))))
		require.NoError(t, repo.Create(ctx, newSession("dead", now.Add(-time.Hour))))

		count, err := repo.DeleteExpired(ctx, now, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Len(t, repo.sessions, 2)

		count, err = repo.DeleteExpired(ctx, now, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Len(t, repo.sessions, 1)
	})
}
