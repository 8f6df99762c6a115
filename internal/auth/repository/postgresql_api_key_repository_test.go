package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/testutil"
)

var apiKeyColumns = []string{
	"id", "account_id", "name", "tier", "key_hash", "prefix", "created_at", "revoked_at", "last_used_at",
}

func TestPostgreSQLAPIKeyRepository_GetByKeyHash_Mock(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAPIKeyRepository(db)

	id := uuid.Must(uuid.NewV7())
	accountID := uuid.Must(uuid.NewV7())
	revokedAt := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM api_keys WHERE key_hash = $1")).
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows(apiKeyColumns).
			AddRow(id.String(), accountID.String(), "ci", "enterprise", "hash", "bd_abcde", time.Now(), revokedAt, nil))

	apiKey, err := repo.GetByKeyHash(context.Background(), "hash")
	require.NoError(t, err)
	assert.Equal(t, id, apiKey.ID)
	assert.Equal(t, accountID, apiKey.AccountID)
	assert.Equal(t, authDomain.TierEnterprise, apiKey.Tier)
	require.NotNil(t, apiKey.RevokedAt)
	assert.Equal(t, revokedAt, *apiKey.RevokedAt)
	assert.Nil(t, apiKey.LastUsedAt)
}

func TestPostgreSQLAPIKeyRepository_GetByKeyHash_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAPIKeyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM api_keys WHERE key_hash = $1")).
		WillReturnRows(sqlmock.NewRows(apiKeyColumns))

	_, err := repo.GetByKeyHash(context.Background(), "missing")
	assert.ErrorIs(t, err, authDomain.ErrAPIKeyNotFound)
}

func TestPostgreSQLAPIKeyRepository_Revoke_AlreadyRevoked(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAPIKeyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, authDomain.ErrAPIKeyNotFound)
}

func TestPostgreSQLAPIKeyRepository_UpdateTierByAccount_Mock(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAPIKeyRepository(db)
	accountID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE api_keys SET tier = $1 WHERE account_id = $2 AND revoked_at IS NULL")).
		WithArgs("pro", accountID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	changed, err := repo.UpdateTierByAccount(context.Background(), accountID, authDomain.TierPro)
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)
}

func TestPostgreSQLAPIKeyRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAPIKeyRepository(db)
	ctx := context.Background()
	accountID := testutil.CreateTestAccount(t, db, "postgres", "keys@example.com")

	first := newAPIKey(accountID, "pg-hash-1")
	second := newAPIKey(accountID, "pg-hash-2")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	keys, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, second.ID, keys[0].ID)

	count, err := repo.CountActiveByAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.Revoke(ctx, first.ID, time.Now().UTC()))
	assert.ErrorIs(t, repo.Revoke(ctx, first.ID, time.Now().UTC()), authDomain.ErrAPIKeyNotFound)

	usedAt := time.Now().UTC()
	require.NoError(t, repo.TouchLastUsed(ctx, second.ID, usedAt))

	changed, err := repo.UpdateTierByAccount(ctx, accountID, authDomain.TierPro)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	got, err := repo.GetByKeyHash(ctx, "pg-hash-2")
	require.NoError(t, err)
	assert.Equal(t, authDomain.TierPro, got.Tier)
	require.NotNil(t, got.LastUsedAt)
	assert.WithinDuration(t, usedAt, *got.LastUsedAt, time.Second)

	got, err = repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRevoked())
	assert.Equal(t, authDomain.TierFree, got.Tier)
}
