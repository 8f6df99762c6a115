package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/database"
	"github.com/allisson/bizdata/internal/testutil"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func TestPostgreSQLAccountRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.Create(context.Background(), newAccount("dup@example.com"))
	assert.ErrorIs(t, err, authDomain.ErrAccountExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAccountRepository_Create_OtherError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), newAccount("a@example.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, authDomain.ErrAccountExists)
	assert.Contains(t, err.Error(), "failed to create account")
}

func TestPostgreSQLAccountRepository_GetByEmail_Mock(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAccountRepository(db)
	id := uuid.Must(uuid.NewV7())
	createdAt := time.Date(2026, 2, 8, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, tier, created_at FROM accounts WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "tier", "created_at"}).
			AddRow(id.String(), "a@example.com", "pro", createdAt))

	account, err := repo.GetByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, authDomain.TierPro, account.Tier)
	assert.Equal(t, createdAt, account.CreatedAt)
}

func TestPostgreSQLAccountRepository_GetForUpdate_LocksInTransaction(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAccountRepository(db)
	id := uuid.Must(uuid.NewV7())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "tier", "created_at"}).
			AddRow(id.String(), "a@example.com", "free", time.Now()))
	mock.ExpectCommit()

	err := database.NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetForUpdate(ctx, id)
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAccountRepository_Update_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewPostgreSQLAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET tier = $1 WHERE id = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), newAccount("ghost@example.com"))
	assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)
}

func TestPostgreSQLAccountRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLAccountRepository(db)
	ctx := context.Background()

	account := newAccount("owner@example.com")
	require.NoError(t, repo.Create(ctx, account))

	got, err := repo.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, got.Email)
	assert.Equal(t, authDomain.TierFree, got.Tier)
	assert.WithinDuration(t, account.CreatedAt, got.CreatedAt, time.Second)

	assert.ErrorIs(t, repo.Create(ctx, newAccount("owner@example.com")), authDomain.ErrAccountExists)

	account.Tier = authDomain.TierEnterprise
	require.NoError(t, repo.Update(ctx, account))

	got, err = repo.GetByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, authDomain.TierEnterprise, got.Tier)

	_, err = repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, authDomain.ErrAccountNotFound)
}
