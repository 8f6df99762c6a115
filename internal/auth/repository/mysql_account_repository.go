package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/database"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for a duplicate key.
const mysqlDuplicateEntry = 1062

// isMySQLDuplicateEntry checks if the error is a MySQL duplicate key error.
func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// MySQLAccountRepository implements Account persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAccountRepository struct {
	db *sql.DB
}

// Create inserts a new Account. Returns ErrAccountExists on a duplicate email.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	_, err = querier.ExecContext(
		ctx,
		`INSERT INTO accounts (id, email, tier, created_at) VALUES (?, ?, ?, ?)`,
		id,
		account.Email,
		string(account.Tier),
		account.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return authDomain.ErrAccountExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// Update modifies the tier of an existing Account.
func (m *MySQLAccountRepository) Update(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	// MySQL reports matched rows only with CLIENT_FOUND_ROWS, so existence is checked by reading.
	if _, err := m.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE id = ?`, id); err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, `UPDATE accounts SET tier = ? WHERE id = ?`, string(account.Tier), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}
	return nil
}

// Get retrieves an Account by ID.
func (m *MySQLAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*authDomain.Account, error) {
	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}
	return m.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE id = ?`, id)
}

// GetForUpdate retrieves an Account by ID and locks its row.
func (m *MySQLAccountRepository) GetForUpdate(
	ctx context.Context,
	accountID uuid.UUID,
) (*authDomain.Account, error) {
	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}
	return m.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE id = ? FOR UPDATE`, id)
}

// GetByEmail retrieves an Account by normalized email.
func (m *MySQLAccountRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Account, error) {
	return m.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE email = ?`, email)
}

func (m *MySQLAccountRepository) getOne(ctx context.Context, query string, arg any) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	var account authDomain.Account
	var idBytes []byte
	var tier string

	err := querier.QueryRowContext(ctx, query, arg).Scan(&idBytes, &account.Email, &tier, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	if err := account.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}

	account.Tier = authDomain.Tier(tier)
	return &account, nil
}

// NewMySQLAccountRepository creates a new MySQL Account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}
