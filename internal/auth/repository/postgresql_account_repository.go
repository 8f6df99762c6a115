package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/database"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

// postgresUniqueViolation is the SQLSTATE of a unique constraint violation.
const postgresUniqueViolation = "23505"

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == postgresUniqueViolation
}

// PostgreSQLAccountRepository implements Account persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// Create inserts a new Account. Returns ErrAccountExists on a duplicate email.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accounts (id, email, tier, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, account.ID, account.Email, string(account.Tier), account.CreatedAt)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return authDomain.ErrAccountExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}
	return nil
}

// Update modifies the tier of an existing Account.
func (p *PostgreSQLAccountRepository) Update(ctx context.Context, account *authDomain.Account) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE accounts SET tier = $1 WHERE id = $2`,
		string(account.Tier),
		account.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update account")
	}
	return requireRowsAffected(result, authDomain.ErrAccountNotFound)
}

// Get retrieves an Account by ID.
func (p *PostgreSQLAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*authDomain.Account, error) {
	return p.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE id = $1`, accountID)
}

// GetForUpdate retrieves an Account by ID and locks its row.
func (p *PostgreSQLAccountRepository) GetForUpdate(
	ctx context.Context,
	accountID uuid.UUID,
) (*authDomain.Account, error) {
	return p.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
}

// GetByEmail retrieves an Account by normalized email.
func (p *PostgreSQLAccountRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Account, error) {
	return p.getOne(ctx, `SELECT id, email, tier, created_at FROM accounts WHERE email = $1`, email)
}

func (p *PostgreSQLAccountRepository) getOne(
	ctx context.Context,
	query string,
	arg any,
) (*authDomain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	var account authDomain.Account
	var tier string

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&tier,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	account.Tier = authDomain.Tier(tier)
	return &account, nil
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL Account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// requireRowsAffected returns notFound when result changed no rows.
func requireRowsAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
