package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/database"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

const postgresAPIKeyColumns = `id, account_id, name, tier, key_hash, prefix, created_at, revoked_at, last_used_at`

// PostgreSQLAPIKeyRepository implements APIKey persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey.
func (p *PostgreSQLAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_keys (` + postgresAPIKeyColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		apiKey.ID,
		apiKey.AccountID,
		apiKey.Name,
		string(apiKey.Tier),
		apiKey.KeyHash,
		apiKey.Prefix,
		apiKey.CreatedAt,
		apiKey.RevokedAt,
		apiKey.LastUsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Get retrieves an APIKey by ID.
func (p *PostgreSQLAPIKeyRepository) Get(ctx context.Context, apiKeyID uuid.UUID) (*authDomain.APIKey, error) {
	query := `SELECT ` + postgresAPIKeyColumns + ` FROM api_keys WHERE id = $1`
	return p.getOne(ctx, query, apiKeyID)
}

// GetByKeyHash retrieves an APIKey by its hash.
func (p *PostgreSQLAPIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.APIKey, error) {
	query := `SELECT ` + postgresAPIKeyColumns + ` FROM api_keys WHERE key_hash = $1`
	return p.getOne(ctx, query, keyHash)
}

func (p *PostgreSQLAPIKeyRepository) getOne(ctx context.Context, query string, arg any) (*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	apiKey, err := scanPostgreSQLAPIKey(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return apiKey, nil
}

// ListByAccount returns the keys of an account ordered by ID descending.
func (p *PostgreSQLAPIKeyRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresAPIKeyColumns + ` FROM api_keys WHERE account_id = $1 ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	apiKeys := make([]*authDomain.APIKey, 0)
	for rows.Next() {
		apiKey, err := scanPostgreSQLAPIKey(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan api key row")
		}
		apiKeys = append(apiKeys, apiKey)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating api key rows")
	}

	return apiKeys, nil
}

// CountActiveByAccount counts the account's keys that are not revoked.
func (p *PostgreSQLAPIKeyRepository) CountActiveByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, p.db)

	var count int
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM api_keys WHERE account_id = $1 AND revoked_at IS NULL`,
		accountID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count api keys")
	}
	return count, nil
}

// Revoke marks a live key revoked.
func (p *PostgreSQLAPIKeyRepository) Revoke(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE api_keys SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`,
		revokedAt,
		apiKeyID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke api key")
	}
	return requireRowsAffected(result, authDomain.ErrAPIKeyNotFound)
}

// TouchLastUsed records when a key was last used.
func (p *PostgreSQLAPIKeyRepository) TouchLastUsed(ctx context.Context, apiKeyID uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, usedAt, apiKeyID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update api key last use")
	}
	return nil
}

// UpdateTierByAccount re-tiers the live keys of an account.
func (p *PostgreSQLAPIKeyRepository) UpdateTierByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	tier authDomain.Tier,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE api_keys SET tier = $1 WHERE account_id = $2 AND revoked_at IS NULL`,
		string(tier),
		accountID,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to update api key tiers")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return rows, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostgreSQLAPIKey(row rowScanner) (*authDomain.APIKey, error) {
	var apiKey authDomain.APIKey
	var tier string

	err := row.Scan(
		&apiKey.ID,
		&apiKey.AccountID,
		&apiKey.Name,
		&tier,
		&apiKey.KeyHash,
		&apiKey.Prefix,
		&apiKey.CreatedAt,
		&apiKey.RevokedAt,
		&apiKey.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	apiKey.Tier = authDomain.Tier(tier)
	return &apiKey, nil
}

// NewPostgreSQLAPIKeyRepository creates a new PostgreSQL APIKey repository.
func NewPostgreSQLAPIKeyRepository(db *sql.DB) *PostgreSQLAPIKeyRepository {
	return &PostgreSQLAPIKeyRepository{db: db}
}
