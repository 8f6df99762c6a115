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

const mysqlAPIKeyColumns = `id, account_id, name, tier, key_hash, prefix, created_at, revoked_at, last_used_at`

// MySQLAPIKeyRepository implements APIKey persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAPIKeyRepository struct {
	db *sql.DB
}

// Create inserts a new APIKey.
func (m *MySQLAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	querier := database.GetTx(ctx, m.db)

	id, err := apiKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	accountID, err := apiKey.AccountID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `INSERT INTO api_keys (` + mysqlAPIKeyColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		accountID,
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
func (m *MySQLAPIKeyRepository) Get(ctx context.Context, apiKeyID uuid.UUID) (*authDomain.APIKey, error) {
	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal api key id")
	}
	return m.getOne(ctx, `SELECT `+mysqlAPIKeyColumns+` FROM api_keys WHERE id = ?`, id)
}

// GetByKeyHash retrieves an APIKey by its hash.
func (m *MySQLAPIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.APIKey, error) {
	return m.getOne(ctx, `SELECT `+mysqlAPIKeyColumns+` FROM api_keys WHERE key_hash = ?`, keyHash)
}

func (m *MySQLAPIKeyRepository) getOne(ctx context.Context, query string, arg any) (*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	apiKey, err := scanMySQLAPIKey(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return apiKey, nil
}

// ListByAccount returns the keys of an account ordered by ID descending.
func (m *MySQLAPIKeyRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*authDomain.APIKey, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `SELECT ` + mysqlAPIKeyColumns + ` FROM api_keys WHERE account_id = ? ORDER BY id DESC`

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	apiKeys := make([]*authDomain.APIKey, 0)
	for rows.Next() {
		apiKey, err := scanMySQLAPIKey(rows)
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
func (m *MySQLAPIKeyRepository) CountActiveByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal account id")
	}

	var count int
	err = querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM api_keys WHERE account_id = ? AND revoked_at IS NULL`,
		id,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count api keys")
	}
	return count, nil
}

// Revoke marks a live key revoked.
func (m *MySQLAPIKeyRepository) Revoke(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	result, err := querier.ExecContext(
		ctx,
		`UPDATE api_keys SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		revokedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke api key")
	}
	return requireRowsAffected(result, authDomain.ErrAPIKeyNotFound)
}

// TouchLastUsed records when a key was last used.
func (m *MySQLAPIKeyRepository) TouchLastUsed(ctx context.Context, apiKeyID uuid.UUID, usedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	id, err := apiKeyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal api key id")
	}

	if _, err := querier.ExecContext(ctx, `UPDATE api_keys SET last_used_at = ? WHERE id = ?`, usedAt, id); err != nil {
		return apperrors.Wrap(err, "failed to update api key last use")
	}
	return nil
}

// UpdateTierByAccount re-tiers the live keys of an account.
func (m *MySQLAPIKeyRepository) UpdateTierByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	tier authDomain.Tier,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := accountID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal account id")
	}

	result, err := querier.ExecContext(
		ctx,
		`UPDATE api_keys SET tier = ? WHERE account_id = ? AND revoked_at IS NULL`,
		string(tier),
		id,
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

func scanMySQLAPIKey(row rowScanner) (*authDomain.APIKey, error) {
	var apiKey authDomain.APIKey
	var idBytes, accountIDBytes []byte
	var tier string

	err := row.Scan(
		&idBytes,
		&accountIDBytes,
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

	if err := apiKey.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, err
	}
	if err := apiKey.AccountID.UnmarshalBinary(accountIDBytes); err != nil {
		return nil, err
	}

	apiKey.Tier = authDomain.Tier(tier)
	return &apiKey, nil
}

// NewMySQLAPIKeyRepository creates a new MySQL APIKey repository.
func NewMySQLAPIKeyRepository(db *sql.DB) *MySQLAPIKeyRepository {
	return &MySQLAPIKeyRepository{db: db}
}
