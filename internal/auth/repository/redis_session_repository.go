package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	apperrors "github.com/allisson/bizdata/internal/errors"
)

const sessionKeyPrefix = "session:"

// redisSession is the JSON document stored at session:{tokenHash}.
type redisSession struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisSessionRepository stores sessions as JSON values that Redis expires
// at the session's ExpiresAt.
type RedisSessionRepository struct {
	client *redis.Client
}

func sessionKey(tokenHash string) string {
	return sessionKeyPrefix + tokenHash
}

// Create stores a new session.
func (r *RedisSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	data, err := json.Marshal(redisSession{
		ID:        session.ID,
		AccountID: session.AccountID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal session")
	}

	err = r.client.SetArgs(ctx, sessionKey(session.TokenHash), data, redis.SetArgs{
		ExpireAt: session.ExpiresAt,
	}).Err()
	if err != nil {
		return apperrors.Wrap(err, "failed to create session")
	}
	return nil
}

// GetByTokenHash returns the live session for a token hash.
func (r *RedisSessionRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, authDomain.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	var stored redisSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal session")
	}

	session := &authDomain.Session{
		ID:        stored.ID,
		TokenHash: tokenHash,
		AccountID: stored.AccountID,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
	}
	if session.IsExpired(time.Now()) {
		return nil, authDomain.ErrSessionNotFound
	}
	return session, nil
}

// DeleteExpired is a no-op: Redis expires session keys itself.
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error) {
	return 0, nil
}

// NewRedisSessionRepository creates a Redis-backed session repository.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}
