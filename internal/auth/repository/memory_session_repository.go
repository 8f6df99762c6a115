package repository

import (
	"context"
	"sync"
	"time"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// MemorySessionRepository keeps sessions in process memory, keyed by token hash.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]authDomain.Session
	now      func() time.Time
}

// Create stores a new session.
func (m *MemorySessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.TokenHash] = *session
	return nil
}

// GetByTokenHash returns the live session for a token hash.
func (m *MemorySessionRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[tokenHash]
	if !ok || session.IsExpired(m.now()) {
		return nil, authDomain.ErrSessionNotFound
	}
	return &session, nil
}

// DeleteExpired removes sessions expired at now.
func (m *MemorySessionRepository) DeleteExpired(ctx context.Context, now time.Time, dryRun bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for hash, session := range m.sessions {
		if session.IsExpired(now) {
			count++
			if !dryRun {
				delete(m.sessions, hash)
			}
		}
	}
	return count, nil
}

// NewMemorySessionRepository creates an empty in-memory session repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]authDomain.Session),
		now:      time.Now,
	}
}
