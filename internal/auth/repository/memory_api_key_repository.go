package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// MemoryAPIKeyRepository keeps API keys in process memory.
type MemoryAPIKeyRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*authDomain.APIKey
	byHash map[string]uuid.UUID
}

// cloneAPIKey copies a key including its optional timestamps.
func cloneAPIKey(k *authDomain.APIKey) *authDomain.APIKey {
	c := *k
	if k.RevokedAt != nil {
		t := *k.RevokedAt
		c.RevokedAt = &t
	}
	if k.LastUsedAt != nil {
		t := *k.LastUsedAt
		c.LastUsedAt = &t
	}
	return &c
}

// Create stores a new API key.
func (m *MemoryAPIKeyRepository) Create(ctx context.Context, apiKey *authDomain.APIKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[apiKey.ID] = cloneAPIKey(apiKey)
	m.byHash[apiKey.KeyHash] = apiKey.ID
	return nil
}

// Get retrieves an API key by ID.
func (m *MemoryAPIKeyRepository) Get(ctx context.Context, apiKeyID uuid.UUID) (*authDomain.APIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	apiKey, ok := m.byID[apiKeyID]
	if !ok {
		return nil, authDomain.ErrAPIKeyNotFound
	}
	return cloneAPIKey(apiKey), nil
}

// GetByKeyHash retrieves an API key by hash.
func (m *MemoryAPIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*authDomain.APIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byHash[keyHash]
	if !ok {
		return nil, authDomain.ErrAPIKeyNotFound
	}
	return cloneAPIKey(m.byID[id]), nil
}

// ListByAccount returns the keys of an account, newest first.
func (m *MemoryAPIKeyRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
) ([]*authDomain.APIKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]*authDomain.APIKey, 0)
	for _, apiKey := range m.byID {
		if apiKey.AccountID == accountID {
			keys = append(keys, cloneAPIKey(apiKey))
		}
	}
	// UUIDv7 ids sort by creation time
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ID.String() > keys[j].ID.String()
	})
	return keys, nil
}

// CountActiveByAccount counts the account's keys that are not revoked.
func (m *MemoryAPIKeyRepository) CountActiveByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, apiKey := range m.byID {
		if apiKey.AccountID == accountID && !apiKey.IsRevoked() {
			count++
		}
	}
	return count, nil
}

// Revoke marks a live key revoked.
func (m *MemoryAPIKeyRepository) Revoke(ctx context.Context, apiKeyID uuid.UUID, revokedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	apiKey, ok := m.byID[apiKeyID]
	if !ok || apiKey.IsRevoked() {
		return authDomain.ErrAPIKeyNotFound
	}
	apiKey.RevokedAt = &revokedAt
	return nil
}

// TouchLastUsed records when a key was last used.
func (m *MemoryAPIKeyRepository) TouchLastUsed(ctx context.Context, apiKeyID uuid.UUID, usedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if apiKey, ok := m.byID[apiKeyID]; ok {
		apiKey.LastUsedAt = &usedAt
	}
	return nil
}

// UpdateTierByAccount re-tiers the live keys of an account.
func (m *MemoryAPIKeyRepository) UpdateTierByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	tier authDomain.Tier,
) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var updated int64
	for _, apiKey := range m.byID {
		if apiKey.AccountID == accountID && !apiKey.IsRevoked() {
			apiKey.Tier = tier
			updated++
		}
	}
	return updated, nil
}

// NewMemoryAPIKeyRepository creates an empty in-memory API key repository.
func NewMemoryAPIKeyRepository() *MemoryAPIKeyRepository {
	return &MemoryAPIKeyRepository{
		byID:   make(map[uuid.UUID]*authDomain.APIKey),
		byHash: make(map[string]uuid.UUID),
	}
}
