package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
)

// MemoryAccountRepository keeps accounts in process memory.
type MemoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]authDomain.Account
	byEmail map[string]uuid.UUID
}

// Create stores a new account. Returns ErrAccountExists if the email is taken.
func (m *MemoryAccountRepository) Create(ctx context.Context, account *authDomain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[account.Email]; ok {
		return authDomain.ErrAccountExists
	}
	m.byID[account.ID] = *account
	m.byEmail[account.Email] = account.ID
	return nil
}

// Update replaces the stored tier of an account.
func (m *MemoryAccountRepository) Update(ctx context.Context, account *authDomain.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[account.ID]
	if !ok {
		return authDomain.ErrAccountNotFound
	}
	stored.Tier = account.Tier
	m.byID[account.ID] = stored
	return nil
}

// Get retrieves an account by ID.
func (m *MemoryAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*authDomain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.byID[accountID]
	if !ok {
		return nil, authDomain.ErrAccountNotFound
	}
	return &account, nil
}

// GetForUpdate is Get. Memory stores have no row locks; the API key use case
// serializes creation within the process.
func (m *MemoryAccountRepository) GetForUpdate(
	ctx context.Context,
	accountID uuid.UUID,
) (*authDomain.Account, error) {
	return m.Get(ctx, accountID)
}

// GetByEmail retrieves an account by normalized email.
func (m *MemoryAccountRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, authDomain.ErrAccountNotFound
	}
	account := m.byID[id]
	return &account, nil
}

// NewMemoryAccountRepository creates an empty in-memory account repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[uuid.UUID]authDomain.Account),
		byEmail: make(map[string]uuid.UUID),
	}
}
