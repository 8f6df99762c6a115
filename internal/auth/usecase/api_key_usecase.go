package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	authService "github.com/allisson/bizdata/internal/auth/service"
	"github.com/allisson/bizdata/internal/config"
	"github.com/allisson/bizdata/internal/database"
)

const (
	// defaultAPIKeyName names keys created without a name.
	defaultAPIKeyName = "default"

	// lastUsedResolution skips LastUsedAt writes for keys used within this window.
	lastUsedResolution = time.Minute
)

// apiKeyUseCase implements APIKeyUseCase.
type apiKeyUseCase struct {
	config       *config.Config
	txManager    database.TxManager
	accountRepo  AccountRepository
	apiKeyRepo   APIKeyRepository
	tokenService authService.TokenService
	now          func() time.Time

	// createMu serializes creation in process; SQL stores also lock the account row.
	createMu sync.Mutex
}

// Create mints a key for an account.
//
// The account row is locked for the duration of the transaction so the
// live key limit holds under concurrent creation.
func (a *apiKeyUseCase) Create(
	ctx context.Context,
	accountID uuid.UUID,
	name string,
) (*authDomain.CreateAPIKeyOutput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultAPIKeyName
	}

	a.createMu.Lock()
	defer a.createMu.Unlock()

	var output *authDomain.CreateAPIKeyOutput
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		account, err := a.accountRepo.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		active, err := a.apiKeyRepo.CountActiveByAccount(ctx, account.ID)
		if err != nil {
			return err
		}
		if active >= a.config.APIKeysPerAccount {
			return authDomain.ErrAPIKeyLimitReached
		}

		plainKey, keyHash, prefix, err := a.tokenService.GenerateAPIKey()
		if err != nil {
			return err
		}

		apiKey := &authDomain.APIKey{
			ID:        uuid.Must(uuid.NewV7()),
			AccountID: account.ID,
			Name:      name,
			Tier:      account.Tier,
			KeyHash:   keyHash,
			Prefix:    prefix,
			CreatedAt: a.now().UTC(),
		}
		if err := a.apiKeyRepo.Create(ctx, apiKey); err != nil {
			return err
		}

		output = &authDomain.CreateAPIKeyOutput{PlainKey: plainKey, APIKey: apiKey}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// List returns every key of an account.
func (a *apiKeyUseCase) List(ctx context.Context, accountID uuid.UUID) ([]*authDomain.APIKey, error) {
	return a.apiKeyRepo.ListByAccount(ctx, accountID)
}

// Revoke revokes a key owned by accountID.
func (a *apiKeyUseCase) Revoke(ctx context.Context, accountID, apiKeyID uuid.UUID) error {
	apiKey, err := a.apiKeyRepo.Get(ctx, apiKeyID)
	if err != nil {
		return err
	}

	// keys of other accounts are indistinguishable from missing ones
	if apiKey.AccountID != accountID || apiKey.IsRevoked() {
		return authDomain.ErrAPIKeyNotFound
	}

	return a.apiKeyRepo.Revoke(ctx, apiKeyID, a.now().UTC())
}

// Authenticate returns the live key for keyHash.
func (a *apiKeyUseCase) Authenticate(ctx context.Context, keyHash string) (*authDomain.APIKey, error) {
	apiKey, err := a.apiKeyRepo.GetByKeyHash(ctx, keyHash)
	if err != nil {
		if errors.Is(err, authDomain.ErrAPIKeyNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if apiKey.IsRevoked() {
		return nil, authDomain.ErrInvalidCredentials
	}

	now := a.now().UTC()
	if apiKey.LastUsedAt == nil || now.Sub(*apiKey.LastUsedAt) >= lastUsedResolution {
		if err := a.apiKeyRepo.TouchLastUsed(ctx, apiKey.ID, now); err != nil {
			return nil, err
		}
		apiKey.LastUsedAt = &now
	}

	return apiKey, nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	config *config.Config,
	txManager database.TxManager,
	accountRepo AccountRepository,
	apiKeyRepo APIKeyRepository,
	tokenService authService.TokenService,
) APIKeyUseCase {
	return &apiKeyUseCase{
		config:       config,
		txManager:    txManager,
		accountRepo:  accountRepo,
		apiKeyRepo:   apiKeyRepo,
		tokenService: tokenService,
		now:          time.Now,
	}
}
