package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	"github.com/allisson/bizdata/internal/database"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	txManager   database.TxManager
	accountRepo AccountRepository
	apiKeyRepo  APIKeyRepository
	now         func() time.Time
}

// SetTier moves an account and its live keys to tier in one transaction.
func (a *accountUseCase) SetTier(
	ctx context.Context,
	email string,
	tier authDomain.Tier,
) (*authDomain.Account, error) {
	if tier.Rank() < 0 {
		return nil, authDomain.ErrUnknownTier
	}
	email = authDomain.NormalizeEmail(email)

	var account *authDomain.Account
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		account, err = getOrCreateAccount(ctx, a.accountRepo, email, tier, a.now().UTC())
		if err != nil {
			return err
		}

		if account.Tier != tier {
			account.Tier = tier
			if err := a.accountRepo.Update(ctx, account); err != nil {
				return err
			}
		}

		_, err = a.apiKeyRepo.UpdateTierByAccount(ctx, account.ID, tier)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// Ensure loads or creates the account of email.
func (a *accountUseCase) Ensure(ctx context.Context, email string) (*authDomain.Account, error) {
	return getOrCreateAccount(ctx, a.accountRepo, authDomain.NormalizeEmail(email), authDomain.TierFree, a.now().UTC())
}

// NewAccountUseCase creates a new AccountUseCase with the provided dependencies.
func NewAccountUseCase(
	txManager database.TxManager,
	accountRepo AccountRepository,
	apiKeyRepo APIKeyRepository,
) AccountUseCase {
	return &accountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		apiKeyRepo:  apiKeyRepo,
		now:         time.Now,
	}
}
