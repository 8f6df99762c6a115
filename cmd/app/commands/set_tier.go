package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
)

// RunSetTier moves the account of email and its live API keys to tier.
func RunSetTier(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	writer io.Writer,
	email string,
	tierName string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	tier, err := authDomain.ParseTier(tierName)
	if err != nil {
		return err
	}

	account, err := accountUseCase.SetTier(ctx, email, tier)
	if err != nil {
		return fmt.Errorf("failed to set tier: %w", err)
	}

	logger.Info("account tier updated",
		slog.String("account_id", account.ID.String()),
		slog.String("tier", account.Tier.String()),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"account_id": account.ID.String(),
			"email":      account.Email,
			"tier":       account.Tier.String(),
		})
	}

	_, err = fmt.Fprintf(writer, "Account %s is now on the %s tier\n", account.Email, account.Tier)
	return err
}
