package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	authUseCase "github.com/allisson/bizdata/internal/auth/usecase"
)

// RunCreateAPIKey mints an API key for the account of email, creating the
// account on the free tier when it does not exist yet. The plain key is
// printed once and cannot be recovered afterwards.
func RunCreateAPIKey(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	apiKeyUseCase authUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	email string,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name must not be blank")
	}

	account, err := accountUseCase.Ensure(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	output, err := apiKeyUseCase.Create(ctx, account.ID, name)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	logger.Info("api key created",
		slog.String("account_id", account.ID.String()),
		slog.String("api_key_id", output.APIKey.ID.String()),
		slog.String("tier", output.APIKey.Tier.String()),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"id":         output.APIKey.ID.String(),
			"account_id": account.ID.String(),
			"email":      account.Email,
			"name":       output.APIKey.Name,
			"tier":       output.APIKey.Tier.String(),
			"prefix":     output.APIKey.Prefix,
			"key":        output.PlainKey,
			"created_at": output.APIKey.CreatedAt.Format(time.RFC3339),
		})
	}

	_, err = fmt.Fprintf(writer,
		"API key created for %s\nID: %s\nTier: %s\nKey: %s\n\nStore the key now, it will not be shown again.\n",
		account.Email,
		output.APIKey.ID,
		output.APIKey.Tier,
		output.PlainKey,
	)
	return err
}
