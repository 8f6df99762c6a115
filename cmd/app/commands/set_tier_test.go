package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/bizdata/internal/auth/domain"
	authMocks "github.com/allisson/bizdata/internal/auth/usecase/mocks"
)

func TestRunSetTier(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text-output", func(t *testing.T) {
		accountUC := &authMocks.MockAccountUseCase{}
		account := &authDomain.Account{ID: uuid.Must(uuid.NewV7()), Email: "big@corp.example", Tier: authDomain.TierEnterprise}
		accountUC.On("SetTier", ctx, "big@corp.example", authDomain.TierEnterprise).Return(account, nil).Once()

		var out bytes.Buffer
		err := RunSetTier(ctx, accountUC, logger, &out, "big@corp.example", " Enterprise ", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Account big@corp.example is now on the enterprise tier")
		accountUC.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		accountUC := &authMocks.MockAccountUseCase{}
		account := &authDomain.Account{ID: uuid.Must(uuid.NewV7()), Email: "a@example.com", Tier: authDomain.TierPro}
		accountUC.On("SetTier", ctx, "a@example.com", authDomain.TierPro).Return(account, nil).Once()

		var out bytes.Buffer
		err := RunSetTier(ctx, accountUC, logger, &out, "a@example.com", "pro", "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"tier": "pro"`)
	})

	t.Run("unknown-tier", func(t *testing.T) {
		accountUC := &authMocks.MockAccountUseCase{}

		err := RunSetTier(ctx, accountUC, logger, &bytes.Buffer{}, "a@example.com", "platinum", "text")

		require.ErrorIs(t, err, authDomain.ErrUnknownTier)
		accountUC.AssertNotCalled(t, "SetTier", mock.Anything, mock.Anything, mock.Anything)
	})
}
