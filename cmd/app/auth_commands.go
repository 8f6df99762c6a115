package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/bizdata/cmd/app/commands"
	"github.com/allisson/bizdata/internal/app"
	"github.com/allisson/bizdata/internal/config"
)

// newOperatorContainer builds a container for an operator command. The memory
// driver forgets everything when the command exits, so it is flagged.
func newOperatorContainer(version string) *app.Container {
	cfg := config.Load()
	container := app.NewContainer(cfg, version)
	if cfg.DBDriver == config.DriverMemory {
		container.Logger().Warn("memory driver selected, changes are lost when the command exits",
			slog.String("db_driver", cfg.DBDriver))
	}
	return container
}

func getAuthCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-api-key",
			Usage: "Create an API key for an account, creating the account if needed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Account email",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable key name",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newOperatorContainer(version)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}
				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAPIKey(
					ctx,
					accountUseCase,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("email"),
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "set-tier",
			Usage: "Change the tier of an account and its live API keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Account email",
				},
				&cli.StringFlag{
					Name:     "tier",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Tier: free, pro or enterprise",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newOperatorContainer(version)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetTier(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("email"),
					cmd.String("tier"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clean-expired",
			Usage: "Delete expired OTPs and sessions",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many entries would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := newOperatorContainer(version)
				defer func() { _ = container.Shutdown(ctx) }()

				sessionUseCase, err := container.SessionUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpired(
					ctx,
					sessionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
