package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/bizdata/cmd/app/commands"
	"github.com/allisson/bizdata/internal/app"
	"github.com/allisson/bizdata/internal/config"
)

func getDataCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "verify-gstin",
			Usage:     "Validate one or more GSTINs offline",
			ArgsUsage: "GSTIN [GSTIN...]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg, version)
				defer func() { _ = container.Shutdown(ctx) }()

				verifyUseCase, err := container.VerifyUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyGSTIN(
					ctx,
					verifyUseCase,
					commands.DefaultIO().Writer,
					cmd.Args().Slice(),
					cmd.String("format"),
				)
			},
		},
	}
}
