package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/nexusdb/cmd/app/commands"
	"github.com/allisson/nexusdb/internal/app"
	"github.com/allisson/nexusdb/internal/config"
)

func getAbuseCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "ban",
			Usage: "Ban an IP address or user id",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Entity kind: 'ip' or 'user'",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "IP address or user id (UUID)",
				},
				&cli.StringFlag{
					Name:    "reason",
					Aliases: []string{"r"},
					Usage:   "Reason stored with the ban",
				},
				&cli.DurationFlag{
					Name:    "duration",
					Aliases: []string{"d"},
					Usage:   "Ban duration (e.g., 15m, 24h). Omit for a permanent ban",
				},
				&cli.StringFlag{
					Name:  "actor",
					Value: "CLI",
					Usage: "Recorded as the creator of the ban",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				banUseCase, err := container.BanUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize ban use case: %w", err)
				}

				return commands.RunBan(
					ctx,
					banUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kind"),
					cmd.String("value"),
					cmd.String("reason"),
					cmd.Duration("duration"),
					cmd.String("actor"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "check-ban",
			Usage: "Show the active bans for an IP address or user id",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Entity kind: 'ip' or 'user'",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "IP address or user id (UUID)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				banUseCase, err := container.BanUseCase()
				if err != nil {
					return fmt.Errorf("failed to initialize ban use case: %w", err)
				}

				return commands.RunCheckBan(
					ctx,
					banUseCase,
					commands.DefaultIO().Writer,
					cmd.String("kind"),
					cmd.String("value"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "solve-challenge",
			Usage: "Solve a proof-of-work challenge issued by POST /v1/challenges",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Challenge id",
				},
				&cli.IntFlag{
					Name:    "difficulty",
					Aliases: []string{"d"},
					Value:   4,
					Usage:   "Leading zero hex digits required",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Value: time.Minute,
					Usage: "Give up after this long",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
				defer cancel()

				return commands.RunSolveChallenge(
					ctx,
					commands.DefaultIO().Writer,
					cmd.String("id"),
					int(cmd.Int("difficulty")),
					cmd.String("format"),
				)
			},
		},
	}
}
