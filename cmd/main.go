package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/thomas-vilte/forkdiff/internal/cli/registry"
	"github.com/thomas-vilte/forkdiff/internal/commands/cache"
	"github.com/thomas-vilte/forkdiff/internal/commands/config"
	"github.com/thomas-vilte/forkdiff/internal/commands/forks"
	"github.com/thomas-vilte/forkdiff/internal/commands/quota"
	cfg "github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/logger"
	"github.com/thomas-vilte/forkdiff/internal/ui"
	"github.com/thomas-vilte/forkdiff/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	// A .env file is optional; it usually carries GITHUB_TOKEN.
	_ = godotenv.Load()

	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("error starting forkdiff: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		ui.HandleAppError(err, translations)
		stop()
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("could not get the user home directory: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	if err := registerCommand.Register("forks", forks.NewForksCommandFactory()); err != nil {
		return nil, nil, err
	}
	if err := registerCommand.Register("quota", quota.NewQuotaCommandFactory()); err != nil {
		return nil, nil, err
	}
	if err := registerCommand.Register("cache", cache.NewCacheCommand()); err != nil {
		return nil, nil, err
	}
	if err := registerCommand.Register("config", config.NewConfigCommandFactory()); err != nil {
		return nil, nil, err
	}

	return &cli.Command{
		Name:        "forkdiff",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.Version,
		Description: translations.GetMessage("app_description", 0, nil),
		Commands:    registerCommand.CreateCommands(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag_debug_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   translations.GetMessage("flag_verbose_usage", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
		EnableShellCompletion: true,
	}, translations, nil
}
