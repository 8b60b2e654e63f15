package cache

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/forkdiff/internal/cache"
	"github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/ui"
	"github.com/urfave/cli/v3"
)

type CacheCommand struct{}

func NewCacheCommand() *CacheCommand {
	return &CacheCommand{}
}

func (c *CacheCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: t.GetMessage("cache.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: t.GetMessage("cache.clean_usage", 0, nil),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					store, err := cfg.OpenCacheStore()
					if err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_init", 0, nil)+": %w", err)
					}
					defer func() { _ = cache.CloseStore(store) }()

					if err := cache.New(store).Clean(); err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
					}

					ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("cache.cleaned", 0, nil))
					return nil
				},
			},
		},
	}
}
