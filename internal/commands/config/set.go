package config

import (
	"context"
	"errors"
	"strings"

	"github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage: t.GetMessage("config.set_args_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() < 2 {
				return errors.New(t.GetMessage("config.missing_args", 0, map[string]interface{}{
					"Keys": strings.Join(config.SettingKeys(), ", "),
				}))
			}

			key := command.Args().Get(0)
			if err := cfg.Set(key, command.Args().Get(1)); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			ui.PrintSuccess(command.Root().Writer, t.GetMessage("config.set_success", 0, map[string]interface{}{
				"Key": key,
			}))
			return nil
		},
	}
}
