package config

import (
	"context"
	"strconv"

	"github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			ui.PrintInfo(w, t.GetMessage("config.current", 0, nil))
			ui.PrintKeyValue(w, t.GetMessage("config.path", 0, nil), cfg.PathFile)

			token := t.GetMessage("config.token_not_set", 0, nil)
			if cfg.GitHubToken != "" {
				token = t.GetMessage("config.token_set", 0, nil)
			}
			ui.PrintKeyValue(w, "github_token", token)
			ui.PrintKeyValue(w, "language", cfg.Language)
			ui.PrintKeyValue(w, "max_records", strconv.Itoa(cfg.MaxRecords))
			ui.PrintKeyValue(w, "page_size", strconv.Itoa(cfg.PageSize))
			ui.PrintKeyValue(w, "same_size", strconv.FormatBool(cfg.SameSize))
			ui.PrintKeyValue(w, "same_push_date", strconv.FormatBool(cfg.SamePushDate))
			if cfg.APIBaseURL != "" {
				ui.PrintKeyValue(w, "api_base_url", cfg.APIBaseURL)
			}
			ui.PrintKeyValue(w, "cache.backend", cfg.Cache.Backend)
			ui.PrintKeyValue(w, "cache.ttl_hours", strconv.Itoa(cfg.Cache.TTLHours))
			ui.PrintKeyValue(w, "cache.fresh_for_seconds", strconv.Itoa(cfg.Cache.FreshForSeconds))
			return nil
		},
	}
}
