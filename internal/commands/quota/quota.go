package quota

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/ratelimit"
	"github.com/thomas-vilte/forkdiff/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

type QuotaCommandFactory struct{}

func NewQuotaCommandFactory() *QuotaCommandFactory {
	return &QuotaCommandFactory{}
}

func (q *QuotaCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "quota",
		Usage: t.GetMessage("quota.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Usage:   t.GetMessage("forks.flag_token", 0, nil),
				Sources: cli.EnvVars("GITHUB_TOKEN", "GH_TOKEN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token := cmd.String("token")
			if token == "" {
				token = cfg.GitHubToken
			}

			client, err := github.NewGitHubClient(token, github.WithBaseURL(cfg.APIBaseURL))
			if err != nil {
				return err
			}
			if err := client.RefreshRateLimit(ctx); err != nil {
				return err
			}

			w := cmd.Root().Writer
			if w == nil {
				w = os.Stdout
			}
			_, err = fmt.Fprintf(w, "%s %s\n", t.GetMessage("quota.label", 0, nil), ratelimit.Describe(client.Quota(), time.Now()))
			return err
		},
	}
}
