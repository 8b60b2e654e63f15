package forks

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/forkdiff/internal/cache"
	"github.com/thomas-vilte/forkdiff/internal/commands/completion_helper"
	"github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/dedup"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/thomas-vilte/forkdiff/internal/logger"
	"github.com/thomas-vilte/forkdiff/internal/metrics"
	"github.com/thomas-vilte/forkdiff/internal/models"
	"github.com/thomas-vilte/forkdiff/internal/report"
	"github.com/thomas-vilte/forkdiff/internal/repository"
	"github.com/thomas-vilte/forkdiff/internal/services"
	"github.com/thomas-vilte/forkdiff/internal/ui"
	"github.com/thomas-vilte/forkdiff/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

const (
	flagToken        = "token"
	flagMaxRecords   = "max-records"
	flagPageSize     = "page-size"
	flagSameSize     = "same-size"
	flagSamePushDate = "same-push-date"
	flagFormat       = "format"
	flagSort         = "sort"
	flagOutput       = "output"
	flagMetricsFile  = "metrics-file"
	flagCacheBackend = "cache-backend"
	flagNoCache      = "no-cache"
)

type ForksCommandFactory struct {
	// workDir is where the git remote is looked up when no repository is given.
	workDir string
}

func NewForksCommandFactory() *ForksCommandFactory {
	return &ForksCommandFactory{workDir: "."}
}

func (f *ForksCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "forks",
		Usage:         t.GetMessage("forks.usage", 0, nil),
		Description:   t.GetMessage("forks.long_description", 0, nil),
		ArgsUsage:     t.GetMessage("forks.args_usage", 0, nil),
		Flags:         f.createFlags(t, cfg),
		Action:        f.createAction(t, cfg),
		ShellComplete: completion_helper.DefaultFlagComplete,
	}
}

func (f *ForksCommandFactory) createFlags(t *i18n.Translations, cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagToken,
			Usage:   t.GetMessage("forks.flag_token", 0, nil),
			Sources: cli.EnvVars("GITHUB_TOKEN", "GH_TOKEN"),
		},
		&cli.IntFlag{
			Name:    flagMaxRecords,
			Aliases: []string{"n"},
			Usage:   t.GetMessage("forks.flag_max_records", 0, nil),
			Value:   cfg.MaxRecords,
		},
		&cli.IntFlag{
			Name:  flagPageSize,
			Usage: t.GetMessage("forks.flag_page_size", 0, nil),
			Value: cfg.PageSize,
		},
		&cli.BoolFlag{
			Name:  flagSameSize,
			Usage: t.GetMessage("forks.flag_same_size", 0, nil),
			Value: cfg.SameSize,
		},
		&cli.BoolFlag{
			Name:  flagSamePushDate,
			Usage: t.GetMessage("forks.flag_same_push_date", 0, nil),
			Value: cfg.SamePushDate,
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"f"},
			Usage:   t.GetMessage("forks.flag_format", 0, nil),
			Value:   string(report.FormatTable),
		},
		&cli.StringFlag{
			Name:  flagSort,
			Usage: t.GetMessage("forks.flag_sort", 0, nil),
			Value: string(report.SortStars),
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   t.GetMessage("forks.flag_output", 0, nil),
		},
		&cli.StringFlag{
			Name:  flagMetricsFile,
			Usage: t.GetMessage("forks.flag_metrics_file", 0, nil),
		},
		&cli.StringFlag{
			Name:  flagCacheBackend,
			Usage: t.GetMessage("forks.flag_cache_backend", 0, nil),
			Value: cfg.Cache.Backend,
		},
		&cli.BoolFlag{
			Name:  flagNoCache,
			Usage: t.GetMessage("forks.flag_no_cache", 0, nil),
		},
	}
}

func (f *ForksCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		ref, err := f.resolveRepository(t, cmd.Args().First())
		if err != nil {
			return err
		}

		outOpts, err := reportOptions(t, cmd)
		if err != nil {
			return err
		}

		token := cmd.String(flagToken)
		if token == "" {
			token = cfg.GitHubToken
		}

		backend := cmd.String(flagCacheBackend)
		if cmd.Bool(flagNoCache) {
			backend = config.CacheBackendMemory
		}
		runCfg := *cfg
		runCfg.Cache.Backend = backend
		store, err := runCfg.OpenCacheStore()
		if err != nil {
			return domainErrors.ErrConfigInvalid.
				WithError(err).
				WithContext("status", t.GetMessage("forks.invalid_flag", 0, map[string]interface{}{"Flag": flagCacheBackend}))
		}
		defer func() {
			if err := cache.CloseStore(store); err != nil {
				logger.Warn(ctx, "closing cache store failed", "error", err)
			}
		}()

		recorder := metrics.NewPrometheusRecorder(nil)
		responses := cache.New(store,
			cache.WithFreshFor(cfg.FreshFor()),
			cache.WithRecorder(recorder))

		client, err := github.NewGitHubClient(token,
			github.WithCache(responses),
			github.WithRecorder(recorder),
			github.WithBaseURL(cfg.APIBaseURL))
		if err != nil {
			return err
		}

		service := services.NewForkDivergenceService(client,
			services.WithProgressReporter(ui.NewForkProgress(t)),
			services.WithDivergenceRecorder(recorder))

		result, err := service.Run(ctx, services.RunOptions{
			Repository: ref,
			MaxRecords: cmd.Int(flagMaxRecords),
			PageSize:   cmd.Int(flagPageSize),
			Dedup:      dedupAttributes(cmd, cfg),
		})
		if err != nil {
			return err
		}

		if err := f.writeReport(t, cmd, result, outOpts); err != nil {
			return err
		}

		if path := cmd.String(flagMetricsFile); path != "" {
			if err := recorder.WriteTextfile(path); err != nil {
				return fmt.Errorf("error writing metrics: %w", err)
			}
		}

		stats := responses.Stats()
		logger.Info(ctx, "cache usage", "hits", stats.Hits, "misses", stats.Misses)

		if result.RateLimited > 0 {
			ui.PrintWarning(ui.ErrOut, t.GetMessage("forks.rate_limited", result.RateLimited, map[string]interface{}{
				"Count": result.RateLimited,
			}))
			ui.PrintInfo(ui.ErrOut, t.GetMessage("ui_error.try_suggestion", 0, nil)+domainErrors.ErrGitHubRateLimit.Suggestion)
		}
		if result.Cancelled {
			ui.PrintWarning(ui.ErrOut, t.GetMessage("forks.cancelled", 0, nil))
		}
		ui.PrintInfo(ui.ErrOut, t.GetMessage("forks.summary", 0, map[string]interface{}{
			"Processed":  result.Processed,
			"Total":      len(result.Forks),
			"Repository": result.Original.FullName,
			"DedupHits":  result.DedupHits,
		}))
		return nil
	}
}

func (f *ForksCommandFactory) resolveRepository(t *i18n.Translations, arg string) (models.RepositoryRef, error) {
	if arg != "" {
		return repository.Parse(arg)
	}

	ref, err := repository.FromGitRemote(f.workDir, repository.DefaultRemote)
	if err != nil {
		return models.RepositoryRef{}, err
	}
	ui.PrintInfo(ui.ErrOut, t.GetMessage("forks.using_remote", 0, map[string]interface{}{
		"Repository": ref.String(),
	}))
	return ref, nil
}

func reportOptions(t *i18n.Translations, cmd *cli.Command) (report.Options, error) {
	invalid := func(flag string, err error) error {
		return domainErrors.ErrConfigInvalid.
			WithError(err).
			WithContext("status", t.GetMessage("forks.invalid_flag", 0, map[string]interface{}{"Flag": flag}))
	}

	format, err := report.ParseFormat(cmd.String(flagFormat))
	if err != nil {
		return report.Options{}, invalid(flagFormat, err)
	}
	sortBy, err := report.ParseSort(cmd.String(flagSort))
	if err != nil {
		return report.Options{}, invalid(flagSort, err)
	}
	return report.Options{Format: format, SortBy: sortBy}, nil
}

// dedupAttributes starts from the saved configuration and applies the flags
// given on the command line.
func dedupAttributes(cmd *cli.Command, cfg *config.Config) dedup.Attributes {
	attrs := cfg.DedupAttributes()
	if cmd.IsSet(flagSameSize) {
		attrs.BySize = cmd.Bool(flagSameSize)
	}
	if cmd.IsSet(flagSamePushDate) {
		attrs.ByPushDate = cmd.Bool(flagSamePushDate)
	}
	return attrs
}

func (f *ForksCommandFactory) writeReport(t *i18n.Translations, cmd *cli.Command, result *models.DivergenceReport, opts report.Options) error {
	path := cmd.String(flagOutput)
	if path == "" {
		return report.Write(stdout(cmd), result, opts)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}
	if err := report.Write(file, result, opts); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error writing report file: %w", err)
	}

	ui.PrintSuccess(ui.ErrOut, t.GetMessage("forks.report_written", 0, map[string]interface{}{"Path": path}))
	return nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
