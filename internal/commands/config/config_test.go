package config

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/forkdiff/internal/config"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/urfave/cli/v3"
)

func setupConfigTest(t *testing.T) (*config.Config, *cli.Command, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	translations, err := i18n.NewTranslations("en", "../../i18n/locales")
	require.NoError(t, err)

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "forkdiff",
		Writer:   &out,
		Commands: []*cli.Command{NewConfigCommandFactory().CreateCommand(translations, cfg)},
	}
	return cfg, app, &out
}

func TestShowCommand(t *testing.T) {
	t.Run("should display the configuration without leaking the token", func(t *testing.T) {
		// Arrange
		cfg, app, out := setupConfigTest(t)
		cfg.GitHubToken = "ghp_secret"

		// Act
		err := app.Run(context.Background(), []string{"forkdiff", "config", "show"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Current configuration")
		assert.Contains(t, out.String(), "github_token: configured")
		assert.Contains(t, out.String(), "max_records: 100")
		assert.Contains(t, out.String(), "cache.backend: file")
		assert.NotContains(t, out.String(), "ghp_secret")
	})

	t.Run("should report a missing token", func(t *testing.T) {
		_, app, out := setupConfigTest(t)

		err := app.Run(context.Background(), []string{"forkdiff", "config", "show"})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "github_token: not configured")
	})
}

func TestSetCommand(t *testing.T) {
	t.Run("should update and persist a setting", func(t *testing.T) {
		// Arrange
		cfg, app, out := setupConfigTest(t)

		// Act
		err := app.Run(context.Background(), []string{"forkdiff", "config", "set", "max-records", "250"})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out.String(), "max-records updated")
		reloaded, err := config.LoadConfig(cfg.PathFile)
		require.NoError(t, err)
		assert.Equal(t, 250, reloaded.MaxRecords)
	})

	t.Run("should reject invalid values without saving", func(t *testing.T) {
		cfg, app, _ := setupConfigTest(t)

		err := app.Run(context.Background(), []string{"forkdiff", "config", "set", "page-size", "500"})

		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
		reloaded, loadErr := config.LoadConfig(cfg.PathFile)
		require.NoError(t, loadErr)
		assert.Equal(t, 100, reloaded.PageSize)
	})

	t.Run("should list the keys when arguments are missing", func(t *testing.T) {
		_, app, _ := setupConfigTest(t)

		err := app.Run(context.Background(), []string{"forkdiff", "config", "set", "language"})

		assert.ErrorContains(t, err, "github_token")
	})
}
