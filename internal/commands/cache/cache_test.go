package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/forkdiff/internal/cache"
	"github.com/thomas-vilte/forkdiff/internal/config"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/urfave/cli/v3"
)

func TestCacheCleanCommand(t *testing.T) {
	for _, backend := range []string{config.CacheBackendFile, config.CacheBackendSQLite} {
		t.Run("should remove durable entries of the "+backend+" backend", func(t *testing.T) {
			// Arrange
			color.NoColor = true
			translations, err := i18n.NewTranslations("en", "")
			require.NoError(t, err)
			cfg, err := config.LoadConfig(t.TempDir())
			require.NoError(t, err)
			cfg.Cache.Backend = backend

			store, err := cfg.OpenCacheStore()
			require.NoError(t, err)
			cache.New(store).Put("https://api.github.com/repos/a/b", json.RawMessage(`{}`), "e")
			require.NoError(t, cache.CloseStore(store))

			var out bytes.Buffer
			app := &cli.Command{
				Name:     "forkdiff",
				Writer:   &out,
				Commands: []*cli.Command{NewCacheCommand().CreateCommand(translations, cfg)},
			}

			// Act
			err = app.Run(context.Background(), []string{"forkdiff", "cache", "clean"})

			// Assert
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Cache cleaned")

			store, err = cfg.OpenCacheStore()
			require.NoError(t, err)
			defer func() { _ = cache.CloseStore(store) }()
			_, ok := cache.New(store).Peek("https://api.github.com/repos/a/b")
			assert.False(t, ok)
		})
	}
}
