package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/forkdiff/internal/cache"
	"github.com/thomas-vilte/forkdiff/internal/dedup"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should create the default config in the home directory", func(t *testing.T) {
		// Arrange
		home := t.TempDir()

		// Act
		cfg, err := LoadConfig(home)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".forkdiff", "config.json"), cfg.PathFile)
		assert.Equal(t, 100, cfg.MaxRecords)
		assert.Equal(t, 100, cfg.PageSize)
		assert.True(t, cfg.SameSize)
		assert.True(t, cfg.SamePushDate)
		assert.Equal(t, CacheBackendFile, cfg.Cache.Backend)
		assert.Zero(t, cfg.Cache.FreshForSeconds)
		assert.FileExists(t, cfg.PathFile)
	})

	t.Run("should read an existing file and keep defaults for missing fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"github_token":"ghp_x","max_records":250,"same_size":false}`), 0600))

		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "ghp_x", cfg.GitHubToken)
		assert.Equal(t, 250, cfg.MaxRecords)
		assert.Equal(t, dedup.Attributes{BySize: false, ByPushDate: true}, cfg.DedupAttributes())
		assert.Equal(t, LangEN, cfg.Language)
		assert.Equal(t, 24*time.Hour, cfg.CacheTTL())
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

		_, err := LoadConfig(path)

		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"page_size":500}`), 0600))

		_, err := LoadConfig(path)

		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrConfigInvalid)
		assert.Contains(t, err.Error(), "page_size")
	})
}

func TestSaveConfig(t *testing.T) {
	t.Run("should round trip", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		cfg.GitHubToken = "ghp_secret"
		cfg.Cache.Backend = CacheBackendSQLite

		require.NoError(t, SaveConfig(cfg))
		loaded, err := LoadConfig(cfg.PathFile)

		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)

		info, err := os.Stat(cfg.PathFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("should fail without a path", func(t *testing.T) {
		err := SaveConfig(Default())
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unsupported language", mutate: func(c *Config) { c.Language = "fr" }},
		{name: "zero max records", mutate: func(c *Config) { c.MaxRecords = 0 }},
		{name: "page size above the api limit", mutate: func(c *Config) { c.PageSize = 101 }},
		{name: "unknown cache backend", mutate: func(c *Config) { c.Cache.Backend = "redis" }},
		{name: "zero ttl", mutate: func(c *Config) { c.Cache.TTLHours = 0 }},
		{name: "negative freshness", mutate: func(c *Config) { c.Cache.FreshForSeconds = -1 }},
	}

	require.NoError(t, validateConfig(Default()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			assert.ErrorIs(t, validateConfig(cfg), domainErrors.ErrConfigInvalid)
		})
	}
}

func TestConfig_Set(t *testing.T) {
	t.Run("should accept aliases", func(t *testing.T) {
		cfg := Default()

		require.NoError(t, cfg.Set("token", " ghp_abc "))
		require.NoError(t, cfg.Set("max-records", "300"))
		require.NoError(t, cfg.Set("SAME_PUSH_DATE", "false"))
		require.NoError(t, cfg.Set("cache-fresh-for", "60"))

		assert.Equal(t, "ghp_abc", cfg.GitHubToken)
		assert.Equal(t, 300, cfg.MaxRecords)
		assert.False(t, cfg.SamePushDate)
		assert.Equal(t, time.Minute, cfg.FreshFor())
	})

	t.Run("should leave the config unchanged on error", func(t *testing.T) {
		cfg := Default()

		assert.Error(t, cfg.Set("page-size", "1000"))
		assert.Error(t, cfg.Set("same-size", "maybe"))
		assert.Error(t, cfg.Set("colour", "blue"))

		assert.Equal(t, Default(), cfg)
	})

	t.Run("should list canonical keys", func(t *testing.T) {
		keys := SettingKeys()

		assert.Contains(t, keys, "github_token")
		assert.Contains(t, keys, "cache.fresh_for_seconds")
		assert.NotContains(t, keys, "token")
	})
}

func TestConfig_OpenCacheStore(t *testing.T) {
	t.Run("should place the durable cache next to the config file", func(t *testing.T) {
		// Arrange
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		cfg.Cache.Backend = CacheBackendSQLite

		// Act
		store, err := cfg.OpenCacheStore()

		// Assert
		require.NoError(t, err)
		t.Cleanup(func() { _ = cache.CloseStore(store) })
		dir, err := cfg.CacheDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cfg.Dir(), "cache"), dir)
		assert.FileExists(t, filepath.Join(dir, "cache.db"))
	})

	t.Run("should return no store for the memory backend", func(t *testing.T) {
		cfg := Default()
		cfg.PathFile = filepath.Join(t.TempDir(), "config.json")
		cfg.Cache.Backend = CacheBackendMemory

		store, err := cfg.OpenCacheStore()

		require.NoError(t, err)
		assert.Nil(t, store)
	})
}
