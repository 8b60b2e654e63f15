package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thomas-vilte/forkdiff/internal/cache"
	"github.com/thomas-vilte/forkdiff/internal/dedup"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
)

type (
	Config struct {
		GitHubToken  string      `json:"github_token,omitempty"`
		Language     string      `json:"language"`
		MaxRecords   int         `json:"max_records"`
		PageSize     int         `json:"page_size"`
		SameSize     bool        `json:"same_size"`
		SamePushDate bool        `json:"same_push_date"`
		APIBaseURL   string      `json:"api_base_url,omitempty"`
		Cache        CacheConfig `json:"cache"`

		PathFile string `json:"-"`
	}

	CacheConfig struct {
		Backend string `json:"backend"`
		// TTLHours is how long durable entries survive. It plays the role of a session.
		TTLHours int `json:"ttl_hours"`
		// FreshForSeconds serves entries without revalidation while younger than this. 0 always revalidates.
		FreshForSeconds int `json:"fresh_for_seconds"`
	}
)

const (
	CacheBackendFile   = cache.BackendFile
	CacheBackendSQLite = cache.BackendSQLite
	CacheBackendMemory = cache.BackendMemory
)

const (
	configDirName   = ".forkdiff"
	configFileName  = "config.json"
	defaultLang     = LangEN
	defaultRecords  = 100
	defaultPageSize = 100
	maxPageSize     = 100
	defaultTTLHours = 24
)

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		Language:     defaultLang,
		MaxRecords:   defaultRecords,
		PageSize:     defaultPageSize,
		SameSize:     true,
		SamePushDate: true,
		Cache: CacheConfig{
			Backend:  CacheBackendFile,
			TTLHours: defaultTTLHours,
		},
	}
}

// LoadConfig reads the configuration. path is either a .json file or a
// directory (usually the home directory) under which .forkdiff/config.json
// lives. A missing file is created with the defaults.
func LoadConfig(path string) (*Config, error) {
	configPath := path
	if filepath.Ext(path) != ".json" {
		configPath = filepath.Join(path, configDirName, configFileName)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return CreateDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, domainErrors.ErrConfigInvalid.
			WithError(err).
			WithContext("path", configPath)
	}
	config.PathFile = configPath

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func CreateDefaultConfig(path string) (*Config, error) {
	config := Default()
	config.PathFile = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	if err := write(config); err != nil {
		return nil, err
	}
	return config, nil
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	if config.PathFile == "" {
		return errors.New("config file path is not set")
	}

	return write(config)
}

func write(config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	// The file may hold a token.
	if err := os.WriteFile(config.PathFile, data, 0600); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	return nil
}

func validateConfig(config *Config) error {
	invalid := func(field string, value interface{}) error {
		return domainErrors.ErrConfigInvalid.
			WithContext("field", field).
			WithContext("status", fmt.Sprintf("invalid %s: %v", field, value))
	}

	if !IsSupportedLanguage(config.Language) {
		return invalid("language", config.Language)
	}
	if config.MaxRecords <= 0 {
		return invalid("max_records", config.MaxRecords)
	}
	if config.PageSize <= 0 || config.PageSize > maxPageSize {
		return invalid("page_size", config.PageSize)
	}
	switch config.Cache.Backend {
	case CacheBackendFile, CacheBackendSQLite, CacheBackendMemory:
	default:
		return invalid("cache.backend", config.Cache.Backend)
	}
	if config.Cache.TTLHours <= 0 {
		return invalid("cache.ttl_hours", config.Cache.TTLHours)
	}
	if config.Cache.FreshForSeconds < 0 {
		return invalid("cache.fresh_for_seconds", config.Cache.FreshForSeconds)
	}
	return nil
}

// DedupAttributes returns the attributes that make two forks equivalent.
func (c *Config) DedupAttributes() dedup.Attributes {
	return dedup.Attributes{BySize: c.SameSize, ByPushDate: c.SamePushDate}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

func (c *Config) FreshFor() time.Duration {
	return time.Duration(c.Cache.FreshForSeconds) * time.Second
}

// Dir is the directory holding the config file and the durable cache.
func (c *Config) Dir() string {
	if c.PathFile == "" {
		return ""
	}
	return filepath.Dir(c.PathFile)
}

// CacheDir is where the durable cache of Cache.Backend lives.
func (c *Config) CacheDir() (string, error) {
	if dir := c.Dir(); dir != "" {
		return filepath.Join(dir, "cache"), nil
	}
	return cache.DefaultDir()
}

// OpenCacheStore opens the durable store selected by Cache.Backend.
func (c *Config) OpenCacheStore() (cache.Store, error) {
	dir, err := c.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.OpenStore(c.Cache.Backend, dir, c.CacheTTL())
}
