package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// settingKeys maps accepted spellings to the canonical key.
var settingKeys = map[string]string{
	"token":        "github_token",
	"github_token": "github_token",

	"lang":     "language",
	"language": "language",

	"max-records": "max_records",
	"max_records": "max_records",

	"page-size": "page_size",
	"page_size": "page_size",

	"same-size": "same_size",
	"same_size": "same_size",

	"same-push-date": "same_push_date",
	"same_push_date": "same_push_date",

	"api-base-url": "api_base_url",
	"api_base_url": "api_base_url",

	"cache-backend": "cache.backend",
	"cache.backend": "cache.backend",

	"cache-ttl-hours": "cache.ttl_hours",
	"cache.ttl_hours": "cache.ttl_hours",

	"cache-fresh-for":         "cache.fresh_for_seconds",
	"cache.fresh_for_seconds": "cache.fresh_for_seconds",
}

// SettingKeys lists the canonical keys accepted by Set.
func SettingKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, canonical := range settingKeys {
		if !seen[canonical] {
			seen[canonical] = true
			keys = append(keys, canonical)
		}
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to the setting named key and validates the result. On
// error the config is left unchanged.
func (c *Config) Set(key, value string) error {
	canonical, ok := settingKeys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	updated := *c
	switch canonical {
	case "github_token":
		updated.GitHubToken = strings.TrimSpace(value)
	case "language":
		updated.Language = value
	case "max_records":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %s", canonical, value)
		}
		updated.MaxRecords = n
	case "page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %s", canonical, value)
		}
		updated.PageSize = n
	case "same_size":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		updated.SameSize = b
	case "same_push_date":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		updated.SamePushDate = b
	case "api_base_url":
		updated.APIBaseURL = value
	case "cache.backend":
		updated.Cache.Backend = strings.ToLower(value)
	case "cache.ttl_hours":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %s", canonical, value)
		}
		updated.Cache.TTLHours = n
	case "cache.fresh_for_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number for %s: %s", canonical, value)
		}
		updated.Cache.FreshForSeconds = n
	}

	if err := validateConfig(&updated); err != nil {
		return err
	}
	*c = updated
	return nil
}
