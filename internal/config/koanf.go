// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, in order. The first one found is used.
var DefaultConfigPaths = []string{
	"animerec.yaml",
	"animerec.yml",
	"/etc/animerec/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. File and env values override them.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			CatalogPath:        "data/anime_cleaned.csv",
			RawCatalogPath:     "data/anime.csv",
			RatingsPath:        "data/rating.csv",
			CleanedRatingsPath: "data/rating_cleaned.csv",
			ProfilePath:        "data/ratings_database.tsv",
		},
		Aggregate: AggregateConfig{
			WatchedIncludesUnrated: true,
			UnratedSentinel:        "zero",
			Precision:              2,
			ProgressEvery:          100000,
			Presorted:              true,
		},
		Query: QueryConfig{
			FuzzyCutoff:     0.6,
			MaxSuggestions:  3,
			MatchMode:       "superset",
			DefaultLimit:    -1,
			CacheEnabled:    true,
			CacheTTL:        5 * time.Minute,
			CacheMaxEntries: 1024,
		},
		Database: DatabaseConfig{
			Enabled:   false,
			Path:      "data/animerec.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Index: IndexConfig{
			Enabled:  false,
			Path:     "data/profiles.badger",
			InMemory: false,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without reading any file or environment.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from defaults, the config file found by
// findConfigFile, and the environment, then validates it.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns $CONFIG_PATH if it exists, else the first existing default path.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are keys whose env values are comma separated lists.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma separated strings coming from env vars.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to config keys.
var envMappings = map[string]string{
	"catalog_path":         "data.catalog_path",
	"raw_catalog_path":     "data.raw_catalog_path",
	"ratings_path":         "data.ratings_path",
	"cleaned_ratings_path": "data.cleaned_ratings_path",
	"profile_path":         "data.profile_path",

	"watched_includes_unrated": "aggregate.watched_includes_unrated",
	"unrated_sentinel":         "aggregate.unrated_sentinel",
	"aggregate_precision":      "aggregate.precision",
	"progress_every":           "aggregate.progress_every",
	"ratings_presorted":        "aggregate.presorted",

	"fuzzy_cutoff":            "query.fuzzy_cutoff",
	"max_suggestions":         "query.max_suggestions",
	"match_mode":              "query.match_mode",
	"default_limit":           "query.default_limit",
	"query_cache_enabled":     "query.cache_enabled",
	"query_cache_ttl":         "query.cache_ttl",
	"query_cache_max_entries": "query.cache_max_entries",

	"duckdb_enabled":    "database.enabled",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"badger_enabled":   "index.enabled",
	"badger_path":      "index.path",
	"badger_in_memory": "index.in_memory",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"cors_origins":        "server.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config key. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
