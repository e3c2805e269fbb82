// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Aggregate AggregateConfig `koanf:"aggregate"`
	Query     QueryConfig     `koanf:"query"`
	Database  DatabaseConfig  `koanf:"database"`
	Index     IndexConfig     `koanf:"index"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig names the input and output files of the batch stages.
type DataConfig struct {
	CatalogPath        string `koanf:"catalog_path" validate:"required"`
	RawCatalogPath     string `koanf:"raw_catalog_path"`
	RatingsPath        string `koanf:"ratings_path" validate:"required"`
	CleanedRatingsPath string `koanf:"cleaned_ratings_path"`
	ProfilePath        string `koanf:"profile_path" validate:"required"`
}

// AggregateConfig controls the rating stream aggregator.
type AggregateConfig struct {
	// WatchedIncludesUnrated lists anime rated -1 in the watched list.
	WatchedIncludesUnrated bool `koanf:"watched_includes_unrated"`

	// UnratedSentinel is the value stored for genres the user never rated: zero or nan.
	UnratedSentinel string `koanf:"unrated_sentinel" validate:"oneof=zero nan"`

	// Precision is the number of decimal places preferences are rounded to.
	Precision int `koanf:"precision" validate:"gte=0,lte=6"`

	// ProgressEvery logs progress every N events. 0 disables progress logging.
	ProgressEvery int `koanf:"progress_every" validate:"gte=0"`

	// Presorted declares the rating file grouped by user. When false the events
	// are sorted in memory before aggregation.
	Presorted bool `koanf:"presorted"`
}

// QueryConfig controls the query engine.
type QueryConfig struct {
	FuzzyCutoff     float64       `koanf:"fuzzy_cutoff" validate:"gte=0,lte=1"`
	MaxSuggestions  int           `koanf:"max_suggestions" validate:"gte=1,lte=20"`
	MatchMode       string        `koanf:"match_mode" validate:"oneof=superset exact"`
	DefaultLimit    int           `koanf:"default_limit" validate:"gte=-1"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries" validate:"gte=0"`
}

// DatabaseConfig configures the DuckDB reporting mirror.
type DatabaseConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"` // 0 = runtime.NumCPU()
}

// IndexConfig configures the badger user profile index.
type IndexConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host              string        `koanf:"host" validate:"required"`
	Port              int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout           time.Duration `koanf:"timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
