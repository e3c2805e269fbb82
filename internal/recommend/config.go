// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the query engine.
type Config struct {
	// FuzzyCutoff is the minimum similarity ratio for a suggestion, in [0, 1].
	FuzzyCutoff float64 `json:"fuzzy_cutoff"`

	// MaxSuggestions caps suggestions per unresolved token.
	MaxSuggestions int `json:"max_suggestions"`

	// MatchMode is the default genre match mode.
	MatchMode MatchMode `json:"match_mode"`

	// DefaultLimit applies when a query passes Limit 0. Negative means all results.
	DefaultLimit int `json:"default_limit"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled enables result caching.
	Enabled bool `json:"enabled"`

	// TTL is the cache time-to-live.
	TTL time.Duration `json:"ttl"`

	// MaxEntries bounds the number of cached results.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		FuzzyCutoff:    0.6,
		MaxSuggestions: 3,
		MatchMode:      MatchSuperset,
		DefaultLimit:   -1,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.FuzzyCutoff < 0 || c.FuzzyCutoff > 1 {
		return fmt.Errorf("fuzzy_cutoff must be in [0, 1], got %f", c.FuzzyCutoff)
	}
	if c.MaxSuggestions < 1 {
		return fmt.Errorf("max_suggestions must be positive, got %d", c.MaxSuggestions)
	}
	if c.MatchMode != MatchSuperset && c.MatchMode != MatchExact {
		return fmt.Errorf("match_mode must be %q or %q, got %q", MatchSuperset, MatchExact, c.MatchMode)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %s", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 0 {
			return fmt.Errorf("cache.max_entries must be non-negative, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}
