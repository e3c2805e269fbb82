// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package config

import (
	"fmt"

	"github.com/tomtom215/animerec/internal/validation"
)

// Validate checks field constraints and the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateStores(); err != nil {
		return err
	}
	return c.validateServer()
}

func (c *Config) validateQuery() error {
	if c.Query.CacheEnabled && c.Query.CacheTTL <= 0 {
		return fmt.Errorf("query.cache_ttl must be positive when query.cache_enabled is set, got %s", c.Query.CacheTTL)
	}
	return nil
}

func (c *Config) validateStores() error {
	if c.Database.Enabled && c.Database.Path == "" {
		return fmt.Errorf("database.path is required when database.enabled is set")
	}
	if c.Index.Enabled && !c.Index.InMemory && c.Index.Path == "" {
		return fmt.Errorf("index.path is required when index.enabled is set without index.in_memory")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < 1 {
			return fmt.Errorf("server.rate_limit_reqs must be positive unless server.rate_limit_disabled is set")
		}
		if c.Server.RateLimitWindow <= 0 {
			return fmt.Errorf("server.rate_limit_window must be positive, got %s", c.Server.RateLimitWindow)
		}
	}
	return nil
}
