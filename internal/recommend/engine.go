// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/catalog"
	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/profile"
)

// Engine answers genre and user recommendation queries over one catalog snapshot.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	idx      *catalog.Index
	profiles profile.Lookup

	// normalized caches the vocabulary's normalized names for fuzzy matching.
	normalized []string

	cache *cache.Cache[*Result]
}

// NewEngine creates a query engine. profiles may be nil when only genre queries are served.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(idx *catalog.Index, profiles profile.Lookup, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if idx == nil {
		return nil, fmt.Errorf("catalog index is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		idx:        idx,
		profiles:   profiles,
		normalized: idx.Vocabulary().NormalizedNames(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.New[*Result](cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}
	return e, nil
}

// Vocabulary returns the genre names in vocabulary order.
func (e *Engine) Vocabulary() []string {
	return e.idx.Vocabulary().Names()
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// CacheStats returns result cache statistics. ok is false when caching is disabled.
func (e *Engine) CacheStats() (cache.Stats, bool) {
	if e.cache == nil {
		return cache.Stats{}, false
	}
	return e.cache.GetStats(), true
}

// requestID returns the request id carried by ctx or a new one.
func requestID(ctx context.Context) string {
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return logging.GenerateRequestID()
}

// limit resolves a query limit to the engine default when it is zero.
func (e *Engine) limit(n int) int {
	if n == 0 {
		return e.config.DefaultLimit
	}
	return n
}

// truncate applies limit semantics: negative keeps everything.
func truncate(recs []Recommendation, limit int) []Recommendation {
	if limit >= 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}

// cached returns a copy of the cached result for key, stamped with a new request id.
func (e *Engine) cached(key, reqID string, start time.Time) (*Result, bool) {
	if e.cache == nil {
		return nil, false
	}
	r, ok := e.cache.Get(key)
	metrics.RecordCacheLookup("query", ok)
	if !ok {
		return nil, false
	}
	dup := *r
	dup.RequestID = reqID
	dup.CacheHit = true
	dup.Latency = time.Since(start)
	return &dup, true
}

func (e *Engine) store(key string, r *Result) {
	if e.cache != nil {
		e.cache.Set(key, r)
	}
}

// finish stamps latency, records metrics and logs the outcome.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) finish(r *Result, start time.Time, logger zerolog.Logger) *Result {
	r.Latency = time.Since(start)
	metrics.RecordQuery(r.Mode, r.State.String(), len(r.Anime), r.Latency)
	logger.Debug().
		Str("state", r.State.String()).
		Int("results", len(r.Anime)).
		Int("total", r.Total).
		Bool("cache_hit", r.CacheHit).
		Dur("latency", r.Latency).
		Msg("query complete")
	return r
}
