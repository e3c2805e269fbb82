// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tomtom215/animerec/internal/aggregate"
	"github.com/tomtom215/animerec/internal/catalog"
	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/profile"
	"github.com/tomtom215/animerec/internal/recommend"
)

// loadCatalog reads the cleaned catalog and builds the index.
func (a *app) loadCatalog() (*catalog.Index, error) {
	path := a.cfg.Data.CatalogPath
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	records, stats, err := catalog.LoadCSV(f, a.logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	if stats.Loaded == 0 {
		return nil, fmt.Errorf("catalog %s has no usable rows", path)
	}

	idx := catalog.NewIndex(records, a.logger)
	metrics.RecordCatalog(idx.Len(), idx.Vocabulary().Len())
	return idx, nil
}

// aggregateOptions maps the aggregate config section.
func aggregateOptions(cfg *config.AggregateConfig) aggregate.Options {
	return aggregate.Options{
		WatchedIncludesUnrated: cfg.WatchedIncludesUnrated,
		Sentinel:               aggregate.Sentinel(cfg.UnratedSentinel),
		Precision:              cfg.Precision,
		ProgressEvery:          cfg.ProgressEvery,
	}
}

// engineConfig maps the query config section.
func engineConfig(cfg *config.QueryConfig) *recommend.Config {
	return &recommend.Config{
		FuzzyCutoff:    cfg.FuzzyCutoff,
		MaxSuggestions: cfg.MaxSuggestions,
		MatchMode:      recommend.MatchMode(cfg.MatchMode),
		DefaultLimit:   cfg.DefaultLimit,
		Cache: recommend.CacheConfig{
			Enabled:    cfg.CacheEnabled,
			TTL:        cfg.CacheTTL,
			MaxEntries: cfg.CacheMaxEntries,
		},
	}
}

// readProfileTable loads the profile table and checks it against the catalog vocabulary.
func (a *app) readProfileTable(vocab *catalog.Vocabulary) (*profile.Table, error) {
	t, err := profile.ReadFile(a.cfg.Data.ProfilePath, vocab, a.logger)
	if err != nil {
		return nil, fmt.Errorf("read profile table: %w", err)
	}
	return t, nil
}

// openProfiles returns the lookup used by user queries and a release function.
//
// With the badger index disabled the profile table is read into memory. A
// persistent index is used as is only when its vocabulary matches the catalog
// and its source stamp matches the current table; otherwise it is reloaded
// from the table. An in-memory index is always loaded from the table.
func (a *app) openProfiles(ctx context.Context, vocab *catalog.Vocabulary) (profile.Lookup, func(), error) {
	noop := func() {}
	if !a.cfg.Index.Enabled {
		t, err := a.readProfileTable(vocab)
		if err != nil {
			return nil, noop, err
		}
		return t, noop, nil
	}

	idx, err := profile.OpenBadgerIndex(a.cfg.Index.Path, a.cfg.Index.InMemory)
	if err != nil {
		return nil, noop, err
	}
	release := func() {
		if err := idx.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close profile index")
		}
	}

	meta, err := idx.Meta()
	if err != nil {
		release()
		return nil, noop, err
	}
	if meta.Genres != nil && !vocab.Equal(meta.Genres) {
		release()
		return nil, noop, fmt.Errorf("%w: badger index at %s was built for another catalog", profile.ErrSchemaMismatch, a.cfg.Index.Path)
	}

	stamp, err := profile.Stamp(a.cfg.Data.ProfilePath)
	switch {
	case err != nil && errors.Is(err, os.ErrNotExist) && meta.Genres != nil:
		a.logger.Warn().Str("path", a.cfg.Data.ProfilePath).Msg("Profile table missing; serving the existing index")
		return idx, release, nil
	case err != nil:
		release()
		return nil, noop, err
	case meta.Genres != nil && meta.Source == stamp:
		a.logger.Info().Str("path", a.cfg.Index.Path).Msg("Using existing profile index")
		return idx, release, nil
	case meta.Genres != nil:
		a.logger.Info().Str("path", a.cfg.Index.Path).Msg("Profile table changed; reloading index")
	}

	if _, err := a.loadIndex(ctx, idx, vocab); err != nil {
		release()
		return nil, noop, err
	}
	return idx, release, nil
}

// loadIndex replaces the contents of idx with the current profile table.
func (a *app) loadIndex(ctx context.Context, idx *profile.BadgerIndex, vocab *catalog.Vocabulary) (int, error) {
	stamp, err := profile.Stamp(a.cfg.Data.ProfilePath)
	if err != nil {
		return 0, err
	}
	t, err := a.readProfileTable(vocab)
	if err != nil {
		return 0, err
	}
	if err := idx.Replace(ctx, t, stamp); err != nil {
		return 0, fmt.Errorf("populate profile index: %w", err)
	}
	a.logger.Info().Int("users", t.Len()).Msg("Profile index populated from table")
	return t.Len(), nil
}

// newEngine loads the catalog and profiles and builds the query engine.
// Profiles are optional for genre-only use: withProfiles false skips them.
func (a *app) newEngine(ctx context.Context, withProfiles bool) (*recommend.Engine, func(), error) {
	idx, err := a.loadCatalog()
	if err != nil {
		return nil, func() {}, err
	}

	var (
		lookup  profile.Lookup
		release = func() {}
	)
	if withProfiles {
		lookup, release, err = a.openProfiles(ctx, idx.Vocabulary())
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, release, err
			}
			a.logger.Warn().Str("path", a.cfg.Data.ProfilePath).Msg("No profile table; user queries are disabled")
			lookup = nil
		}
	}

	engine, err := recommend.NewEngine(idx, lookup, engineConfig(&a.cfg.Query), a.logger)
	if err != nil {
		release()
		return nil, func() {}, err
	}
	return engine, release, nil
}
