// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomtom215/animerec/internal/aggregate"
	"github.com/tomtom215/animerec/internal/catalog"
	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/profile"
	"github.com/tomtom215/animerec/internal/ratings"
)

func runClean(_ context.Context, a *app, args []string) (int, error) {
	fs := a.newFlagSet("clean")
	withRatings := fs.Bool("ratings", false, "also write the rating file without unrated (-1) rows")
	if err := parseFlags(fs, args); err != nil {
		return exitUsage, err
	}

	d := a.cfg.Data
	var stats catalog.CleanStats
	err := rewriteFile(d.RawCatalogPath, d.CatalogPath, func(r io.Reader, w io.Writer) error {
		var cerr error
		stats, cerr = catalog.Clean(r, w, a.logger)
		return cerr
	})
	if err != nil {
		return exitFailure, fmt.Errorf("clean catalog: %w", err)
	}
	fmt.Fprintf(a.stdout, "catalog: read %d, kept %d, dropped %d -> %s\n", stats.Read, stats.Kept, stats.DroppedTotal(), d.CatalogPath)

	if *withRatings {
		var rstats ratings.CleanStats
		err := rewriteFile(d.RatingsPath, d.CleanedRatingsPath, func(r io.Reader, w io.Writer) error {
			var cerr error
			rstats, cerr = ratings.CleanUnrated(ratings.NewCSVSource(r, a.logger), w)
			return cerr
		})
		if err != nil {
			return exitFailure, fmt.Errorf("clean ratings: %w", err)
		}
		fmt.Fprintf(a.stdout, "ratings: read %d, kept %d, dropped %d -> %s\n", rstats.Read, rstats.Kept, rstats.Dropped, d.CleanedRatingsPath)
	}
	return exitOK, nil
}

// rewriteFile streams src through fn into a temporary file next to dst and
// renames it into place on success.
func rewriteFile(src, dst string, fn func(io.Reader, io.Writer) error) (err error) {
	in, err := os.Open(src) //nolint:gosec // path comes from configuration
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriterSize(tmp, 64<<10)
	if err = fn(bufio.NewReaderSize(in, 64<<10), buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func runAggregate(ctx context.Context, a *app, args []string) (int, error) {
	fs := a.newFlagSet("aggregate")
	input := fs.String("ratings", a.cfg.Data.RatingsPath, "rating file to aggregate")
	sortInput := fs.Bool("sort", !a.cfg.Aggregate.Presorted, "sort events by user before grouping")
	mirror := fs.Bool("export", false, "also load the result into the DuckDB mirror when enabled")
	if err := parseFlags(fs, args); err != nil {
		return exitUsage, err
	}

	idx, err := a.loadCatalog()
	if err != nil {
		return exitFailure, err
	}

	f, err := os.Open(*input)
	if err != nil {
		return exitFailure, fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()

	var src ratings.Source = ratings.NewCSVSource(bufio.NewReaderSize(f, 256<<10), a.logger)
	if *sortInput {
		a.logger.Info().Msg("Sorting rating events by user")
		sorted, err := ratings.Sorted(src)
		if err != nil {
			return exitFailure, fmt.Errorf("sort ratings: %w", err)
		}
		src = sorted
	}

	agg, err := aggregate.New(idx, aggregateOptions(&a.cfg.Aggregate), a.logger)
	if err != nil {
		return exitFailure, err
	}
	w, err := profile.NewWriter(a.cfg.Data.ProfilePath, idx.Vocabulary(), a.cfg.Aggregate.Precision)
	if err != nil {
		return exitFailure, err
	}

	stats, err := agg.Run(ctx, src, w)
	if err != nil {
		if aerr := w.Abort(); aerr != nil {
			a.logger.Warn().Err(aerr).Msg("discard staged profile table")
		}
		return exitFailure, err
	}
	if err := w.Commit(stats.Events); err != nil {
		return exitFailure, fmt.Errorf("write profile table: %w", err)
	}

	fmt.Fprintf(a.stdout, "aggregated %d events into %d profiles (skipped: %d unrated, %d unknown anime, %d invalid) -> %s\n",
		stats.Events, stats.Users, stats.SkippedUnrated, stats.SkippedUnknown, stats.SkippedInvalid, w.Path())

	if *mirror {
		return a.export(ctx, idx)
	}
	// A persistent index is reloaded so it always matches the committed table.
	return a.refreshIndex(ctx, idx)
}

func runExport(ctx context.Context, a *app, args []string) (int, error) {
	fs := a.newFlagSet("export")
	if err := parseFlags(fs, args); err != nil {
		return exitUsage, err
	}
	if !a.cfg.Database.Enabled && !a.cfg.Index.Enabled {
		return exitUsage, fmt.Errorf("%w: neither database.enabled nor index.enabled is set", errUsage)
	}

	idx, err := a.loadCatalog()
	if err != nil {
		return exitFailure, err
	}
	return a.export(ctx, idx)
}

// export loads the profile table into every enabled secondary store.
func (a *app) export(ctx context.Context, idx *catalog.Index) (int, error) {
	if a.cfg.Database.Enabled {
		t, err := a.readProfileTable(idx.Vocabulary())
		if err != nil {
			return exitFailure, err
		}
		db, err := database.New(&a.cfg.Database, a.logger)
		if err != nil {
			return exitFailure, err
		}
		stats, err := db.ReplaceProfiles(ctx, t.Genres, t.Profiles())
		if cerr := db.Close(); cerr != nil {
			a.logger.Warn().Err(cerr).Msg("close database")
		}
		if err != nil {
			return exitFailure, err
		}
		fmt.Fprintf(a.stdout, "duckdb: %d users, %d preferences, %d watched rows -> %s\n",
			stats.Users, stats.Preferences, stats.Watched, a.cfg.Database.Path)
	}
	return a.refreshIndex(ctx, idx)
}

// refreshIndex reloads a persistent badger index from the profile table. It
// does nothing when the index is disabled or in memory.
func (a *app) refreshIndex(ctx context.Context, idx *catalog.Index) (int, error) {
	if !a.cfg.Index.Enabled || a.cfg.Index.InMemory {
		return exitOK, nil
	}
	bi, err := profile.OpenBadgerIndex(a.cfg.Index.Path, false)
	if err != nil {
		return exitFailure, err
	}
	n, err := a.loadIndex(ctx, bi, idx.Vocabulary())
	if cerr := bi.Close(); cerr != nil {
		a.logger.Warn().Err(cerr).Msg("close profile index")
	}
	if err != nil {
		return exitFailure, err
	}
	fmt.Fprintf(a.stdout, "badger: %d profiles -> %s\n", n, a.cfg.Index.Path)
	return exitOK, nil
}
