// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package aggregate converts a user-grouped rating stream into genre preference
// profiles using a cumulative moving average per genre.
//
// For each rated event the averages of every genre the anime carries are updated
// in place:
//
//	avg[g] = (rating + count[g]*avg[g]) / (count[g] + 1)
//	count[g]++
//
// Only one user's vectors are held at a time. Events whose anime is missing from
// the catalog are skipped entirely, -1 events never touch the averages, and each
// profile is rounded to the configured precision before it is handed to the sink.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/catalog"
	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/profile"
	"github.com/tomtom215/animerec/internal/ratings"
)

// Aggregator holds the per-user working state of an aggregation pass.
// An Aggregator is not safe for concurrent use.
type Aggregator struct {
	idx    *catalog.Index
	opts   Options
	logger zerolog.Logger
	scale  float64

	avg     []float64
	count   []int
	watched []int
	seen    map[int]struct{}
	out     profile.UserProfile
}

// New creates an aggregator for the vocabulary of idx.
func New(idx *catalog.Index, opts Options, logger zerolog.Logger) (*Aggregator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid aggregate options: %w", err)
	}
	width := idx.Vocabulary().Len()
	return &Aggregator{
		idx:    idx,
		opts:   opts,
		logger: logger.With().Str("component", "aggregate").Logger(),
		scale:  math.Pow(10, float64(opts.Precision)),
		avg:    make([]float64, width),
		count:  make([]int, width),
		seen:   make(map[int]struct{}),
		out:    profile.UserProfile{Preferences: make([]float64, width)},
	}, nil
}

// Run consumes src, which must be grouped by user id, and writes one profile per
// user group to sink in encounter order.
//
// Unknown anime, unrated and out-of-range events are skipped and counted. An
// ungrouped source stops the pass with ratings.ErrUngrouped. ctx is checked
// between user groups.
func (a *Aggregator) Run(ctx context.Context, src ratings.Source, sink profile.Sink) (Stats, error) {
	start := time.Now()
	var stats Stats

	err := a.run(ctx, ratings.NewGrouper(src), sink, &stats)
	stats.Duration = time.Since(start)

	metrics.AggregateEventsTotal.WithLabelValues("applied").Add(float64(stats.Applied))
	metrics.AggregateEventsTotal.WithLabelValues("unrated").Add(float64(stats.SkippedUnrated))
	metrics.AggregateEventsTotal.WithLabelValues("unknown_anime").Add(float64(stats.SkippedUnknown))
	metrics.AggregateEventsTotal.WithLabelValues("invalid").Add(float64(stats.SkippedInvalid))
	metrics.RecordAggregateRun(stats.Duration, stats.Users, err)

	if err != nil {
		a.logger.Error().Err(err).
			Int("events", stats.Events).
			Int("users", stats.Users).
			Msg("Aggregation failed")
		return stats, err
	}

	a.logger.Info().
		Int("events", stats.Events).
		Int("users", stats.Users).
		Int("skipped_unrated", stats.SkippedUnrated).
		Int("skipped_unknown", stats.SkippedUnknown).
		Int("skipped_invalid", stats.SkippedInvalid).
		Dur("duration", stats.Duration).
		Msg("Aggregation complete")
	return stats, nil
}

func (a *Aggregator) run(ctx context.Context, g *ratings.Grouper, sink profile.Sink, stats *Stats) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		user, err := g.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		a.reset()
		for {
			ev, ok, err := g.Event()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			stats.Events++
			a.apply(ev, stats)

			if a.opts.ProgressEvery > 0 && stats.Events%a.opts.ProgressEvery == 0 {
				a.logger.Info().
					Int("events", stats.Events).
					Int("users", stats.Users).
					Int("skipped_unrated", stats.SkippedUnrated).
					Int("skipped_unknown", stats.SkippedUnknown).
					Msg("Aggregation progress")
			}
		}

		if err := sink.Write(a.finalize(user)); err != nil {
			return fmt.Errorf("write profile for user %d: %w", user, err)
		}
		stats.Users++
	}
}

func (a *Aggregator) apply(ev ratings.Event, stats *Stats) {
	genres, known := a.idx.Genres(ev.AnimeID)
	switch {
	case !known:
		stats.SkippedUnknown++
		return
	case !ev.Valid():
		stats.SkippedInvalid++
		a.logger.Warn().
			Int("user_id", ev.UserID).
			Int("anime_id", ev.AnimeID).
			Int("rating", ev.Rating).
			Msg("Skipping out-of-range rating")
		return
	case ev.IsUnrated():
		stats.SkippedUnrated++
		if a.opts.WatchedIncludesUnrated {
			a.markWatched(ev.AnimeID)
		}
		return
	}

	stats.Applied++
	a.markWatched(ev.AnimeID)

	r := float64(ev.Rating)
	for _, gi := range genres {
		c := float64(a.count[gi])
		a.avg[gi] = (r + c*a.avg[gi]) / (c + 1)
		a.count[gi]++
	}
}

func (a *Aggregator) markWatched(animeID int) {
	if _, dup := a.seen[animeID]; dup {
		return
	}
	a.seen[animeID] = struct{}{}
	a.watched = append(a.watched, animeID)
}

func (a *Aggregator) reset() {
	clear(a.avg)
	clear(a.count)
	clear(a.seen)
	a.watched = a.watched[:0]
}

// finalize rounds the working vector into the reusable output profile.
func (a *Aggregator) finalize(user int) *profile.UserProfile {
	a.out.UserID = user
	for i, v := range a.avg {
		switch {
		case a.count[i] == 0 && a.opts.Sentinel == SentinelNaN:
			a.out.Preferences[i] = math.NaN()
		case a.count[i] == 0:
			a.out.Preferences[i] = 0
		default:
			a.out.Preferences[i] = math.Round(v*a.scale) / a.scale
		}
	}
	a.out.Watched = a.watched
	return &a.out
}

// Profiles aggregates src into memory. It suits tests and small inputs.
func Profiles(ctx context.Context, src ratings.Source, idx *catalog.Index, opts Options, logger zerolog.Logger) ([]*profile.UserProfile, Stats, error) {
	agg, err := New(idx, opts, logger)
	if err != nil {
		return nil, Stats{}, err
	}
	var c profile.Collector
	stats, err := agg.Run(ctx, src, &c)
	return c.Profiles, stats, err
}
