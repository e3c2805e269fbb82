// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/recommend"
)

func runGenre(ctx context.Context, a *app, args []string) (int, error) {
	fs := a.newFlagSet("genre")
	genres := fs.String("g", "", `comma separated genres, e.g. "Action, Comedy"`)
	limit := fs.Int("n", 0, "maximum results; 0 uses query.default_limit, negative means all")
	exact := fs.Bool("exact", false, "require the anime's genres to equal the requested set")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := parseFlags(fs, args); err != nil {
		return exitUsage, err
	}
	if *genres == "" {
		return exitUsage, fmt.Errorf("%w: -g is required", errUsage)
	}

	engine, release, err := a.newEngine(ctx, false)
	if err != nil {
		return exitFailure, err
	}
	defer release()

	q := recommend.GenreQuery{Genres: recommend.ParseGenreList(*genres), Limit: *limit}
	if *exact {
		q.Mode = recommend.MatchExact
	}

	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	res, err := engine.FindByGenre(ctx, q)
	if err != nil {
		return a.queryError(err)
	}
	return a.printResult(res, *asJSON)
}

func runUser(ctx context.Context, a *app, args []string) (int, error) {
	fs := a.newFlagSet("user")
	users := fs.String("u", "", "comma separated user ids, e.g. 42,43")
	k := fs.Int("k", 1, "number of each user's top genres to consider")
	filter := fs.Bool("filter", false, "drop anime the user has already watched")
	limit := fs.Int("n", 0, "maximum results; 0 uses query.default_limit, negative means all")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := parseFlags(fs, args); err != nil {
		return exitUsage, err
	}

	ids, err := recommend.ParseUserIDs(*users)
	if err != nil {
		return exitUsage, fmt.Errorf("%w: %v", errUsage, err)
	}

	engine, release, err := a.newEngine(ctx, true)
	if err != nil {
		return exitFailure, err
	}
	defer release()

	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	res, err := engine.FindByUser(ctx, recommend.UserQuery{
		UserIDs:          ids,
		GenresToConsider: *k,
		FilterWatched:    *filter,
		Limit:            *limit,
	})
	if err != nil {
		return a.queryError(err)
	}
	return a.printResult(res, *asJSON)
}

func (a *app) queryError(err error) (int, error) {
	if recommend.IsUsageError(err) {
		return exitUsage, fmt.Errorf("%w: %v", errUsage, err)
	}
	return exitFailure, err
}

// printResult writes res to stdout and maps its state to an exit code.
func (a *app) printResult(res *recommend.Result, asJSON bool) (int, error) {
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return exitFailure, fmt.Errorf("encode result: %w", err)
		}
	} else if err := recommend.Render(a.stdout, res); err != nil {
		return exitFailure, fmt.Errorf("render result: %w", err)
	}

	switch res.State {
	case recommend.StateAmbiguous:
		return exitAmbiguous, nil
	case recommend.StateNotFound:
		return exitNotFound, nil
	default:
		return exitOK, nil
	}
}
