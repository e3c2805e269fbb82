// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package main is the animerec command line tool.
//
// The batch pipeline turns the raw catalog and rating export into a per-user
// genre preference table; the query commands and the HTTP server answer
// recommendation queries over that table.
//
//	animerec clean                          raw catalog -> cleaned catalog (and -ratings: drop unrated rows)
//	animerec aggregate                      ratings -> profile table (optionally mirrored to DuckDB and badger)
//	animerec export                         profile table -> DuckDB mirror and/or badger index
//	animerec genre -g "Action, Comedy"      find anime carrying every listed genre
//	animerec user -u 42,43 -k 3 -filter     recommend from each user's top genres
//	animerec serve                          HTTP API on server.host:server.port
//
// # Configuration
//
// Settings come from built-in defaults, then a YAML file (-config, $CONFIG_PATH
// or ./animerec.yaml), then environment variables such as CATALOG_PATH,
// PROFILE_PATH, DUCKDB_ENABLED or LOG_LEVEL.
//
// # Exit codes
//
//	0  success (including an empty result)
//	1  runtime failure
//	2  invalid usage
//	3  a genre was ambiguous; the suggestions are printed
//	4  a genre was not found; the vocabulary is printed
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
