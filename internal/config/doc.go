// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package config loads animerec configuration with koanf.

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths that exists
 3. Environment variables listed in envMappings; anything else is ignored

Each component receives only its own section: the aggregator gets
AggregateConfig, the query engine QueryConfig, and so on. There are no
package-level path variables.

# Environment Variables

Data files:
  - CATALOG_PATH: cleaned catalog CSV (default: data/anime_cleaned.csv)
  - RAW_CATALOG_PATH: raw catalog CSV read by "clean" (default: data/anime.csv)
  - RATINGS_PATH: rating CSV (default: data/rating.csv)
  - CLEANED_RATINGS_PATH: rating CSV without unrated rows (default: data/rating_cleaned.csv)
  - PROFILE_PATH: profile table (default: data/ratings_database.tsv)

Aggregation:
  - WATCHED_INCLUDES_UNRATED: list unrated anime as watched (default: true)
  - UNRATED_SENTINEL: value for genres with no ratings, zero or nan (default: zero)
  - AGGREGATE_PRECISION: decimal places kept (default: 2)
  - PROGRESS_EVERY: events between progress logs, 0 disables (default: 100000)
  - RATINGS_PRESORTED: input is grouped by user (default: true)

Queries:
  - FUZZY_CUTOFF, MAX_SUGGESTIONS, MATCH_MODE, DEFAULT_LIMIT
  - QUERY_CACHE_ENABLED, QUERY_CACHE_TTL, QUERY_CACHE_MAX_ENTRIES

Stores:
  - DUCKDB_ENABLED, DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - BADGER_ENABLED, BADGER_PATH, BADGER_IN_MEMORY

Server and logging:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS (comma separated)
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
