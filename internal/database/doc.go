// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package database mirrors the user profile table into DuckDB for reporting.

The tab-delimited profile table stays the system of record. After each
aggregation run the CLI can replace the mirror's contents so that SQL tools
(and the correlation and plotting layer downstream) read the same data in a
columnar store.

# Schema

	genres                  (genre_idx, name)
	users                   (user_id, rated_genres, watched_count)
	user_genre_preferences  (user_id, genre_idx, preference)     -- preference > 0 only
	user_watched            (user_id, position, anime_id)

user_genre_preferences is the long form of the table's genre columns. Unrated
slots (0 or NaN) are not stored, so per-genre aggregates only count users who
rated that genre.

# Usage

	db, err := database.New(&cfg.Database, logging.WithComponent("database"))
	if err != nil {
	    return err
	}
	defer db.Close()

	stats, err := db.ReplaceProfiles(ctx, table.Genres, table.Profiles())
	summary, err := db.GenreSummary(ctx)

Tests open the database at ":memory:".
*/
package database
