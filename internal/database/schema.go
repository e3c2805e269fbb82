// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"fmt"
)

// Table names, also used as metric labels.
const (
	tableGenres      = "genres"
	tableUsers       = "users"
	tablePreferences = "user_genre_preferences"
	tableWatched     = "user_watched"
)

// Tables carry no unique constraints: ReplaceProfiles deletes and reinserts the
// same keys inside one transaction, which DuckDB's eager constraint checks reject.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS genres (
		genre_idx INTEGER NOT NULL,
		name      VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGINT NOT NULL,
		rated_genres  INTEGER NOT NULL,
		watched_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_genre_preferences (
		user_id    BIGINT NOT NULL,
		genre_idx  INTEGER NOT NULL,
		preference DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_watched (
		user_id  BIGINT NOT NULL,
		position INTEGER NOT NULL,
		anime_id BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_preferences_genre ON user_genre_preferences(genre_idx)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
