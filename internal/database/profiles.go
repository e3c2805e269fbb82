// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/animerec/internal/metrics"
	"github.com/tomtom215/animerec/internal/profile"
)

// ReplaceStats counts the rows written by ReplaceProfiles.
type ReplaceStats struct {
	Genres      int
	Users       int
	Preferences int
	Watched     int
	Duration    time.Duration
}

// ReplaceProfiles replaces the mirror's contents with the given profiles in one
// transaction. Readers see either the previous snapshot or the new one.
func (db *DB) ReplaceProfiles(ctx context.Context, genres []string, profiles []*profile.UserProfile) (stats ReplaceStats, err error) {
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		metrics.RecordDBQuery("replace", tableUsers, stats.Duration, err)
	}()

	for _, p := range profiles {
		if len(p.Preferences) != len(genres) {
			return stats, fmt.Errorf("%w: user %d has %d genre slots, want %d",
				profile.ErrSchemaMismatch, p.UserID, len(p.Preferences), len(genres))
		}
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	for _, table := range []string{tableWatched, tablePreferences, tableUsers, tableGenres} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return stats, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if stats.Genres, err = insertGenres(ctx, tx, genres); err != nil {
		return stats, err
	}
	if err = db.insertProfiles(ctx, tx, profiles, &stats); err != nil {
		return stats, err
	}

	if err = tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Info().
		Int("users", stats.Users).
		Int("preferences", stats.Preferences).
		Int("watched", stats.Watched).
		Dur("duration", time.Since(start)).
		Msg("Profile mirror replaced")
	return stats, nil
}

func insertGenres(ctx context.Context, tx *sql.Tx, genres []string) (int, error) {
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO genres (genre_idx, name) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i, name := range genres {
		if _, err := stmt.ExecContext(ctx, i, name); err != nil {
			return i, fmt.Errorf("failed to insert genre %q: %w", name, err)
		}
	}
	return len(genres), nil
}

func (db *DB) insertProfiles(ctx context.Context, tx *sql.Tx, profiles []*profile.UserProfile, stats *ReplaceStats) error {
	userStmt, err := tx.PrepareContext(ctx, "INSERT INTO users (user_id, rated_genres, watched_count) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare user insert: %w", err)
	}
	defer closeQuietly(userStmt)

	prefStmt, err := tx.PrepareContext(ctx, "INSERT INTO user_genre_preferences (user_id, genre_idx, preference) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare preference insert: %w", err)
	}
	defer closeQuietly(prefStmt)

	watchedStmt, err := tx.PrepareContext(ctx, "INSERT INTO user_watched (user_id, position, anime_id) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare watched insert: %w", err)
	}
	defer closeQuietly(watchedStmt)

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		rated := 0
		for gi, v := range p.Preferences {
			if math.IsNaN(v) || v <= 0 {
				continue
			}
			if _, err := prefStmt.ExecContext(ctx, p.UserID, gi, v); err != nil {
				return fmt.Errorf("failed to insert preference for user %d: %w", p.UserID, err)
			}
			rated++
		}
		for pos, animeID := range p.Watched {
			if _, err := watchedStmt.ExecContext(ctx, p.UserID, pos, animeID); err != nil {
				return fmt.Errorf("failed to insert watched anime for user %d: %w", p.UserID, err)
			}
		}
		if _, err := userStmt.ExecContext(ctx, p.UserID, rated, len(p.Watched)); err != nil {
			return fmt.Errorf("failed to insert user %d: %w", p.UserID, err)
		}

		stats.Users++
		stats.Preferences += rated
		stats.Watched += len(p.Watched)
	}
	return nil
}
