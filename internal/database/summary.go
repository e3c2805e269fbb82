// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/animerec/internal/database/query"
	"github.com/tomtom215/animerec/internal/metrics"
)

// GenreStat summarizes one genre across all users who rated it.
type GenreStat struct {
	Genre          string  `json:"genre"`
	Users          int     `json:"users"`
	MeanPreference float64 `json:"mean_preference"`
	MaxPreference  float64 `json:"max_preference"`
}

// GenreSummary returns one row per genre in vocabulary order. Genres nobody
// rated report zero users and zero preference.
func (db *DB) GenreSummary(ctx context.Context) (out []GenreStat, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("summary", tablePreferences, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT g.name,
		       COUNT(p.user_id)             AS users,
		       COALESCE(AVG(p.preference), 0) AS mean_preference,
		       COALESCE(MAX(p.preference), 0) AS max_preference
		FROM genres g
		LEFT JOIN user_genre_preferences p ON p.genre_idx = g.genre_idx
		GROUP BY g.genre_idx, g.name
		ORDER BY g.genre_idx`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre summary: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var s GenreStat
		if err := rows.Scan(&s.Genre, &s.Users, &s.MeanPreference, &s.MaxPreference); err != nil {
			return nil, fmt.Errorf("failed to scan genre summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genre summary: %w", err)
	}
	return out, nil
}

// ProfileCount returns the number of mirrored users.
func (db *DB) ProfileCount(ctx context.Context) (n int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", tableUsers, time.Since(start), err) }()

	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return n, nil
}

// TopUsers returns up to n users with the highest preference for genre, best first.
func (db *DB) TopUsers(ctx context.Context, genre string, n int) (ids []int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("top_users", tablePreferences, time.Since(start), err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.user_id
		FROM user_genre_preferences p
		JOIN genres g ON g.genre_idx = p.genre_idx
		WHERE g.name = ?
		ORDER BY p.preference DESC, p.user_id
		LIMIT ?`, genre, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top users: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PreferenceFilter narrows Preferences. Zero values match everything.
type PreferenceFilter struct {
	Genres        []string `json:"genres,omitempty"`
	Users         []int    `json:"users,omitempty"`
	MinPreference float64  `json:"min_preference,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// PreferenceRow is one (user, genre, preference) triple in long format.
type PreferenceRow struct {
	UserID     int     `json:"user_id"`
	Genre      string  `json:"genre"`
	Preference float64 `json:"preference"`
}

// Preferences returns stored preference rows matching f, ordered by user id
// then vocabulary position.
func (db *DB) Preferences(ctx context.Context, f PreferenceFilter) (out []PreferenceRow, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordDBQuery("preferences", tablePreferences, time.Since(start), err) }()

	wb := query.NewWhereBuilder()
	query.In(wb, "g.name", f.Genres)
	query.In(wb, "p.user_id", f.Users)
	if f.MinPreference > 0 {
		wb.AtLeast("p.preference", f.MinPreference)
	}
	where, args := wb.BuildWithPrefix()

	stmt := `
		SELECT p.user_id, g.name, p.preference
		FROM user_genre_preferences p
		JOIN genres g ON g.genre_idx = p.genre_idx
		` + where + `
		ORDER BY p.user_id, p.genre_idx`
	if f.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var r PreferenceRow
		if err := rows.Scan(&r.UserID, &r.Genre, &r.Preference); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
