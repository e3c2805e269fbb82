// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// LoadStats summarizes a catalog load.
type LoadStats struct {
	Rows    int
	Loaded  int
	Skipped int
}

// columns holds header positions of the fields the loader needs.
type columns struct {
	id, name, genre, rating int
}

func (c columns) width() int {
	return max(c.id, c.name, c.genre, c.rating) + 1
}

func locateColumns(header []string) (columns, error) {
	c := columns{id: -1, name: -1, genre: -1, rating: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "anime_id":
			c.id = i
		case "name":
			c.name = i
		case "genre":
			c.genre = i
		case "rating":
			c.rating = i
		}
	}

	var missing []string
	if c.id < 0 {
		missing = append(missing, "anime_id")
	}
	if c.name < 0 {
		missing = append(missing, "name")
	}
	if c.genre < 0 {
		missing = append(missing, "genre")
	}
	if c.rating < 0 {
		missing = append(missing, "rating")
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return c, nil
}

// newCSVReader returns a reader tolerant of ragged rows; row width is checked per row.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	return cr
}

// LoadCSV reads a cleaned catalog (anime_id,name,genre,rating) into records.
//
// Rows that violate the cleaning contract are skipped and logged at warn level.
// Only I/O errors, CSV syntax errors and a missing header column abort the load.
func LoadCSV(r io.Reader, logger zerolog.Logger) ([]Anime, LoadStats, error) {
	logger = logger.With().Str("component", "catalog").Logger()
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, LoadStats{}, fmt.Errorf("%w: empty catalog", ErrMissingColumn)
		}
		return nil, LoadStats{}, fmt.Errorf("read catalog header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, LoadStats{}, err
	}

	var (
		stats   LoadStats
		records []Anime
		seen    = make(map[int]struct{})
	)

	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, stats, fmt.Errorf("read catalog row %d: %w", row, err)
		}
		stats.Rows++

		rec, rowErr := parseRow(row, fields, cols)
		if rowErr == nil {
			if _, dup := seen[rec.ID]; dup {
				rowErr = &RowError{Row: row, Reason: ReasonDuplicateID, Value: strconv.Itoa(rec.ID)}
			}
		}
		if rowErr != nil {
			stats.Skipped++
			logger.Warn().Int("row", rowErr.Row).Str("reason", rowErr.Reason).Msg("Skipping catalog row")
			continue
		}

		seen[rec.ID] = struct{}{}
		records = append(records, rec)
		stats.Loaded++
	}

	logger.Info().
		Int("rows", stats.Rows).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Msg("Catalog loaded")

	return records, stats, nil
}

func parseRow(row int, fields []string, cols columns) (Anime, *RowError) {
	if len(fields) < cols.width() {
		return Anime{}, &RowError{Row: row, Reason: ReasonShortRow}
	}

	rawID := strings.TrimSpace(fields[cols.id])
	if !isDigits(rawID) {
		return Anime{}, &RowError{Row: row, Reason: ReasonBadID, Value: rawID}
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return Anime{}, &RowError{Row: row, Reason: ReasonBadID, Value: rawID}
	}

	rating, ok := parseRating(fields[cols.rating])
	if !ok {
		return Anime{}, &RowError{Row: row, Reason: ReasonBadRating, Value: fields[cols.rating]}
	}

	genres := ParseGenres(fields[cols.genre])
	if genres == nil || isNaNToken(fields[cols.genre]) {
		return Anime{}, &RowError{Row: row, Reason: ReasonNoGenre}
	}

	return Anime{
		ID:        id,
		Name:      fields[cols.name],
		Genres:    genres,
		Rating:    rating,
		HasRating: true,
	}, nil
}

// parseRating accepts a finite, non-negative decimal.
func parseRating(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isNaNToken(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "nan")
}
