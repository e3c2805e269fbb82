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
	"strings"

	"github.com/rs/zerolog"
)

// CleanStats reports what the catalog cleaner kept and why rows were dropped.
type CleanStats struct {
	Read    int            `json:"read"`
	Kept    int            `json:"kept"`
	Dropped map[string]int `json:"dropped"`
}

// DroppedTotal returns the number of dropped rows across all reasons.
func (s CleanStats) DroppedTotal() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// CleanedHeader is the column set of a cleaned catalog.
var CleanedHeader = []string{"anime_id", "name", "genre", "rating"}

// Clean converts a raw catalog export into the cleaned catalog consumed by LoadCSV.
//
// The raw export carries extra columns (type, episodes, members) which are dropped.
// A row is removed when its id is not all digits, its rating is missing, non-numeric,
// negative or NaN, or its genre field is empty or NaN. Checks run in that order and
// a row is counted once under the first failing reason. Field values of kept rows
// are written unchanged.
func Clean(r io.Reader, w io.Writer, logger zerolog.Logger) (CleanStats, error) {
	logger = logger.With().Str("component", "catalog_clean").Logger()
	stats := CleanStats{Dropped: make(map[string]int)}

	cr := newCSVReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("%w: empty catalog", ErrMissingColumn)
		}
		return stats, fmt.Errorf("read raw catalog header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return stats, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CleanedHeader); err != nil {
		return stats, fmt.Errorf("write cleaned header: %w", err)
	}

	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read raw catalog row %d: %w", row, err)
		}
		stats.Read++

		if reason := rejectReason(fields, cols); reason != "" {
			stats.Dropped[reason]++
			logger.Debug().Int("row", row).Str("reason", reason).Msg("Dropping catalog row")
			continue
		}

		out := []string{
			strings.TrimSpace(fields[cols.id]),
			fields[cols.name],
			fields[cols.genre],
			strings.TrimSpace(fields[cols.rating]),
		}
		if err := cw.Write(out); err != nil {
			return stats, fmt.Errorf("write cleaned row %d: %w", row, err)
		}
		stats.Kept++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return stats, fmt.Errorf("flush cleaned catalog: %w", err)
	}

	logger.Info().
		Int("read", stats.Read).
		Int("kept", stats.Kept).
		Int("dropped", stats.DroppedTotal()).
		Msg("Catalog cleaned")

	return stats, nil
}

func rejectReason(fields []string, cols columns) string {
	if len(fields) < cols.width() {
		return ReasonShortRow
	}
	if !isDigits(strings.TrimSpace(fields[cols.id])) {
		return ReasonBadID
	}
	if _, ok := parseRating(fields[cols.rating]); !ok {
		return ReasonBadRating
	}
	if isNaNToken(fields[cols.genre]) || ParseGenres(fields[cols.genre]) == nil {
		return ReasonNoGenre
	}
	return ""
}
