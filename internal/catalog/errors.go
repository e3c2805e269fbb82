// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when a catalog header lacks a required column.
var ErrMissingColumn = errors.New("catalog: missing required column")

// RowError describes a catalog row that violates the cleaned-catalog contract.
// Loaders skip such rows instead of aborting.
type RowError struct {
	Row    int
	Reason string
	Value  string
}

func (e *RowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("catalog row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("catalog row %d: %s (%q)", e.Row, e.Reason, e.Value)
}

// Drop reasons shared by the loader and the cleaner.
const (
	ReasonBadID       = "non-integer anime_id"
	ReasonBadRating   = "missing or invalid rating"
	ReasonNoGenre     = "empty genre field"
	ReasonShortRow    = "too few columns"
	ReasonDuplicateID = "duplicate anime_id"
)
