// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package ratings reads raw (user, anime, rating) events and presents them
// grouped by user to the aggregator.
//
// A Source yields events lazily. Grouper wraps a Source and enforces that every
// user's events are contiguous: a user id that reappears after its group has
// closed stops the stream with ErrUngrouped instead of silently producing a
// second, partial group. Inputs that are not grouped can be passed through
// SortByUser first.
package ratings

import (
	"errors"
	"fmt"
)

// Unrated is the rating value meaning "watched but not scored".
const Unrated = -1

// MaxRating is the highest valid score.
const MaxRating = 10

// Event is one raw rating row.
type Event struct {
	UserID  int
	AnimeID int
	Rating  int
}

// IsUnrated reports whether the event carries the unrated marker.
func (e Event) IsUnrated() bool {
	return e.Rating == Unrated
}

// Valid reports whether the rating is the unrated marker or lies in [0, MaxRating].
func (e Event) Valid() bool {
	return e.Rating == Unrated || (e.Rating >= 0 && e.Rating <= MaxRating)
}

var (
	// ErrUngrouped is returned when events for a user are not contiguous.
	ErrUngrouped = errors.New("ratings: input not grouped by user_id")

	// ErrBadHeader is returned when the source header does not have three columns.
	ErrBadHeader = errors.New("ratings: header must have at least three columns")
)

// RowError describes a malformed rating row. Sources skip such rows.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("ratings row %d: %s", e.Row, e.Reason)
}
