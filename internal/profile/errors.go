// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import "errors"

var (
	// ErrSchemaMismatch is returned when a table header does not match the vocabulary.
	ErrSchemaMismatch = errors.New("profile: table schema does not match vocabulary")

	// ErrWrongWidth is returned by Writer when a profile has the wrong number of slots.
	ErrWrongWidth = errors.New("profile: preference vector length does not match vocabulary")

	// ErrDuplicateUser is returned by Writer when a user id is written twice.
	ErrDuplicateUser = errors.New("profile: duplicate user_id")

	// ErrClosed is returned when writing to a committed or aborted Writer.
	ErrClosed = errors.New("profile: writer closed")
)
