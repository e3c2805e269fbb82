// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguous is returned by Result.Err for the Ambiguous state.
	ErrAmbiguous = errors.New("genre has no exact match")

	// ErrGenreNotFound is returned by Result.Err for the NotFound state.
	ErrGenreNotFound = errors.New("genre not found")

	// ErrNoProfiles is returned by FindByUser when the engine has no profile store.
	ErrNoProfiles = errors.New("user queries need a profile store")
)

// UsageError reports an invalid query parameter.
type UsageError struct {
	Param  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// IsUsageError reports whether err is or wraps a *UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
