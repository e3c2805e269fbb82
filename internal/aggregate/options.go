// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package aggregate

import (
	"fmt"
	"time"
)

// Sentinel selects the value emitted for genre slots with no observations.
type Sentinel string

const (
	// SentinelZero emits 0.0 for unobserved slots.
	SentinelZero Sentinel = "zero"

	// SentinelNaN emits NaN for unobserved slots.
	SentinelNaN Sentinel = "nan"
)

// Options controls aggregation behavior.
type Options struct {
	// WatchedIncludesUnrated adds anime from -1 events to the watched list.
	// Default: true
	WatchedIncludesUnrated bool

	// Sentinel is the value for genres the user never rated.
	// Default: SentinelZero
	Sentinel Sentinel

	// Precision is the number of decimal digits kept at finalize.
	// Default: 2
	Precision int

	// ProgressEvery logs a progress line every N events. Zero disables progress logs.
	// Default: 100000
	ProgressEvery int
}

// DefaultOptions returns the default aggregation options.
func DefaultOptions() Options {
	return Options{
		WatchedIncludesUnrated: true,
		Sentinel:               SentinelZero,
		Precision:              2,
		ProgressEvery:          100000,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	switch o.Sentinel {
	case SentinelZero, SentinelNaN:
	default:
		return fmt.Errorf("unrated sentinel must be %q or %q, got %q", SentinelZero, SentinelNaN, o.Sentinel)
	}
	if o.Precision < 0 || o.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6, got %d", o.Precision)
	}
	if o.ProgressEvery < 0 {
		return fmt.Errorf("progress interval must not be negative, got %d", o.ProgressEvery)
	}
	return nil
}

// Stats summarizes one aggregation pass.
type Stats struct {
	// Events is every event read from the source.
	Events int `json:"events"`

	// Applied counts rated events folded into the genre averages.
	Applied int `json:"applied"`

	// Users is the number of profiles emitted.
	Users int `json:"users"`

	SkippedUnrated int `json:"skipped_unrated"`
	SkippedUnknown int `json:"skipped_unknown"`
	SkippedInvalid int `json:"skipped_invalid"`

	Duration time.Duration `json:"duration"`
}
