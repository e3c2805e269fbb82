// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/animerec/internal/catalog"
)

// State is the terminal state of a query.
type State int

const (
	// StatePending is the state before genre resolution. Results never carry it.
	StatePending State = iota
	// StateResolved means every token resolved. Results never carry it.
	StateResolved
	// StateFound means at least one anime matched.
	StateFound
	// StateEmpty means the query resolved but nothing matched.
	StateEmpty
	// StateAmbiguous means some token has only fuzzy candidates.
	StateAmbiguous
	// StateNotFound means some token matched nothing, not even approximately.
	StateNotFound
)

// String returns the state name used in logs, metrics and the API.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	case StateFound:
		return "found"
	case StateEmpty:
		return "empty"
	case StateAmbiguous:
		return "ambiguous"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the state ends a query.
func (s State) Terminal() bool {
	return s >= StateFound
}

// Success reports whether the query ran (Found or Empty).
func (s State) Success() bool {
	return s == StateFound || s == StateEmpty
}

// MatchMode selects how requested genres are compared with an anime's genres.
type MatchMode string

const (
	// MatchSuperset selects anime whose genres contain every requested genre.
	MatchSuperset MatchMode = "superset"

	// MatchExact selects anime whose genres are exactly the requested set.
	MatchExact MatchMode = "exact"
)

// ParseMatchMode parses a mode name. The empty string selects MatchSuperset.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchSuperset:
		return MatchSuperset, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", &UsageError{Param: "mode", Reason: fmt.Sprintf("must be %q or %q, got %q", MatchSuperset, MatchExact, s)}
	}
}

// GenreQuery is a find-by-genre request.
type GenreQuery struct {
	// Genres holds the requested genre tokens. Tokens may themselves be comma separated.
	Genres []string `json:"genres"`

	// Mode selects superset or exact matching. Empty uses the engine default.
	Mode MatchMode `json:"mode,omitempty"`

	// Limit truncates the result. Negative means all; zero uses the engine default.
	Limit int `json:"limit"`
}

// UserQuery is a find-by-user request.
type UserQuery struct {
	UserIDs []int `json:"users"`

	// GenresToConsider bounds how many of each user's top genres are used.
	// Must be within [1, vocabulary size].
	GenresToConsider int `json:"genres_to_consider"`

	// FilterWatched drops anime the user has already watched.
	FilterWatched bool `json:"filter_watched"`

	// Limit truncates the merged result. Negative means all; zero uses the engine default.
	Limit int `json:"limit"`
}

// Recommendation is one ranked anime.
type Recommendation struct {
	catalog.Anime

	// Similarity is the watched-history overlap score in user mode.
	Similarity int `json:"similarity,omitempty"`
}

// Suggestion lists close vocabulary matches for an unresolved token.
type Suggestion struct {
	Token      string   `json:"token"`
	Candidates []string `json:"candidates"`
}

// Result is the outcome of a query.
type Result struct {
	RequestID string `json:"request_id"`
	Mode      string `json:"mode"`
	State     State  `json:"state"`

	// Genres is the resolved genre set actually used, in canonical spelling.
	Genres []string `json:"genres"`

	// Anime is the ranked, truncated result list.
	Anime []Recommendation `json:"anime"`

	// Total is the number of matches before truncation.
	Total int `json:"total"`

	// Suggestions is set in the Ambiguous state (and for fuzzy tokens in NotFound).
	Suggestions []Suggestion `json:"suggestions,omitempty"`

	// Unmatched lists tokens with no candidates in the NotFound state.
	Unmatched []string `json:"unmatched,omitempty"`

	// Vocabulary is the full genre list, attached in the NotFound state.
	Vocabulary []string `json:"vocabulary,omitempty"`

	// Users and UnknownUsers split the requested ids in user mode.
	Users        []int `json:"users,omitempty"`
	UnknownUsers []int `json:"unknown_users,omitempty"`

	CacheHit bool          `json:"cache_hit"`
	Latency  time.Duration `json:"latency_ns"`
}

// Err converts the Ambiguous and NotFound states to errors. It returns nil otherwise.
func (r *Result) Err() error {
	switch r.State {
	case StateAmbiguous:
		tokens := make([]string, len(r.Suggestions))
		for i, s := range r.Suggestions {
			tokens[i] = s.Token
		}
		return fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(tokens, ", "))
	case StateNotFound:
		return fmt.Errorf("%w: %s", ErrGenreNotFound, strings.Join(r.Unmatched, ", "))
	default:
		return nil
	}
}

// IDs returns the anime ids of the result in rank order.
func (r *Result) IDs() []int {
	ids := make([]int, len(r.Anime))
	for i, a := range r.Anime {
		ids[i] = a.ID
	}
	return ids
}
