// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"strconv"
	"strings"

	"github.com/tomtom215/animerec/internal/catalog"
)

// ParseGenreList splits each input on commas and returns the trimmed tokens in order.
// Repeated tokens (compared case-insensitively) are kept once.
func ParseGenreList(inputs ...string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, in := range inputs {
		for _, g := range catalog.ParseGenres(in) {
			norm := catalog.Normalize(g)
			if _, dup := seen[norm]; dup {
				continue
			}
			seen[norm] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// ParseUserIDs parses a list of user ids separated by commas or whitespace.
func ParseUserIDs(inputs ...string) ([]int, error) {
	var ids []int
	for _, in := range inputs {
		fields := strings.FieldsFunc(in, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		for _, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, &UsageError{Param: "users", Reason: "user id " + strconv.Quote(f) + " is not an integer"}
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, &UsageError{Param: "users", Reason: "at least one user id is required"}
	}
	return ids, nil
}
