// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

type scoredMatch struct {
	score float64
	name  string
}

// runes splits s into one sequence element per character.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// CloseMatches returns up to n possibilities whose similarity ratio with word is at
// least cutoff, best first. Ties on score are broken by name in descending order.
func CloseMatches(word string, possibilities []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}

	wordSeq := runes(word)
	var matches []scoredMatch
	for _, p := range possibilities {
		m := difflib.NewMatcher(runes(p), wordSeq)
		// Cheap upper bounds first.
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			matches = append(matches, scoredMatch{score: r, name: p})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].name > matches[j].name
	})
	if len(matches) > n {
		matches = matches[:n]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
