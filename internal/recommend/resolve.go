// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"github.com/tomtom215/animerec/internal/catalog"
)

// resolution is the outcome of matching query tokens against the vocabulary.
type resolution struct {
	state State

	// tokens[i] holds the vocabulary indices token i resolved to. More than one
	// index means the catalog spells the genre with different letter case.
	tokens [][]int

	genres      []string
	suggestions []Suggestion
	unmatched   []string
}

// resolveGenres matches each token case-insensitively, falling back to fuzzy
// suggestions. Any token without candidates makes the whole query NotFound;
// otherwise any token with only candidates makes it Ambiguous.
func (e *Engine) resolveGenres(tokens []string) resolution {
	vocab := e.idx.Vocabulary()
	res := resolution{state: StatePending}

	for _, tok := range tokens {
		norm := catalog.Normalize(tok)
		if hits := vocab.Lookup(norm); len(hits) > 0 {
			res.tokens = append(res.tokens, hits)
			continue
		}

		near := CloseMatches(norm, e.normalized, e.config.MaxSuggestions, e.config.FuzzyCutoff)
		if len(near) == 0 {
			res.unmatched = append(res.unmatched, tok)
			continue
		}
		res.suggestions = append(res.suggestions, Suggestion{
			Token:      tok,
			Candidates: e.canonical(near),
		})
	}

	switch {
	case len(res.unmatched) > 0:
		res.state = StateNotFound
	case len(res.suggestions) > 0:
		res.state = StateAmbiguous
	default:
		res.state = StateResolved
		seen := make(map[int]struct{})
		for _, hits := range res.tokens {
			for _, gi := range hits {
				if _, dup := seen[gi]; dup {
					continue
				}
				seen[gi] = struct{}{}
				res.genres = append(res.genres, vocab.Name(gi))
			}
		}
	}
	return res
}

// canonical maps normalized names back to their catalog spellings.
func (e *Engine) canonical(normalized []string) []string {
	vocab := e.idx.Vocabulary()
	out := make([]string, 0, len(normalized))
	for _, n := range normalized {
		for _, gi := range vocab.Lookup(n) {
			out = append(out, vocab.Name(gi))
		}
	}
	return out
}

// matchesAll reports whether the entry carries at least one index of every token.
func matchesAll(entry *catalog.Entry, tokens [][]int) bool {
	for _, hits := range tokens {
		if !carriesAny(entry.GenreIdx, hits) {
			return false
		}
	}
	return true
}

// matchesExactly reports whether the entry's genres are exactly the token set.
func matchesExactly(entry *catalog.Entry, tokens [][]int) bool {
	if !matchesAll(entry, tokens) {
		return false
	}
	for _, gi := range entry.GenreIdx {
		covered := false
		for _, hits := range tokens {
			if carriesAny([]int{gi}, hits) {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}

func carriesAny(genres, wanted []int) bool {
	for _, g := range genres {
		for _, w := range wanted {
			if g == w {
				return true
			}
		}
	}
	return false
}
