// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"regexp"
	"strings"
)

// genreSeparator matches a comma followed by optional whitespace.
var genreSeparator = regexp.MustCompile(`,\s*`)

// ParseGenres splits a raw genre field into trimmed genre names.
// Empty tokens are dropped and duplicates within the field collapse to the first
// occurrence. A nil result means the field is malformed (absent or empty).
func ParseGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := genreSeparator.Split(raw, -1)
	genres := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		genres = append(genres, p)
	}

	if len(genres) == 0 {
		return nil
	}
	return genres
}

// Normalize returns the case-insensitive comparison form of a genre name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Vocabulary is the ordered genre list of one catalog snapshot.
// It is not safe for concurrent mutation; after NewIndex returns it is read-only.
type Vocabulary struct {
	names      []string
	index      map[string]int
	normalized map[string][]int
	normOrder  []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		index:      make(map[string]int),
		normalized: make(map[string][]int),
	}
}

// VocabularyOf builds a vocabulary from names in the given order.
// Duplicate names keep their first position.
func VocabularyOf(names ...string) *Vocabulary {
	v := NewVocabulary()
	for _, n := range names {
		v.Add(n)
	}
	return v
}

// Add registers a genre name and returns its index.
// Adding an existing name returns the index assigned at first appearance.
func (v *Vocabulary) Add(name string) int {
	if i, ok := v.index[name]; ok {
		return i
	}
	i := len(v.names)
	v.names = append(v.names, name)
	v.index[name] = i

	norm := Normalize(name)
	if _, ok := v.normalized[norm]; !ok {
		v.normOrder = append(v.normOrder, norm)
	}
	v.normalized[norm] = append(v.normalized[norm], i)
	return i
}

// Len returns the number of genres.
func (v *Vocabulary) Len() int {
	return len(v.names)
}

// Name returns the canonical genre name at index i.
func (v *Vocabulary) Name(i int) string {
	return v.names[i]
}

// Names returns a copy of the genre names in index order.
func (v *Vocabulary) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Index returns the index of an exact (case-sensitive) genre name.
func (v *Vocabulary) Index(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

// Lookup returns every index whose normalized name equals Normalize(name).
// More than one index is returned only when the catalog spells a genre with
// different letter case.
func (v *Vocabulary) Lookup(name string) []int {
	return v.normalized[Normalize(name)]
}

// NormalizedNames returns the distinct normalized names in first-appearance order.
func (v *Vocabulary) NormalizedNames() []string {
	out := make([]string, len(v.normOrder))
	copy(out, v.normOrder)
	return out
}

// Equal reports whether two vocabularies list the same names in the same order.
func (v *Vocabulary) Equal(names []string) bool {
	if len(names) != len(v.names) {
		return false
	}
	for i, n := range names {
		if v.names[i] != n {
			return false
		}
	}
	return true
}
