// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names fixed by the table format.
const (
	ColumnUserID  = "user_id"
	ColumnWatched = "animes_rated"
)

// HeaderColumns returns the column header row for a vocabulary.
func HeaderColumns(genres []string) []string {
	cols := make([]string, 0, len(genres)+2)
	cols = append(cols, ColumnUserID)
	cols = append(cols, genres...)
	return append(cols, ColumnWatched)
}

// DefaultPrecision is the number of decimals a preference slot is written with.
const DefaultPrecision = 2

// FormatValue renders a preference slot with prec decimals.
func FormatValue(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatIDList renders ids as a bracketed list: [1, 2, 3].
func FormatIDList(ids []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(id))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseIDList parses a bracketed id list. Quotes around the literal are accepted.
func ParseIDList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("id list %q is not bracketed", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []int{}, nil
	}

	parts := strings.Split(body, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("id list element %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseValue parses a preference slot; valid values are NaN or within [0, 10].
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return v, nil
	}
	if v < 0 || v > 10 || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %v outside [0, 10]", v)
	}
	return v, nil
}
