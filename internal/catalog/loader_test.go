// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"anime_id,name,genre,rating",
		`32281,Kimi no Na wa.,"Drama, Romance, School, Supernatural",9.37`,
		`5114,Fullmetal Alchemist: Brotherhood,"Action, Adventure, Drama",9.26`,
		`abc,Broken id,Action,5.0`,
		`10,No rating,Action,`,
		`11,Negative,Action,-1`,
		`12,No genre,,7.0`,
		`13,NaN genre,nan,7.0`,
		`5114,Duplicate,Comedy,1.0`,
	}, "\n")

	var logs bytes.Buffer
	records, stats, err := LoadCSV(strings.NewReader(input), zerolog.New(&logs))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	if stats.Rows != 8 || stats.Loaded != 2 || stats.Skipped != 6 {
		t.Errorf("stats = %+v, want rows=8 loaded=2 skipped=6", stats)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	first := records[0]
	if first.ID != 32281 || first.Name != "Kimi no Na wa." || first.Rating != 9.37 || !first.HasRating {
		t.Errorf("records[0] = %+v", first)
	}
	if want := []string{"Drama", "Romance", "School", "Supernatural"}; !slices.Equal(first.Genres, want) {
		t.Errorf("records[0].Genres = %q, want %q", first.Genres, want)
	}

	if n := strings.Count(logs.String(), "Skipping catalog row"); n != 6 {
		t.Errorf("logged %d skipped rows, want 6", n)
	}
	if !strings.Contains(logs.String(), ReasonDuplicateID) {
		t.Error("duplicate id reason not logged")
	}
}

func TestLoadCSV_ColumnOrder(t *testing.T) {
	t.Parallel()

	input := "rating,genre,anime_id,name\n8.5,Mecha,7,Robots\n"
	records, _, err := LoadCSV(strings.NewReader(input), zerolog.Nop())
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != 7 || records[0].Rating != 8.5 {
		t.Errorf("records = %+v", records)
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"no rating column", "anime_id,name,genre\n1,A,Action\n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := LoadCSV(strings.NewReader(tt.input), zerolog.Nop())
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("error = %v, want ErrMissingColumn", err)
			}
		})
	}
}

func TestRowError(t *testing.T) {
	t.Parallel()

	err := &RowError{Row: 4, Reason: ReasonBadID, Value: "x1"}
	if got := err.Error(); got != `catalog row 4: non-integer anime_id ("x1")` {
		t.Errorf("Error() = %q", got)
	}

	var target *RowError
	if !errors.As(error(err), &target) || target.Row != 4 {
		t.Error("errors.As failed for *RowError")
	}
}
