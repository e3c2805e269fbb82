// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"slices"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/catalog"
)

func TestFindByGenre(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      GenreQuery
		wantState  State
		wantIDs    []int
		wantGenres []string
		wantTotal  int
	}{
		{
			name:       "single genre ranked by rating",
			query:      GenreQuery{Genres: []string{"Action"}},
			wantState:  StateFound,
			wantIDs:    []int{3, 5, 1, 8, 6},
			wantGenres: []string{"Action"},
			wantTotal:  5,
		},
		{
			name:       "comma separated superset",
			query:      GenreQuery{Genres: []string{"action, comedy"}},
			wantState:  StateFound,
			wantIDs:    []int{1, 6},
			wantGenres: []string{"Action", "Comedy"},
			wantTotal:  2,
		},
		{
			name:       "case insensitive",
			query:      GenreQuery{Genres: []string{"SCI-FI"}},
			wantState:  StateFound,
			wantIDs:    []int{8},
			wantGenres: []string{"Sci-Fi"},
			wantTotal:  1,
		},
		{
			name:       "exact mode",
			query:      GenreQuery{Genres: []string{"Action"}, Mode: MatchExact},
			wantState:  StateFound,
			wantIDs:    []int{5},
			wantGenres: []string{"Action"},
			wantTotal:  1,
		},
		{
			name:       "limit keeps top by rating",
			query:      GenreQuery{Genres: []string{"Action"}, Limit: 2},
			wantState:  StateFound,
			wantIDs:    []int{3, 5},
			wantGenres: []string{"Action"},
			wantTotal:  5,
		},
		{
			name:       "no anime carries both",
			query:      GenreQuery{Genres: []string{"Drama", "Slice of Life"}},
			wantState:  StateEmpty,
			wantIDs:    []int{},
			wantGenres: []string{"Drama", "Slice of Life"},
			wantTotal:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, nil)
			res, err := e.FindByGenre(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("FindByGenre() error = %v", err)
			}
			if res.State != tt.wantState {
				t.Errorf("State = %s, want %s", res.State, tt.wantState)
			}
			if !slices.Equal(res.IDs(), tt.wantIDs) {
				t.Errorf("IDs = %v, want %v", res.IDs(), tt.wantIDs)
			}
			if !slices.Equal(res.Genres, tt.wantGenres) {
				t.Errorf("Genres = %v, want %v", res.Genres, tt.wantGenres)
			}
			if res.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", res.Total, tt.wantTotal)
			}
			if res.Mode != "genre" {
				t.Errorf("Mode = %q", res.Mode)
			}
		})
	}
}

// TestFindByGenre_SupersetOnly checks the two-anime catalog example.
func TestFindByGenre_SupersetOnly(t *testing.T) {
	t.Parallel()

	idx := catalog.NewIndex([]catalog.Anime{
		{ID: 1, Name: "A", Genres: []string{"Action", "Comedy"}, Rating: 7.5, HasRating: true},
		{ID: 2, Name: "B", Genres: []string{"Comedy"}, Rating: 9.0, HasRating: true},
	}, zerolog.Nop())
	e, err := NewEngine(idx, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.FindByGenre(context.Background(), GenreQuery{Genres: []string{"Action"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != StateFound || !slices.Equal(res.IDs(), []int{1}) {
		t.Errorf("got %s %v, want found [1]", res.State, res.IDs())
	}
}

func TestFindByGenre_Misspelled(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	res, err := e.FindByGenre(context.Background(), GenreQuery{Genres: []string{"Actoin"}})
	if err != nil {
		t.Fatal(err)
	}

	if res.State != StateAmbiguous {
		t.Fatalf("State = %s, want ambiguous", res.State)
	}
	if len(res.Suggestions) != 1 {
		t.Fatalf("Suggestions = %+v", res.Suggestions)
	}
	s := res.Suggestions[0]
	if s.Token != "Actoin" || !slices.Equal(s.Candidates, []string{"Action"}) {
		t.Errorf("suggestion = %+v, want Action as sole candidate", s)
	}
	if len(res.Anime) != 0 || res.Vocabulary != nil {
		t.Error("ambiguous query must not run or attach the vocabulary")
	}
}

func TestFindByGenre_NotFound(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)

	t.Run("single token", func(t *testing.T) {
		t.Parallel()
		res, err := e.FindByGenre(context.Background(), GenreQuery{Genres: []string{"xyzzy"}})
		if err != nil {
			t.Fatal(err)
		}
		if res.State != StateNotFound {
			t.Fatalf("State = %s, want not_found", res.State)
		}
		if !slices.Equal(res.Unmatched, []string{"xyzzy"}) {
			t.Errorf("Unmatched = %v", res.Unmatched)
		}
		if !slices.Equal(res.Vocabulary, []string{"Action", "Comedy", "Drama", "Slice of Life", "Sci-Fi"}) {
			t.Errorf("Vocabulary = %v", res.Vocabulary)
		}
	})

	t.Run("not found dominates ambiguous", func(t *testing.T) {
		t.Parallel()
		res, err := e.FindByGenre(context.Background(), GenreQuery{Genres: []string{"actoin", "xyzzy"}})
		if err != nil {
			t.Fatal(err)
		}
		if res.State != StateNotFound {
			t.Fatalf("State = %s, want not_found", res.State)
		}
		if len(res.Suggestions) != 1 || res.Suggestions[0].Token != "actoin" {
			t.Errorf("Suggestions = %+v, fuzzy tokens should still be reported", res.Suggestions)
		}
	})
}

func TestFindByGenre_UsageErrors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	tests := []struct {
		name  string
		query GenreQuery
	}{
		{"no genres", GenreQuery{}},
		{"blank genres", GenreQuery{Genres: []string{" , "}}},
		{"bad mode", GenreQuery{Genres: []string{"Action"}, Mode: "partial"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := e.FindByGenre(context.Background(), tt.query)
			if !IsUsageError(err) {
				t.Errorf("error = %v, want *UsageError", err)
			}
		})
	}
}

func TestFindByGenre_CaseVariants(t *testing.T) {
	t.Parallel()

	idx := catalog.NewIndex([]catalog.Anime{
		{ID: 1, Name: "A", Genres: []string{"Action"}, Rating: 5, HasRating: true},
		{ID: 2, Name: "B", Genres: []string{"action"}, Rating: 6, HasRating: true},
	}, zerolog.Nop())
	e, err := NewEngine(idx, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.FindByGenre(context.Background(), GenreQuery{Genres: []string{"ACTION"}})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.IDs(), []int{2, 1}) {
		t.Errorf("IDs = %v, both spellings should match", res.IDs())
	}
	if !slices.Equal(res.Genres, []string{"Action", "action"}) {
		t.Errorf("Genres = %v", res.Genres)
	}
}

func TestFindByGenre_Cancelled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	e := newTestEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.FindByGenre(ctx, GenreQuery{Genres: []string{"Action"}}); err == nil {
		t.Error("expected context error")
	}
}
