// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		run      func() (*Result, error)
		contains []string
		absent   []string
	}{
		{
			name: "found",
			run: func() (*Result, error) {
				return e.FindByGenre(ctx, GenreQuery{Genres: []string{"Action"}, Limit: 2})
			},
			contains: []string{"Genres: Action", "anime_id", "name", "rating", "genre", "8.10", "Action, Drama", "2 of 5 result(s)"},
		},
		{
			name: "unrated shows dash",
			run: func() (*Result, error) {
				return e.FindByGenre(ctx, GenreQuery{Genres: []string{"Action, Comedy"}})
			},
			contains: []string{"7.50", "6 ", "-"},
		},
		{
			name: "ambiguous",
			run: func() (*Result, error) {
				return e.FindByGenre(ctx, GenreQuery{Genres: []string{"Actoin"}})
			},
			contains: []string{`Genre "Actoin" not found. Did you mean: Action?`, "resubmit"},
			absent:   []string{"Available genres"},
		},
		{
			name: "not found",
			run: func() (*Result, error) {
				return e.FindByGenre(ctx, GenreQuery{Genres: []string{"xyzzy"}})
			},
			contains: []string{`Genre "xyzzy" not found.`, "Available genres:", "  Slice of Life"},
		},
		{
			name: "empty genre",
			run: func() (*Result, error) {
				return e.FindByGenre(ctx, GenreQuery{Genres: []string{"Drama, Slice of Life"}})
			},
			contains: []string{"No anime found with genres: Drama, Slice of Life."},
		},
		{
			name: "unknown user",
			run: func() (*Result, error) {
				return e.FindByUser(ctx, UserQuery{UserIDs: []int{9999}, GenresToConsider: 1})
			},
			contains: []string{"unknown user(s) 9999"},
		},
		{
			name: "user found with unknown",
			run: func() (*Result, error) {
				return e.FindByUser(ctx, UserQuery{UserIDs: []int{42, 9999}, GenresToConsider: 1, FilterWatched: true})
			},
			contains: []string{"Genres: Comedy", "Unknown users ignored: 9999", "3 of 3 result(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := tt.run()
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := Render(&buf, res); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}
