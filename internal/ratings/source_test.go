// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package ratings

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCSVSource(t *testing.T) {
	t.Parallel()

	input := "user_id,anime_id,rating\n1,20,-1\n1,24,8\nx,1,1\n2,20\n 2 , 30 , 10 \n"
	src := NewCSVSource(strings.NewReader(input), zerolog.Nop())

	events, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []Event{
		{UserID: 1, AnimeID: 20, Rating: -1},
		{UserID: 1, AnimeID: 24, Rating: 8},
		{UserID: 2, AnimeID: 30, Rating: 10},
	}
	if !slices.Equal(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
	if src.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", src.Skipped())
	}

	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after end = %v, want io.EOF", err)
	}
}

func TestCSVSource_Header(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		src := NewCSVSource(strings.NewReader(""), zerolog.Nop())
		if _, err := src.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("Next() = %v, want io.EOF", err)
		}
	})

	t.Run("narrow header", func(t *testing.T) {
		t.Parallel()
		src := NewCSVSource(strings.NewReader("user_id,anime_id\n1,2\n"), zerolog.Nop())
		if _, err := src.Next(); !errors.Is(err, ErrBadHeader) {
			t.Errorf("Next() = %v, want ErrBadHeader", err)
		}
	})
}

func TestEvent_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating int
		want   bool
	}{
		{-1, true}, {0, true}, {10, true}, {11, false}, {-2, false},
	}
	for _, tt := range tests {
		if got := (Event{Rating: tt.rating}).Valid(); got != tt.want {
			t.Errorf("Valid(%d) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}
