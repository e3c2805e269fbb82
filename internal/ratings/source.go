// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package ratings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Source yields rating events one at a time. Next returns io.EOF after the last event.
type Source interface {
	Next() (Event, error)
}

// CSVSource streams events from a delimited file whose first three columns are
// user_id, anime_id and rating. The first line is a header and is skipped.
type CSVSource struct {
	r       *csv.Reader
	logger  zerolog.Logger
	row     int
	started bool
	skipped int
}

// NewCSVSource creates a source reading comma separated values from r.
func NewCSVSource(r io.Reader, logger zerolog.Logger) *CSVSource {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &CSVSource{
		r:      cr,
		logger: logger.With().Str("component", "ratings").Logger(),
	}
}

// Skipped returns the number of malformed rows skipped so far.
func (s *CSVSource) Skipped() int {
	return s.skipped
}

// Next returns the next well-formed event.
func (s *CSVSource) Next() (Event, error) {
	if !s.started {
		s.started = true
		header, err := s.r.Read()
		if err != nil {
			return Event{}, err
		}
		if len(header) < 3 {
			return Event{}, ErrBadHeader
		}
	}

	for {
		fields, err := s.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("read ratings: %w", err)
		}
		s.row++

		ev, rowErr := parseEvent(s.row, fields)
		if rowErr != nil {
			s.skipped++
			s.logger.Warn().Int("row", rowErr.Row).Str("reason", rowErr.Reason).Msg("Skipping rating row")
			continue
		}
		return ev, nil
	}
}

func parseEvent(row int, fields []string) (Event, *RowError) {
	if len(fields) < 3 {
		return Event{}, &RowError{Row: row, Reason: "too few columns"}
	}
	var vals [3]int
	for i := range vals {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return Event{}, &RowError{Row: row, Reason: "non-integer field " + strconv.Itoa(i+1)}
		}
		vals[i] = v
	}
	return Event{UserID: vals[0], AnimeID: vals[1], Rating: vals[2]}, nil
}

// SliceSource replays events from memory.
type SliceSource struct {
	events []Event
	pos    int
}

// NewSliceSource returns a source over events.
func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event or io.EOF.
func (s *SliceSource) Next() (Event, error) {
	if s.pos >= len(s.events) {
		return Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// ReadAll drains a source into memory.
func ReadAll(src Source) ([]Event, error) {
	var out []Event
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, ev)
	}
}
