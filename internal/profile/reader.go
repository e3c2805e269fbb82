// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/catalog"
)

// Quarantined is a table row rejected by the reader.
type Quarantined struct {
	Line   int
	Reason string
}

// Table is a fully loaded profile table.
type Table struct {
	Entries     int
	Declared    int
	Genres      []string
	Quarantined []Quarantined

	order []int
	rows  map[int]*UserProfile
}

// NewTable builds a table from profiles already in memory. Later duplicates are ignored.
func NewTable(genres []string, profiles []*UserProfile) *Table {
	t := &Table{
		Genres: append([]string(nil), genres...),
		rows:   make(map[int]*UserProfile, len(profiles)),
	}
	for _, p := range profiles {
		if _, dup := t.rows[p.UserID]; dup {
			continue
		}
		t.rows[p.UserID] = p
		t.order = append(t.order, p.UserID)
	}
	t.Declared = len(t.order)
	return t
}

// Len returns the number of valid rows.
func (t *Table) Len() int {
	return len(t.order)
}

// Users returns user ids in table order.
func (t *Table) Users() []int {
	return append([]int(nil), t.order...)
}

// Get returns the profile for userID.
func (t *Table) Get(userID int) (*UserProfile, bool) {
	p, ok := t.rows[userID]
	return p, ok
}

// Lookup implements Lookup.
func (t *Table) Lookup(_ context.Context, userID int) (*UserProfile, bool, error) {
	p, ok := t.rows[userID]
	return p, ok, nil
}

// Profiles returns all profiles in table order.
func (t *Table) Profiles() []*UserProfile {
	out := make([]*UserProfile, len(t.order))
	for i, id := range t.order {
		out[i] = t.rows[id]
	}
	return out
}

// ReadFile opens and reads a table from path.
func ReadFile(path string, vocab *catalog.Vocabulary, logger zerolog.Logger) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open profile table: %w", err)
	}
	defer f.Close()
	return Read(f, vocab, logger)
}

// Read parses a profile table and checks its columns against vocab.
//
// A header that does not list exactly the vocabulary genres in order fails with
// ErrSchemaMismatch. Data rows that do not parse, have the wrong width, carry an
// out-of-range value or repeat a user id are quarantined and logged.
func Read(r io.Reader, vocab *catalog.Vocabulary, logger zerolog.Logger) (*Table, error) {
	logger = logger.With().Str("component", "profile").Logger()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read table header: %w", err)
		}
		return nil, fmt.Errorf("%w: empty table", ErrSchemaMismatch)
	}
	entries, declared, err := parseCounts(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing column header", ErrSchemaMismatch)
	}
	cols := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
	if err := checkColumns(cols, vocab); err != nil {
		return nil, err
	}

	t := &Table{
		Entries:  entries,
		Declared: declared,
		Genres:   vocab.Names(),
		rows:     make(map[int]*UserProfile, declared),
	}
	width := len(cols)

	for line := 3; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		p, reason := parseRow(text, width)
		if reason == "" {
			if _, dup := t.rows[p.UserID]; dup {
				reason = "duplicate user_id " + strconv.Itoa(p.UserID)
			}
		}
		if reason != "" {
			t.Quarantined = append(t.Quarantined, Quarantined{Line: line, Reason: reason})
			logger.Warn().Int("row", line).Str("reason", reason).Msg("Quarantining profile row")
			continue
		}
		t.rows[p.UserID] = p
		t.order = append(t.order, p.UserID)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read profile table: %w", err)
	}

	if t.Len()+len(t.Quarantined) != declared {
		logger.Warn().
			Int("declared", declared).
			Int("read", t.Len()+len(t.Quarantined)).
			Msg("Profile table user count differs from header")
	}

	logger.Debug().Int("users", t.Len()).Int("quarantined", len(t.Quarantined)).Msg("Profile table loaded")
	return t, nil
}

func parseCounts(line string) (int, int, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("first line must hold two counts, got %q", line)
	}
	entries, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("entry count: %w", err)
	}
	users, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("user count: %w", err)
	}
	return entries, users, nil
}

func checkColumns(cols []string, vocab *catalog.Vocabulary) error {
	if len(cols) < 2 || cols[0] != ColumnUserID || cols[len(cols)-1] != ColumnWatched {
		return fmt.Errorf("%w: header must start with %s and end with %s", ErrSchemaMismatch, ColumnUserID, ColumnWatched)
	}
	genres := cols[1 : len(cols)-1]
	if !vocab.Equal(genres) {
		return fmt.Errorf("%w: table has %d genre columns, vocabulary has %d or differs in order",
			ErrSchemaMismatch, len(genres), vocab.Len())
	}
	return nil
}

func parseRow(text string, width int) (*UserProfile, string) {
	fields := strings.Split(text, "\t")
	if len(fields) != width {
		return nil, fmt.Sprintf("row has %d columns, want %d", len(fields), width)
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, "non-integer user_id"
	}

	prefs := make([]float64, width-2)
	for i := range prefs {
		v, err := parseValue(fields[i+1])
		if err != nil {
			return nil, fmt.Sprintf("column %d: %v", i+2, err)
		}
		prefs[i] = v
	}

	watched, err := ParseIDList(fields[width-1])
	if err != nil {
		return nil, err.Error()
	}

	return &UserProfile{UserID: id, Preferences: prefs, Watched: watched}, ""
}
