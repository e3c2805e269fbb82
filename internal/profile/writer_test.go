// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/catalog"
)

func testVocab() *catalog.Vocabulary {
	return catalog.VocabularyOf("Action", "Comedy", "Drama")
}

func testProfiles() []*UserProfile {
	return []*UserProfile{
		{UserID: 42, Preferences: []float64{8, 0, 6.5}, Watched: []int{1, 3}},
		{UserID: 7, Preferences: []float64{0, 9.33, math.NaN()}, Watched: []int{2}},
	}
}

func writeTable(t *testing.T, path string, profiles []*UserProfile) {
	t.Helper()
	w, err := NewWriter(path, testVocab(), DefaultPrecision)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	for _, p := range profiles {
		if err := w.Write(p); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Commit(5); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func TestWriter_Format(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "ratings_database.tsv")
	writeTable(t, path, testProfiles())

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "5\t2\n" +
		"user_id\tAction\tComedy\tDrama\tanimes_rated\n" +
		"42\t8.00\t0.00\t6.50\t[1, 3]\n" +
		"7\t0.00\t9.33\tNaN\t[2]\n"
	if string(got) != want {
		t.Errorf("table =\n%q\nwant\n%q", got, want)
	}

	// Only the published table remains in the directory.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestWriter_Precision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prec    int
		wantRow string
	}{
		{0, "7\t0\t9\tNaN\t[2]"},
		{3, "7\t0.000\t9.333\tNaN\t[2]"},
		{4, "7\t0.0000\t9.3330\tNaN\t[2]"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "t.tsv")
		w, err := NewWriter(path, testVocab(), tt.prec)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.Write(&UserProfile{UserID: 7, Preferences: []float64{0, 9.333, math.NaN()}, Watched: []int{2}}); err != nil {
			t.Fatal(err)
		}
		if err := w.Commit(1); err != nil {
			t.Fatal(err)
		}
		data, _ := os.ReadFile(path)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if got := lines[2]; got != tt.wantRow {
			t.Errorf("prec %d: row = %q, want %q", tt.prec, got, tt.wantRow)
		}
	}

	if _, err := NewWriter(filepath.Join(t.TempDir(), "t.tsv"), testVocab(), -1); err == nil {
		t.Error("NewWriter() accepted a negative precision")
	}
}

func TestWriter_Deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.tsv")
	b := filepath.Join(dir, "b.tsv")
	writeTable(t, a, testProfiles())
	writeTable(t, b, testProfiles())

	da, _ := os.ReadFile(a)
	db, _ := os.ReadFile(b)
	if !bytes.Equal(da, db) {
		t.Error("identical input produced different tables")
	}
}

func TestWriter_Errors(t *testing.T) {
	t.Parallel()

	w, err := NewWriter(filepath.Join(t.TempDir(), "t.tsv"), testVocab(), DefaultPrecision)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Abort()

	if err := w.Write(&UserProfile{UserID: 1, Preferences: []float64{1}}); !errors.Is(err, ErrWrongWidth) {
		t.Errorf("short vector error = %v, want ErrWrongWidth", err)
	}
	p := &UserProfile{UserID: 1, Preferences: []float64{1, 2, 3}}
	if err := w.Write(p); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(p); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate error = %v, want ErrDuplicateUser", err)
	}
}

func TestWriter_AbortKeepsExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "t.tsv")
	writeTable(t, path, testProfiles())
	before, _ := os.ReadFile(path)

	w, err := NewWriter(path, testVocab(), DefaultPrecision)
	if err != nil {
		t.Fatal(err)
	}
	_ = w.Write(&UserProfile{UserID: 99, Preferences: []float64{1, 1, 1}})
	if err := w.Abort(); err != nil {
		t.Fatalf("Abort() error = %v", err)
	}
	if err := w.Write(&UserProfile{UserID: 100, Preferences: []float64{1, 1, 1}}); !errors.Is(err, ErrClosed) {
		t.Errorf("Write after Abort = %v, want ErrClosed", err)
	}

	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("Abort modified the existing table")
	}
}

func TestRead_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "t.tsv")
	writeTable(t, path, testProfiles())

	table, err := ReadFile(path, testVocab(), zerolog.Nop())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if table.Entries != 5 || table.Declared != 2 || table.Len() != 2 {
		t.Errorf("table counts = %d/%d/%d", table.Entries, table.Declared, table.Len())
	}
	if !slices.Equal(table.Users(), []int{42, 7}) {
		t.Errorf("Users() = %v", table.Users())
	}

	p, ok := table.Get(7)
	if !ok {
		t.Fatal("Get(7) missing")
	}
	if p.Preferences[1] != 9.33 || !math.IsNaN(p.Preferences[2]) || !slices.Equal(p.Watched, []int{2}) {
		t.Errorf("profile 7 = %+v", p)
	}
}

func TestRead_SchemaMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad counts", "five\t2\n"},
		{"missing column header", "1\t1\n"},
		{"genre order", "1\t1\nuser_id\tComedy\tAction\tDrama\tanimes_rated\n"},
		{"missing genre", "1\t1\nuser_id\tAction\tComedy\tanimes_rated\n"},
		{"no watched column", "1\t1\nuser_id\tAction\tComedy\tDrama\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(strings.NewReader(tt.input), testVocab(), zerolog.Nop())
			if !errors.Is(err, ErrSchemaMismatch) {
				t.Errorf("Read() error = %v, want ErrSchemaMismatch", err)
			}
		})
	}
}

func TestRead_Quarantine(t *testing.T) {
	t.Parallel()

	input := "10\t6\n" +
		"user_id\tAction\tComedy\tDrama\tanimes_rated\n" +
		"1\t8.00\t0.00\t6.50\t[1, 3]\n" +
		"2\t8.00\t0.00\t[1]\n" +
		"x\t8.00\t0.00\t6.50\t[1]\n" +
		"3\t11.00\t0.00\t6.50\t[1]\n" +
		"4\t1.00\t0.00\t6.50\t1, 2\n" +
		"1\t1.00\t1.00\t1.00\t[]\n"

	var logs bytes.Buffer
	table, err := Read(strings.NewReader(input), testVocab(), zerolog.New(&logs))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
	if len(table.Quarantined) != 5 {
		t.Errorf("quarantined %d rows, want 5: %+v", len(table.Quarantined), table.Quarantined)
	}
	if table.Quarantined[0].Line != 4 {
		t.Errorf("first quarantined line = %d, want 4", table.Quarantined[0].Line)
	}
	if p, _ := table.Get(1); p.Preferences[0] != 8 {
		t.Error("duplicate row replaced the first occurrence")
	}
	if n := strings.Count(logs.String(), "Quarantining profile row"); n != 5 {
		t.Errorf("logged %d quarantined rows, want 5", n)
	}
}
