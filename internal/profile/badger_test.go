// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func openTestIndex(t *testing.T) *BadgerIndex {
	t.Helper()
	idx, err := OpenBadgerIndex("", true)
	if err != nil {
		t.Fatalf("OpenBadgerIndex() error = %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestBadgerIndex_Replace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	idx := openTestIndex(t)

	meta, err := idx.Meta()
	if err != nil || meta.Genres != nil || meta.Source != "" {
		t.Fatalf("Meta() on empty index = %+v, %v", meta, err)
	}

	table := NewTable(testVocab().Names(), testProfiles())
	if err := idx.Replace(ctx, table, "run-1"); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	n, err := idx.Len()
	if err != nil || n != 2 {
		t.Errorf("Len() = %d, %v; want 2", n, err)
	}

	meta, err = idx.Meta()
	if err != nil || !slices.Equal(meta.Genres, []string{"Action", "Comedy", "Drama"}) || meta.Source != "run-1" {
		t.Errorf("Meta() = %+v, %v", meta, err)
	}

	p, ok, err := idx.Lookup(ctx, 7)
	if err != nil || !ok {
		t.Fatalf("Lookup(7) = %v, %v", ok, err)
	}
	if p.Preferences[1] != 9.33 || !math.IsNaN(p.Preferences[2]) {
		t.Errorf("Lookup(7) preferences = %v, want NaN preserved", p.Preferences)
	}

	if _, ok, err := idx.Lookup(ctx, 9999); ok || err != nil {
		t.Errorf("Lookup(9999) = %v, %v; want missing", ok, err)
	}

	// A second Replace drops users absent from the new table.
	if err := idx.Replace(ctx, NewTable(testVocab().Names(), testProfiles()[:1]), "run-2"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := idx.Lookup(ctx, 7); ok {
		t.Error("user 7 survived Replace")
	}
	if meta, _ := idx.Meta(); meta.Source != "run-2" {
		t.Errorf("Source = %q, want run-2", meta.Source)
	}
}

func TestBadgerIndex_InterruptedReplace(t *testing.T) {
	t.Parallel()

	idx := openTestIndex(t)
	if err := idx.Replace(context.Background(), NewTable(testVocab().Names(), testProfiles()), "run-1"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := idx.Replace(ctx, NewTable(testVocab().Names(), testProfiles()), "run-2"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Replace() error = %v, want context.Canceled", err)
	}

	meta, err := idx.Meta()
	if err != nil {
		t.Fatal(err)
	}
	if meta.Genres != nil || meta.Source != "" {
		t.Errorf("Meta() after interrupted Replace = %+v, want unloaded", meta)
	}
}

func TestStamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "t.tsv")
	writeTable(t, path, testProfiles())
	first, err := Stamp(path)
	if err != nil {
		t.Fatal(err)
	}

	writeTable(t, path, testProfiles()[:1])
	second, err := Stamp(path)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("Stamp() = %q for two different tables", first)
	}

	if _, err := Stamp(filepath.Join(t.TempDir(), "missing.tsv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stamp(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	var lookup Lookup = NewTable(testVocab().Names(), testProfiles())
	p, ok, err := lookup.Lookup(context.Background(), 42)
	if err != nil || !ok || p.UserID != 42 {
		t.Errorf("Lookup(42) = %+v, %v, %v", p, ok, err)
	}
}
