// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/logging"
)

const rawCatalog = `anime_id,name,genre,type,episodes,rating,members
1,Alpha,"Action, Comedy",TV,12,7.5,100
2,Bravo,Comedy,TV,12,9.0,100
3,Charlie,"Action, Drama",TV,24,8.1,100
x4,Broken,Comedy,TV,1,5.0,1
5,Echo,Action,TV,1,,1
`

const rawRatings = `user_id,anime_id,rating
1,1,8
1,2,-1
2,3,9
2,1,7
`

// pipeline is a scratch data directory plus a config file pointing into it.
type pipeline struct {
	dir    string
	config string
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("anime.csv", rawCatalog)
	write("rating.csv", rawRatings)
	write("animerec.yaml", fmt.Sprintf(`data:
  raw_catalog_path: %[1]s/anime.csv
  catalog_path: %[1]s/anime_cleaned.csv
  ratings_path: %[1]s/rating.csv
  cleaned_ratings_path: %[1]s/rating_cleaned.csv
  profile_path: %[1]s/ratings_database.tsv
database:
  enabled: true
  path: %[1]s/animerec.duckdb
index:
  enabled: false
  path: %[1]s/profiles.badger
logging:
  level: error
`, dir))
	return &pipeline{dir: dir, config: filepath.Join(dir, "animerec.yaml")}
}

func (p *pipeline) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-config", p.config}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (p *pipeline) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	code, out, errOut := p.run(t, args...)
	if code != exitOK {
		t.Fatalf("animerec %v exited %d\nstdout: %s\nstderr: %s", args, code, out, errOut)
	}
	return out
}

// prepared runs clean and aggregate so query commands have data.
func prepared(t *testing.T) *pipeline {
	t.Helper()
	p := newPipeline(t)
	p.mustRun(t, "clean", "-ratings")
	p.mustRun(t, "aggregate")
	return p
}

func TestMain(m *testing.M) {
	code := m.Run()
	logging.Init(logging.DefaultConfig())
	os.Exit(code)
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"frobnicate"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
		{"bad global flag", []string{"-bogus"}, exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := run(context.Background(), tt.args, &bytes.Buffer{}, &stderr); got != tt.want {
				t.Errorf("exit code = %d, want %d (%s)", got, tt.want, stderr.String())
			}
		})
	}
}

func TestCleanCommand(t *testing.T) {
	p := newPipeline(t)
	out := p.mustRun(t, "clean", "-ratings")

	if !strings.Contains(out, "catalog: read 5, kept 3, dropped 2") {
		t.Errorf("catalog summary: %s", out)
	}
	if !strings.Contains(out, "ratings: read 4, kept 3, dropped 1") {
		t.Errorf("ratings summary: %s", out)
	}

	cleaned, err := os.ReadFile(filepath.Join(p.dir, "anime_cleaned.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(cleaned), "Broken") || strings.Contains(string(cleaned), "Echo") {
		t.Errorf("cleaned catalog kept invalid rows:\n%s", cleaned)
	}
}

func TestAggregateCommand(t *testing.T) {
	p := newPipeline(t)
	p.mustRun(t, "clean")
	out := p.mustRun(t, "aggregate")
	if !strings.Contains(out, "aggregated 4 events into 2 profiles") {
		t.Errorf("aggregate summary: %s", out)
	}

	first, err := os.ReadFile(filepath.Join(p.dir, "ratings_database.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(first)), "\n")
	if len(lines) != 4 {
		t.Fatalf("profile table has %d lines, want 4:\n%s", len(lines), first)
	}

	// A second run over the same input reproduces the file byte for byte.
	p.mustRun(t, "aggregate")
	second, err := os.ReadFile(filepath.Join(p.dir, "ratings_database.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("aggregate is not deterministic")
	}
}

func TestAggregateWithExport(t *testing.T) {
	p := newPipeline(t)
	p.mustRun(t, "clean")
	out := p.mustRun(t, "aggregate", "-export")
	if !strings.Contains(out, "duckdb: 2 users") {
		t.Errorf("export summary: %s", out)
	}
	if _, err := os.Stat(filepath.Join(p.dir, "animerec.duckdb")); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestGenreCommand(t *testing.T) {
	p := prepared(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{"found", []string{"genre", "-g", "Action"}, exitOK, []string{"Charlie", "Alpha"}},
		{"exact", []string{"genre", "-g", "comedy", "-exact"}, exitOK, []string{"Bravo"}},
		{"ambiguous", []string{"genre", "-g", "Actoin"}, exitAmbiguous, []string{"Action"}},
		{"not found", []string{"genre", "-g", "Zzzzqqq"}, exitNotFound, []string{"Action", "Comedy", "Drama"}},
		{"missing genres", []string{"genre"}, exitUsage, nil},
		{"stray argument", []string{"genre", "-g", "Action", "extra"}, exitUsage, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := p.run(t, tt.args...)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstdout: %s\nstderr: %s", code, tt.wantCode, out, errOut)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

type jsonResult struct {
	State string `json:"state"`
	Anime []struct {
		ID int `json:"anime_id"`
	} `json:"anime"`
	UnknownUsers []int `json:"unknown_users"`
}

func (r jsonResult) ids() []int {
	ids := make([]int, len(r.Anime))
	for i, a := range r.Anime {
		ids[i] = a.ID
	}
	return ids
}

func TestGenreCommandJSON(t *testing.T) {
	p := prepared(t)
	out := p.mustRun(t, "genre", "-g", "Action", "-json")

	var res jsonResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.State != "found" || !slices.Equal(res.ids(), []int{3, 1}) {
		t.Errorf("result = %+v", res)
	}
}

func TestUserCommand(t *testing.T) {
	p := prepared(t)

	tests := []struct {
		name        string
		args        []string
		wantState   string
		wantIDs     []int
		wantUnknown []int
	}{
		{"top genre", []string{"user", "-u", "2", "-k", "1", "-json"}, "found", []int{3}, nil},
		{"top genre filtered", []string{"user", "-u", "2", "-k", "1", "-filter", "-json"}, "empty", []int{}, nil},
		{"unknown user", []string{"user", "-u", "99", "-k", "1", "-json"}, "empty", []int{}, []int{99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := p.mustRun(t, tt.args...)
			var res jsonResult
			if err := json.Unmarshal([]byte(out), &res); err != nil {
				t.Fatalf("decode: %v\n%s", err, out)
			}
			if res.State != tt.wantState || !slices.Equal(res.ids(), tt.wantIDs) {
				t.Errorf("result = %+v", res)
			}
			if !slices.Equal(res.UnknownUsers, tt.wantUnknown) {
				t.Errorf("unknown users = %v, want %v", res.UnknownUsers, tt.wantUnknown)
			}
		})
	}

	for _, args := range [][]string{
		{"user", "-u", "2", "-k", "9"},
		{"user", "-u", "abc", "-k", "1"},
		{"user", "-k", "1"},
	} {
		if code, _, _ := p.run(t, args...); code != exitUsage {
			t.Errorf("%v exited %d, want %d", args, code, exitUsage)
		}
	}
}

func TestExportRequiresAStore(t *testing.T) {
	p := prepared(t)
	t.Setenv("DUCKDB_ENABLED", "false")

	if code, _, _ := p.run(t, "export"); code != exitUsage {
		t.Errorf("export exited %d, want %d", code, exitUsage)
	}
}

func TestUserCommandFollowsRegeneratedTable(t *testing.T) {
	t.Setenv("BADGER_ENABLED", "true")
	p := prepared(t)

	topTwo := func(t *testing.T) []int {
		t.Helper()
		out := p.mustRun(t, "user", "-u", "1", "-k", "2", "-json")
		var res jsonResult
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		return res.ids()
	}
	rerate := func(t *testing.T, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(p.dir, "rating.csv"), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		p.mustRun(t, "clean", "-ratings")
	}

	// Action and Comedy.
	if got := topTwo(t); !slices.Equal(got, []int{1}) {
		t.Fatalf("initial anime = %v, want [1]", got)
	}

	rerate(t, "user_id,anime_id,rating\n1,3,9\n")
	out := p.mustRun(t, "aggregate")
	if !strings.Contains(out, "badger: 1 profiles") {
		t.Errorf("aggregate summary: %s", out)
	}
	// Action and Drama.
	if got := topTwo(t); !slices.Equal(got, []int{3}) {
		t.Errorf("after aggregate anime = %v, want [3]", got)
	}

	// A table written while the index is disabled is picked up on the next query.
	t.Setenv("BADGER_ENABLED", "false")
	rerate(t, "user_id,anime_id,rating\n1,1,8\n1,2,9\n")
	p.mustRun(t, "aggregate")
	t.Setenv("BADGER_ENABLED", "true")
	if got := topTwo(t); !slices.Equal(got, []int{1}) {
		t.Errorf("after external rewrite anime = %v, want [1]", got)
	}
}
