// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAggregateEvent(t *testing.T) {
	before := testutil.ToFloat64(AggregateEventsTotal.WithLabelValues("unrated"))
	RecordAggregateEvent("unrated")
	RecordAggregateEvent("unrated")
	after := testutil.ToFloat64(AggregateEventsTotal.WithLabelValues("unrated"))

	if after-before != 2 {
		t.Errorf("unrated counter delta = %v, want 2", after-before)
	}
}

func TestRecordAggregateRun(t *testing.T) {
	usersBefore := testutil.ToFloat64(AggregateUsersTotal)

	RecordAggregateRun(time.Second, 3, errors.New("boom"))
	lastAfterFailure := testutil.ToFloat64(AggregateLastSuccess)

	RecordAggregateRun(time.Second, 4, nil)

	if got := testutil.ToFloat64(AggregateUsersTotal) - usersBefore; got != 7 {
		t.Errorf("users delta = %v, want 7", got)
	}
	if testutil.ToFloat64(AggregateLastSuccess) < lastAfterFailure {
		t.Error("last success timestamp went backwards")
	}
	if testutil.ToFloat64(AggregateLastSuccess) == 0 {
		t.Error("last success timestamp not set after a successful run")
	}
}

func TestRecordCatalog(t *testing.T) {
	RecordCatalog(12017, 43)
	if got := testutil.ToFloat64(CatalogAnime); got != 12017 {
		t.Errorf("catalog anime = %v", got)
	}
	if got := testutil.ToFloat64(CatalogGenres); got != 43 {
		t.Errorf("catalog genres = %v", got)
	}
}

func TestRecordQuery(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		state string
	}{
		{"genre found", "genre", "found"},
		{"genre ambiguous", "genre", "ambiguous"},
		{"user empty", "user", "empty"},
		{"user not found", "user", "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(QueriesTotal.WithLabelValues(tt.mode, tt.state))
			RecordQuery(tt.mode, tt.state, 3, time.Millisecond)
			after := testutil.ToFloat64(QueriesTotal.WithLabelValues(tt.mode, tt.state))
			if after-before != 1 {
				t.Errorf("queries delta = %v, want 1", after-before)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("query"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("query"))

	RecordCacheLookup("query", true)
	RecordCacheLookup("query", false)
	RecordCacheLookup("query", false)

	if d := testutil.ToFloat64(CacheHits.WithLabelValues("query")) - hits; d != 1 {
		t.Errorf("hits delta = %v", d)
	}
	if d := testutil.ToFloat64(CacheMisses.WithLabelValues("query")) - misses; d != 2 {
		t.Errorf("misses delta = %v", d)
	}
}

// TestRecordDBQuery_ErrorTruncation checks long error labels are cut to 50 bytes
func TestRecordDBQuery_ErrorTruncation(t *testing.T) {
	long := strings.Repeat("c", 100)
	RecordDBQuery("SELECT", "genres", time.Millisecond, errors.New(long))

	got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("SELECT", "genres", strings.Repeat("c", 50)))
	if got < 1 {
		t.Errorf("truncated error label not recorded")
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if d := testutil.ToFloat64(APIActiveRequests) - before; d != 1 {
		t.Errorf("active requests delta = %v, want 1", d)
	}
	TrackActiveRequest(false)
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAggregateEvent("applied")
			RecordQuery("genre", "found", 1, time.Microsecond)
			RecordAPIRequest("GET", "/api/v1/genres", "200", time.Millisecond)
		}()
	}
	wg.Wait()
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordDBQuery("TEST", "test_table", time.Millisecond, nil)
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
