// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string        `json:"route"`
	Method     string        `json:"method"`
	StatusCode int           `json:"status_code"`
	Duration   time.Duration `json:"duration_ns"`
	Timestamp  time.Time     `json:"timestamp"`
}

// RouteStats aggregates the samples currently in the window for one route.
type RouteStats struct {
	Route        string        `json:"route"`
	RequestCount int           `json:"request_count"`
	ErrorCount   int           `json:"error_count"`
	Avg          time.Duration `json:"avg_ns"`
	P50          time.Duration `json:"p50_ns"`
	P95          time.Duration `json:"p95_ns"`
	P99          time.Duration `json:"p99_ns"`
	Min          time.Duration `json:"min_ns"`
	Max          time.Duration `json:"max_ns"`
}

// PerformanceMonitor keeps the most recent requests in a fixed-size ring and
// reports per-route latency percentiles over them.
type PerformanceMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool

	slowThreshold time.Duration
	logger        zerolog.Logger
}

// NewPerformanceMonitor creates a monitor holding up to window samples.
// Requests slower than slowThreshold are logged at warn; zero disables that.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPerformanceMonitor(window int, slowThreshold time.Duration, logger zerolog.Logger) *PerformanceMonitor {
	if window < 1 {
		window = 1
	}
	return &PerformanceMonitor{
		samples:       make([]RequestSample, window),
		slowThreshold: slowThreshold,
		logger:        logger.With().Str("component", "perf").Logger(),
	}
}

// Record adds a sample, overwriting the oldest one when the window is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	pm.samples[pm.next] = s
	pm.next++
	if pm.next == len(pm.samples) {
		pm.next = 0
		pm.full = true
	}
	pm.mu.Unlock()
}

// Len returns the number of samples in the window.
func (pm *PerformanceMonitor) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	if pm.full {
		return len(pm.samples)
	}
	return pm.next
}

// Recent returns up to n samples, newest first.
func (pm *PerformanceMonitor) Recent(n int) []RequestSample {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	size := pm.next
	if pm.full {
		size = len(pm.samples)
	}
	if n > size {
		n = size
	}
	out := make([]RequestSample, 0, n)
	for i := 1; i <= n; i++ {
		idx := (pm.next - i + len(pm.samples)) % len(pm.samples)
		out = append(out, pm.samples[idx])
	}
	return out
}

// Stats returns per-route statistics, busiest route first.
func (pm *PerformanceMonitor) Stats() []RouteStats {
	pm.mu.RLock()
	byRoute := make(map[string][]RequestSample)
	size := pm.next
	if pm.full {
		size = len(pm.samples)
	}
	for _, s := range pm.samples[:size] {
		key := s.Method + " " + s.Route
		byRoute[key] = append(byRoute[key], s)
	}
	pm.mu.RUnlock()

	stats := make([]RouteStats, 0, len(byRoute))
	for route, samples := range byRoute {
		durations := make([]time.Duration, len(samples))
		var sum time.Duration
		errs := 0
		for i, s := range samples {
			durations[i] = s.Duration
			sum += s.Duration
			if s.StatusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

		stats = append(stats, RouteStats{
			Route:        route,
			RequestCount: len(samples),
			ErrorCount:   errs,
			Avg:          sum / time.Duration(len(samples)),
			P50:          percentile(durations, 0.50),
			P95:          percentile(durations, 0.95),
			P99:          percentile(durations, 0.99),
			Min:          durations[0],
			Max:          durations[len(durations)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Route < stats[j].Route
	})
	return stats
}

// Middleware records every request that passes through it.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routePattern(r)
		pm.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			StatusCode: rec.statusCode,
			Duration:   elapsed,
			Timestamp:  start,
		})

		if pm.slowThreshold > 0 && elapsed > pm.slowThreshold {
			pm.logger.Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", elapsed).
				Dur("threshold", pm.slowThreshold).
				Msg("slow request")
		}
	})
}

// percentile picks the nearest-rank value from a sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
