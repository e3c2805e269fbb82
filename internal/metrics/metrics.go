// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Aggregation Metrics
	AggregateEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_aggregate_events_total",
			Help: "Total number of rating events consumed by the aggregator",
		},
		[]string{"outcome"}, // "applied", "unrated", "unknown_anime", "invalid"
	)

	AggregateUsersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animerec_aggregate_users_total",
			Help: "Total number of user profiles finalized",
		},
	)

	AggregateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animerec_aggregate_duration_seconds",
			Help:    "Duration of full aggregation passes in seconds",
			Buckets: []float64{0.1, 1, 5, 30, 60, 300, 900, 1800, 3600}, // Passes over large datasets run for minutes
		},
	)

	AggregateLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animerec_aggregate_last_success_timestamp",
			Help: "Unix timestamp of the last successful aggregation pass",
		},
	)

	// Catalog Metrics
	CatalogAnime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animerec_catalog_anime",
			Help: "Number of anime in the loaded catalog index",
		},
	)

	CatalogGenres = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animerec_catalog_genres",
			Help: "Number of genres in the loaded vocabulary",
		},
	)

	CatalogRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_catalog_rows_skipped_total",
			Help: "Catalog rows skipped for violating the cleaned format",
		},
		[]string{"reason"},
	)

	// Query Engine Metrics
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_queries_total",
			Help: "Total number of recommendation queries by mode and terminal state",
		},
		[]string{"mode", "state"}, // mode: "genre", "user"
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animerec_query_duration_seconds",
			Help:    "Recommendation query duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode"},
	)

	QueryResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animerec_query_results",
			Help:    "Number of anime returned per successful query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
		},
		[]string{"mode"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "query"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animerec_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animerec_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animerec_api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordAggregateEvent counts one consumed rating event.
func RecordAggregateEvent(outcome string) {
	AggregateEventsTotal.WithLabelValues(outcome).Inc()
}

// RecordAggregateRun records a finished aggregation pass.
func RecordAggregateRun(duration time.Duration, users int, err error) {
	AggregateDuration.Observe(duration.Seconds())
	AggregateUsersTotal.Add(float64(users))
	if err == nil {
		AggregateLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordCatalog publishes the size of a freshly loaded catalog.
func RecordCatalog(anime, genres int) {
	CatalogAnime.Set(float64(anime))
	CatalogGenres.Set(float64(genres))
}

// RecordQuery records a finished recommendation query.
func RecordQuery(mode, state string, results int, duration time.Duration) {
	QueriesTotal.WithLabelValues(mode, state).Inc()
	QueryDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if state == "found" || state == "empty" {
		QueryResults.WithLabelValues(mode).Observe(float64(results))
	}
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
