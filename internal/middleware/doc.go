// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package middleware provides the net/http middleware used by the API router.

Components:

  - RequestID: accepts or generates an X-Request-ID and stores it, together
    with a request-scoped logger, in the request context
  - AccessLog: one structured log line per finished request
  - PrometheusMetrics: request count, latency and in-flight gauge by route pattern
  - PerformanceMonitor: sliding window of recent requests with per-route percentiles

All middleware has the func(http.Handler) http.Handler shape so it can be
passed to chi's Router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

Routes are labelled by their chi route pattern (for example
/api/v1/recommend/genre) rather than the raw URL path, so query strings and
path parameters never create new metric series.
*/
package middleware
