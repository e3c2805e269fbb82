// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package metrics provides Prometheus metrics for aggregation passes, recommendation
queries and the HTTP surface.

All collectors are registered on the default registry through promauto and are
exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Aggregation:
  - animerec_aggregate_events_total{outcome}: events by outcome
    (applied, unrated, unknown_anime, invalid)
  - animerec_aggregate_users_total: finalized profiles
  - animerec_aggregate_duration_seconds: pass duration (histogram)
  - animerec_aggregate_last_success_timestamp

Catalog:
  - animerec_catalog_anime, animerec_catalog_genres (gauges)
  - animerec_catalog_rows_skipped_total{reason}

Queries:
  - animerec_queries_total{mode,state}
  - animerec_query_duration_seconds{mode}
  - animerec_query_results{mode}: result sizes of found/empty queries
  - animerec_cache_hits_total{cache_type}, animerec_cache_misses_total{cache_type}

Database and API:
  - animerec_duckdb_query_duration_seconds{operation,table}
  - animerec_duckdb_query_errors_total{operation,table,error_type}
  - animerec_api_requests_total{method,endpoint,status_code}
  - animerec_api_request_duration_seconds{method,endpoint}
  - animerec_api_active_requests

Aggregation metrics are observational only. They never feed back into results.
*/
package metrics
