// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package api exposes the query engine over HTTP.

Routes (all GET):

	/api/v1/health                  liveness plus catalog and store status
	/api/v1/genres                  the genre vocabulary in catalog order
	/api/v1/genres/summary          per-genre preference summary (needs the DuckDB mirror)
	/api/v1/genres/{genre}/top      ?n=10 users with the highest preference (DuckDB mirror)
	/api/v1/preferences             ?genres=Action&users=42&min=7&limit=100 long-format rows (DuckDB mirror)
	/api/v1/recommend/genre         ?genres=Action,Comedy&mode=exact&limit=10
	/api/v1/recommend/user          ?users=42,43&genres_to_consider=3&filter_watched=true&limit=10
	/api/v1/stats                   per-route latency percentiles and cache statistics
	/metrics                        Prometheus exposition

Every JSON response uses the same envelope:

	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":3}}
	{"status":"error","data":null,"metadata":{...},"error":{"code":"VALIDATION_ERROR","message":"..."}}

Terminal query states map to status codes as follows: found and empty return
200; ambiguous returns 200 with the suggestions so the caller can resubmit a
corrected query; not_found returns 404 with the full vocabulary; invalid
parameters return 400.
*/
package api
