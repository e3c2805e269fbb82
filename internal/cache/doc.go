// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

/*
Package cache provides a thread-safe in-memory cache with TTL support.

The query engine caches resolved recommendation results keyed by the normalized
query, so repeated lookups for the same genres or users skip the catalog scan.
Catalog and profile data are immutable for the lifetime of a process, so entries
only need time-based expiry.

# Usage

	c := cache.New[*Result](5*time.Minute, 1024)
	key := cache.GenerateKey("genre", query)
	if r, ok := c.Get(key); ok {
	    return r
	}
	c.Set(key, r)

Expiration is lazy: an expired entry is removed by the Get that finds it.
StartCleanup adds a background sweep bound to a context.

# Keys

GenerateKey serializes the parameters with goccy/go-json and hashes them with
SHA-256, keeping the method name as a readable prefix ("genre:3f2a...").
*/
package cache
