// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/catalog"
)

// genreCacheKey is the normalized form of a genre query used for caching.
type genreCacheKey struct {
	Genres []string  `json:"g"`
	Mode   MatchMode `json:"m"`
	Limit  int       `json:"l"`
}

// FindByGenre returns anime carrying the requested genres, ranked by rating.
//
// Unresolvable tokens end the query in the Ambiguous or NotFound state; only an
// empty genre list or an unknown mode is reported as a *UsageError.
func (e *Engine) FindByGenre(ctx context.Context, q GenreQuery) (*Result, error) {
	start := time.Now()
	reqID := requestID(ctx)
	logger := e.logger.With().Str("request_id", reqID).Str("mode", "genre").Logger()

	tokens := ParseGenreList(q.Genres...)
	if len(tokens) == 0 {
		return nil, &UsageError{Param: "genres", Reason: "at least one genre is required"}
	}
	mode := q.Mode
	if mode == "" {
		mode = e.config.MatchMode
	}
	mode, err := ParseMatchMode(string(mode))
	if err != nil {
		return nil, err
	}
	limit := e.limit(q.Limit)

	normTokens := make([]string, len(tokens))
	for i, t := range tokens {
		normTokens[i] = catalog.Normalize(t)
	}
	key := cache.GenerateKey("genre", genreCacheKey{Genres: normTokens, Mode: mode, Limit: limit})
	if r, ok := e.cached(key, reqID, start); ok {
		return e.finish(r, start, logger), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{RequestID: reqID, Mode: "genre"}
	resolved := e.resolveGenres(tokens)

	switch resolved.state {
	case StateNotFound:
		res.State = StateNotFound
		res.Unmatched = resolved.unmatched
		res.Suggestions = resolved.suggestions
		res.Vocabulary = e.Vocabulary()
	case StateAmbiguous:
		res.State = StateAmbiguous
		res.Suggestions = resolved.suggestions
	default:
		res.Genres = resolved.genres
		matches := e.selectByGenres(resolved.tokens, mode)
		rankByRating(matches)
		res.Total = len(matches)
		res.Anime = truncate(matches, limit)
		res.State = StateEmpty
		if len(res.Anime) > 0 {
			res.State = StateFound
		}
	}

	// Stamp before caching; cached results are only read afterwards.
	e.finish(res, start, logger)
	e.store(key, res)
	return res, nil
}

// selectByGenres returns every catalog entry matching the tokens, in catalog order.
func (e *Engine) selectByGenres(tokens [][]int, mode MatchMode) []Recommendation {
	match := matchesAll
	if mode == MatchExact {
		match = matchesExactly
	}

	var out []Recommendation
	entries := e.idx.Entries()
	for i := range entries {
		if match(&entries[i], tokens) {
			out = append(out, Recommendation{Anime: entries[i].Anime})
		}
	}
	return out
}

// rankByRating orders by rating descending. Unrated anime sort last and ties keep
// catalog order.
func rankByRating(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].Anime, recs[j].Anime
		if a.HasRating != b.HasRating {
			return a.HasRating
		}
		return a.Rating > b.Rating
	})
}
