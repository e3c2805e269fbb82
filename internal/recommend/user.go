// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/profile"
)

// FindByUser recommends anime from the top genres of the given users.
//
// For each known user the top GenresToConsider positively rated genres form the
// active set. Candidates carry every active genre and are ranked by the number of
// genres they share with each anime the user watched, summed over the watched
// list. Results of several users are concatenated in request order with repeated
// anime kept at their first position.
func (e *Engine) FindByUser(ctx context.Context, q UserQuery) (*Result, error) {
	start := time.Now()
	reqID := requestID(ctx)
	logger := e.logger.With().Str("request_id", reqID).Str("mode", "user").Logger()

	if e.profiles == nil {
		return nil, ErrNoProfiles
	}
	if len(q.UserIDs) == 0 {
		return nil, &UsageError{Param: "users", Reason: "at least one user id is required"}
	}
	if n := e.idx.Vocabulary().Len(); q.GenresToConsider < 1 || q.GenresToConsider > n {
		return nil, &UsageError{
			Param:  "genres_to_consider",
			Reason: "must be between 1 and " + strconv.Itoa(n) + ", got " + strconv.Itoa(q.GenresToConsider),
		}
	}
	limit := e.limit(q.Limit)
	users := dedupInts(q.UserIDs)

	key := cache.GenerateKey("user", UserQuery{
		UserIDs:          users,
		GenresToConsider: q.GenresToConsider,
		FilterWatched:    q.FilterWatched,
		Limit:            limit,
	})
	if r, ok := e.cached(key, reqID, start); ok {
		return e.finish(r, start, logger), nil
	}

	res := &Result{RequestID: reqID, Mode: "user"}

	var known []*profile.UserProfile
	for _, id := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, ok, err := e.profiles.Lookup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lookup user %d: %w", id, err)
		}
		if !ok {
			res.UnknownUsers = append(res.UnknownUsers, id)
			continue
		}
		if len(p.Preferences) != e.idx.Vocabulary().Len() {
			return nil, fmt.Errorf("%w: user %d has %d genre slots, catalog has %d",
				profile.ErrSchemaMismatch, id, len(p.Preferences), e.idx.Vocabulary().Len())
		}
		known = append(known, p)
		res.Users = append(res.Users, id)
	}

	if len(known) > 0 {
		var (
			merged   []Recommendation
			inResult = make(map[int]struct{})
			inGenres = make(map[int]struct{})
		)
		for _, p := range known {
			active := p.TopGenres(q.GenresToConsider)
			for _, gi := range active {
				if _, dup := inGenres[gi]; !dup {
					inGenres[gi] = struct{}{}
					res.Genres = append(res.Genres, e.idx.Vocabulary().Name(gi))
				}
			}

			for _, rec := range e.recommendForUser(p, active, q.FilterWatched) {
				if _, dup := inResult[rec.ID]; dup {
					continue
				}
				inResult[rec.ID] = struct{}{}
				merged = append(merged, rec)
			}
		}
		res.Total = len(merged)
		res.Anime = truncate(merged, limit)
	}

	res.State = StateEmpty
	if len(res.Anime) > 0 {
		res.State = StateFound
	}

	e.finish(res, start, logger)
	e.store(key, res)
	return res, nil
}

// recommendForUser ranks the candidates for one user's active genres.
func (e *Engine) recommendForUser(p *profile.UserProfile, active []int, filterWatched bool) []Recommendation {
	if len(active) == 0 {
		return nil
	}

	// genreCount[g] is how many watched anime carry genre g, so a candidate's score
	// is the sum of genreCount over its genres.
	genreCount := make([]int, e.idx.Vocabulary().Len())
	for _, id := range p.Watched {
		genres, ok := e.idx.Genres(id)
		if !ok {
			continue
		}
		for _, g := range genres {
			genreCount[g]++
		}
	}

	var watched map[int]struct{}
	if filterWatched {
		watched = p.WatchedSet()
	}

	tokens := make([][]int, len(active))
	for i, gi := range active {
		tokens[i] = []int{gi}
	}

	type candidate struct {
		rec      Recommendation
		position int
	}
	var cands []candidate
	entries := e.idx.Entries()
	for i := range entries {
		entry := &entries[i]
		if !matchesAll(entry, tokens) {
			continue
		}
		if _, seen := watched[entry.Anime.ID]; seen {
			continue
		}
		score := 0
		for _, g := range entry.GenreIdx {
			score += genreCount[g]
		}
		cands = append(cands, candidate{
			rec:      Recommendation{Anime: entry.Anime, Similarity: score},
			position: entry.Position,
		})
	}

	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.rec.Similarity != b.rec.Similarity {
			return a.rec.Similarity > b.rec.Similarity
		}
		if a.rec.HasRating != b.rec.HasRating {
			return a.rec.HasRating
		}
		if a.rec.Rating != b.rec.Rating {
			return a.rec.Rating > b.rec.Rating
		}
		return a.position < b.position
	})

	out := make([]Recommendation, len(cands))
	for i, c := range cands {
		out[i] = c.rec
	}
	return out
}

func dedupInts(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
