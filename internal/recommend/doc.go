// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package recommend implements the genre and user based anime query engine.
//
// # Query Modes
//
// FindByGenre resolves one or more genre names against the catalog vocabulary and
// returns every anime carrying all of them (or exactly them, in exact mode) ranked
// by community rating.
//
// FindByUser takes the top rated genres of one or more user profiles, selects the
// anime carrying all of a user's active genres and ranks them by how much their
// genres overlap with what the user has already watched.
//
// # Resolution
//
// Query genre tokens are compared case-insensitively. A token without an exact
// match is checked against the vocabulary with a SequenceMatcher ratio (cutoff 0.6
// by default). Close matches become suggestions and the query stops in the
// Ambiguous state; a token with no close match at all stops it in NotFound with
// the full vocabulary attached. Neither is an error: both are terminal states of
// the Result that ask the caller to resubmit.
//
//	Pending -> Resolved -> Found | Empty
//	Pending -> Ambiguous | NotFound
//
// # Usage
//
//	engine, err := recommend.NewEngine(idx, profiles, recommend.DefaultConfig(), logger)
//	res, err := engine.FindByGenre(ctx, recommend.GenreQuery{
//	    Genres: recommend.ParseGenreList("Action, Comedy"),
//	    Limit:  10,
//	})
//	switch res.State {
//	case recommend.StateFound:
//	    ...
//	case recommend.StateAmbiguous:
//	    // res.Suggestions
//	}
//
// # Thread Safety
//
// The engine only reads the catalog index and profile lookup, both immutable after
// load, and is safe for concurrent use. Cached results are shared and must be
// treated as read-only by callers.
package recommend
