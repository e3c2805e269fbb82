// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"context"
	"math"
	"sort"
)

// UserProfile is one user's genre preference vector and watched anime list.
type UserProfile struct {
	UserID int

	// Preferences has one slot per vocabulary genre. Slots with no observations
	// hold 0 or NaN depending on the aggregation sentinel.
	Preferences []float64

	// Watched lists anime ids in first-rated order without duplicates.
	Watched []int
}

// Sink receives finalized profiles. The aggregator reuses p after Write returns,
// so implementations that retain it must copy.
type Sink interface {
	Write(p *UserProfile) error
}

// Lookup resolves a user id to a profile.
type Lookup interface {
	Lookup(ctx context.Context, userID int) (*UserProfile, bool, error)
}

// RatedGenres returns the genre indices with a positive preference, ordered by
// preference descending and then by index.
func (p *UserProfile) RatedGenres() []int {
	out := make([]int, 0, len(p.Preferences))
	for i, v := range p.Preferences {
		if !math.IsNaN(v) && v > 0 {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return p.Preferences[out[a]] > p.Preferences[out[b]]
	})
	return out
}

// TopGenres returns at most k of RatedGenres.
func (p *UserProfile) TopGenres(k int) []int {
	rated := p.RatedGenres()
	if k < len(rated) {
		rated = rated[:k]
	}
	return rated
}

// WatchedSet returns the watched ids as a set.
func (p *UserProfile) WatchedSet() map[int]struct{} {
	set := make(map[int]struct{}, len(p.Watched))
	for _, id := range p.Watched {
		set[id] = struct{}{}
	}
	return set
}

// Clone returns a deep copy.
func (p *UserProfile) Clone() *UserProfile {
	c := &UserProfile{UserID: p.UserID}
	c.Preferences = append([]float64(nil), p.Preferences...)
	c.Watched = append([]int(nil), p.Watched...)
	return c
}

// Collector is an in-memory Sink.
type Collector struct {
	Profiles []*UserProfile
}

// Write appends a copy of p.
func (c *Collector) Write(p *UserProfile) error {
	c.Profiles = append(c.Profiles, p.Clone())
	return nil
}
