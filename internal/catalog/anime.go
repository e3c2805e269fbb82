// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

// Anime is one row of the cleaned anime catalog.
type Anime struct {
	// ID is the anime identifier (unique key).
	ID int `json:"anime_id"`

	// Name is the display title.
	Name string `json:"name"`

	// Genres is the ordered, deduplicated set of genre names.
	Genres []string `json:"genre"`

	// Rating is the community rating. Only meaningful when HasRating is true.
	Rating float64 `json:"rating"`

	// HasRating is false when the rating is unknown.
	HasRating bool `json:"has_rating"`
}


// Entry pairs a catalog record with the vocabulary indices of its genres.
type Entry struct {
	Anime Anime

	// GenreIdx holds vocabulary indices in the same order as Anime.Genres.
	GenreIdx []int

	// Position is the zero-based row position in catalog order.
	Position int
}
