// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package catalog

import (
	"github.com/rs/zerolog"
)

// Index maps anime ids to catalog entries and owns the genre vocabulary.
// An Index is immutable after NewIndex and safe for concurrent readers.
type Index struct {
	vocab   *Vocabulary
	entries []Entry
	byID    map[int]int
}

// NewIndex builds the index and vocabulary from catalog records in row order.
//
// Records with no genres are excluded. When an anime id appears more than once,
// the first row wins and later rows are logged and dropped.
func NewIndex(records []Anime, logger zerolog.Logger) *Index {
	logger = logger.With().Str("component", "catalog").Logger()

	idx := &Index{
		vocab:   NewVocabulary(),
		entries: make([]Entry, 0, len(records)),
		byID:    make(map[int]int, len(records)),
	}

	for i := range records {
		rec := records[i]
		if len(rec.Genres) == 0 {
			logger.Warn().Int("anime_id", rec.ID).Msg("Anime has no genres, excluded from index")
			continue
		}
		if _, dup := idx.byID[rec.ID]; dup {
			logger.Warn().Int("anime_id", rec.ID).Msg("Duplicate anime id, keeping first row")
			continue
		}

		genreIdx := make([]int, len(rec.Genres))
		for j, g := range rec.Genres {
			genreIdx[j] = idx.vocab.Add(g)
		}

		idx.byID[rec.ID] = len(idx.entries)
		idx.entries = append(idx.entries, Entry{
			Anime:    rec,
			GenreIdx: genreIdx,
			Position: len(idx.entries),
		})
	}

	logger.Debug().
		Int("anime", len(idx.entries)).
		Int("genres", idx.vocab.Len()).
		Msg("Catalog index built")

	return idx
}

// Vocabulary returns the genre vocabulary of this catalog snapshot.
func (idx *Index) Vocabulary() *Vocabulary {
	return idx.vocab
}

// Len returns the number of indexed anime.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Genres returns the vocabulary indices of the anime's genres.
func (idx *Index) Genres(id int) ([]int, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return nil, false
	}
	return idx.entries[i].GenreIdx, true
}

// Anime returns the catalog record for id.
func (idx *Index) Anime(id int) (Anime, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return Anime{}, false
	}
	return idx.entries[i].Anime, true
}

// Entries returns the index entries in catalog order. Callers must not modify them.
func (idx *Index) Entries() []Entry {
	return idx.entries
}
