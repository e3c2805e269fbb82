// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package catalog builds the read-only anime catalog index used by every other stage.
//
// # Overview
//
// A catalog load produces two structures that are immutable for the rest of a run:
//
//   - Vocabulary: the deduplicated list of genre names, indexed 0..N-1 in order of
//     first appearance while scanning catalog rows top to bottom.
//   - Index: anime_id -> Anime record plus the ordered genre indices it carries.
//
// Vocabulary positions define the slots of every user genre-preference vector, so a
// profile table is only interpretable against the vocabulary of the same catalog
// snapshot.
//
// # Genre Strings
//
// The raw genre field is a comma separated list ("Action, Adventure, Drama"). Tokens
// are split on a comma followed by optional whitespace and trimmed. Case is preserved:
// "Action" and "action" are distinct vocabulary entries. Case-insensitive comparison
// is a query concern and uses Normalize.
//
// # Loading
//
//	records, stats, err := catalog.LoadCSV(f, logger)
//	idx := catalog.NewIndex(records, logger)
//
// LoadCSV trusts the upstream cleaning contract but still skips (and logs) rows that
// violate it instead of aborting. Clean implements that upstream stage for a raw
// catalog export.
package catalog
