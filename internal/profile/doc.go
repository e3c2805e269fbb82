// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package profile persists and serves per-user genre preference profiles.
//
// # Table Format
//
// The profile table is a tab-delimited text file:
//
//	<entries>\t<users>
//	user_id\tAction\tComedy\t...\tanimes_rated
//	42\t8.00\t0.00\t...\t[1, 7, 19]
//
// The first line declares the number of rating events that produced the table and
// the number of user rows. The second line names the columns; genre columns follow
// the catalog vocabulary order. Preference values use two decimals ("NaN" when the
// unrated sentinel is NaN) and the last column is a bracketed anime id list.
//
// A table is written once per aggregation run through Writer, which stages the
// output in a temporary file and renames it into place on Commit. Readers validate
// the header against the vocabulary of the current catalog and quarantine rows that
// do not parse.
//
// # Lookups
//
// The query engine reads profiles through the Lookup interface. Table serves lookups
// from memory; BadgerIndex serves them from a badger key-value store populated from
// a table, which avoids parsing the full file on every process start. The index
// records the Stamp of the table it was loaded from so a regenerated table is
// detected.
package profile
