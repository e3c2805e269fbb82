// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package query builds parameterized WHERE clauses for the DuckDB mirror.
//
// Column names are always supplied by the caller as constants; only values
// travel as bind arguments.
//
//	wb := query.NewWhereBuilder()
//	query.In(wb, "g.name", []string{"Action", "Drama"})
//	query.In(wb, "p.user_id", []int{42, 43})
//	wb.AtLeast("p.preference", 7)
//	where, args := wb.BuildWithPrefix()
//	// WHERE g.name IN (?, ?) AND p.user_id IN (?, ?) AND p.preference >= ?
package query
