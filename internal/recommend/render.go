// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package recommend

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Render writes the human-readable form of a result.
func Render(w io.Writer, r *Result) error {
	switch r.State {
	case StateAmbiguous:
		return renderSuggestions(w, r.Suggestions)
	case StateNotFound:
		return renderNotFound(w, r)
	case StateEmpty:
		return renderEmpty(w, r)
	case StateFound:
		return renderTable(w, r)
	default:
		_, err := fmt.Fprintf(w, "Query did not complete (state %s).\n", r.State)
		return err
	}
}

func renderSuggestions(w io.Writer, suggestions []Suggestion) error {
	for _, s := range suggestions {
		if _, err := fmt.Fprintf(w, "Genre %q not found. Did you mean: %s?\n", s.Token, strings.Join(s.Candidates, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "Please resubmit the query with a listed genre.")
	return err
}

func renderNotFound(w io.Writer, r *Result) error {
	for _, tok := range r.Unmatched {
		if _, err := fmt.Fprintf(w, "Genre %q not found.\n", tok); err != nil {
			return err
		}
	}
	if len(r.Suggestions) > 0 {
		if err := renderSuggestions(w, r.Suggestions); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Available genres:"); err != nil {
		return err
	}
	for _, g := range r.Vocabulary {
		if _, err := fmt.Fprintf(w, "  %s\n", g); err != nil {
			return err
		}
	}
	return nil
}

func renderEmpty(w io.Writer, r *Result) error {
	var err error
	switch {
	case r.Mode == "user" && len(r.Users) == 0:
		_, err = fmt.Fprintf(w, "No recommendations: unknown user(s) %s.\n", joinInts(r.UnknownUsers))
	case r.Mode == "user":
		_, err = fmt.Fprintf(w, "No recommendations for user(s) %s.\n", joinInts(r.Users))
	default:
		_, err = fmt.Fprintf(w, "No anime found with genres: %s.\n", strings.Join(r.Genres, ", "))
	}
	return err
}

func renderTable(w io.Writer, r *Result) error {
	if _, err := fmt.Fprintf(w, "Genres: %s\n", strings.Join(r.Genres, ", ")); err != nil {
		return err
	}
	if len(r.UnknownUsers) > 0 {
		if _, err := fmt.Fprintf(w, "Unknown users ignored: %s\n", joinInts(r.UnknownUsers)); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "anime_id\tname\trating\tgenre")
	for _, a := range r.Anime {
		rating := "-"
		if a.HasRating {
			rating = strconv.FormatFloat(a.Rating, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.ID, a.Name, rating, strings.Join(a.Genres, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d of %d result(s)\n", len(r.Anime), r.Total)
	return err
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
