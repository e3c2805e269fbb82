// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the configuration loader and the HTTP
// API. Field names in errors come from the struct's json tag, falling back to the
// koanf tag, so messages name the key the user actually typed. Two tags are
// added for query strings: genrelist (comma-separated, at least one genre) and
// idlist (integer user ids separated by commas or whitespace).
//
//	type genreParams struct {
//	    Genres string `json:"genres" validate:"required,genrelist"`
//	    Mode   string `json:"mode" validate:"omitempty,oneof=superset exact"`
//	    Limit  int    `json:"limit" validate:"gte=-1,lte=10000"`
//	}
//
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
