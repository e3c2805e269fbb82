// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/validation"
)

// genreParams are the query parameters of /api/v1/recommend/genre.
type genreParams struct {
	Genres string `json:"genres" validate:"required,max=1024,genrelist"`
	Mode   string `json:"mode" validate:"omitempty,oneof=superset exact"`
	Limit  int    `json:"limit" validate:"gte=-1,lte=10000"`
}

// userParams are the query parameters of /api/v1/recommend/user.
type userParams struct {
	Users            string `json:"users" validate:"required,max=4096,idlist"`
	GenresToConsider int    `json:"genres_to_consider" validate:"required,gte=1"`
	FilterWatched    bool   `json:"filter_watched"`
	Limit            int    `json:"limit" validate:"gte=-1,lte=10000"`
}

// preferenceParams are the query parameters of /api/v1/preferences.
type preferenceParams struct {
	Genres string  `json:"genres" validate:"max=1024"`
	Users  string  `json:"users" validate:"omitempty,max=4096,idlist"`
	Min    float64 `json:"min" validate:"gte=0,lte=10"`
	Limit  int     `json:"limit" validate:"gte=0,lte=10000"`
}

// defaultPreferenceLimit applies when /api/v1/preferences is called without a limit.
const defaultPreferenceLimit = 1000

// paramError is a query parameter that could not be decoded.
type paramError struct {
	name  string
	value string
	want  string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.name, e.want, e.value)
}

func (e *paramError) apiError() *APIError {
	return &APIError{
		Code:    CodeValidation,
		Message: e.Error(),
		Details: map[string]interface{}{"field": e.name, "value": e.value},
	}
}

func intParam(q url.Values, name string) (int, *paramError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw, want: "an integer"}
	}
	return n, nil
}

func floatParam(q url.Values, name string) (float64, *paramError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &paramError{name: name, value: raw, want: "a number"}
	}
	return f, nil
}

func boolParam(q url.Values, name string) (bool, *paramError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &paramError{name: name, value: raw, want: "a boolean"}
	}
	return b, nil
}

// decodeGenreQuery reads and validates a genre query. The returned *APIError
// is nil on success.
func decodeGenreQuery(q url.Values) (recommend.GenreQuery, *APIError) {
	limit, err := intParam(q, "limit")
	if err != nil {
		return recommend.GenreQuery{}, err.apiError()
	}
	p := genreParams{
		Genres: strings.Join(q["genres"], ","),
		Mode:   strings.ToLower(strings.TrimSpace(q.Get("mode"))),
		Limit:  limit,
	}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return recommend.GenreQuery{}, toAPIError(verr)
	}

	return recommend.GenreQuery{
		Genres: recommend.ParseGenreList(p.Genres),
		Mode:   recommend.MatchMode(p.Mode),
		Limit:  p.Limit,
	}, nil
}

// decodeUserQuery reads and validates a user query.
func decodeUserQuery(q url.Values) (recommend.UserQuery, *APIError) {
	k, err := intParam(q, "genres_to_consider")
	if err != nil {
		return recommend.UserQuery{}, err.apiError()
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return recommend.UserQuery{}, err.apiError()
	}
	filter, err := boolParam(q, "filter_watched")
	if err != nil {
		return recommend.UserQuery{}, err.apiError()
	}

	p := userParams{
		Users:            strings.Join(q["users"], ","),
		GenresToConsider: k,
		FilterWatched:    filter,
		Limit:            limit,
	}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return recommend.UserQuery{}, toAPIError(verr)
	}

	ids, perr := recommend.ParseUserIDs(p.Users)
	if perr != nil {
		return recommend.UserQuery{}, usageAPIError(perr)
	}
	return recommend.UserQuery{
		UserIDs:          ids,
		GenresToConsider: p.GenresToConsider,
		FilterWatched:    p.FilterWatched,
		Limit:            p.Limit,
	}, nil
}

func toAPIError(verr *validation.RequestValidationError) *APIError {
	e := verr.ToAPIError()
	return &APIError{Code: e.Code, Message: e.Message, Details: e.Details}
}

func usageAPIError(err error) *APIError {
	apiErr := &APIError{Code: CodeValidation, Message: err.Error()}
	var ue *recommend.UsageError
	if errors.As(err, &ue) {
		apiErr.Details = map[string]interface{}{"field": ue.Param}
	}
	return apiErr
}

// decodePreferenceFilter reads and validates a preference row filter.
func decodePreferenceFilter(q url.Values) (database.PreferenceFilter, *APIError) {
	minPref, err := floatParam(q, "min")
	if err != nil {
		return database.PreferenceFilter{}, err.apiError()
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return database.PreferenceFilter{}, err.apiError()
	}
	p := preferenceParams{
		Genres: strings.Join(q["genres"], ","),
		Users:  strings.Join(q["users"], ","),
		Min:    minPref,
		Limit:  limit,
	}
	if verr := validation.ValidateStruct(&p); verr != nil {
		return database.PreferenceFilter{}, toAPIError(verr)
	}

	f := database.PreferenceFilter{
		Genres:        recommend.ParseGenreList(p.Genres),
		MinPreference: p.Min,
		Limit:         p.Limit,
	}
	if f.Limit == 0 {
		f.Limit = defaultPreferenceLimit
	}
	if strings.TrimSpace(p.Users) != "" {
		ids, perr := recommend.ParseUserIDs(p.Users)
		if perr != nil {
			return database.PreferenceFilter{}, usageAPIError(perr)
		}
		f.Users = ids
	}
	return f, nil
}
