// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()
	if v1, v2 := GetValidator(), GetValidator(); v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
}

type queryParams struct {
	Genres string  `json:"genres" validate:"required,genrelist"`
	Users  string  `json:"users" validate:"omitempty,idlist"`
	Mode   string  `json:"mode,omitempty" validate:"omitempty,oneof=superset exact"`
	Limit  int     `json:"limit" validate:"gte=-1,lte=100"`
	Cutoff float64 `koanf:"fuzzy_cutoff" validate:"gte=0,lte=1"`
	Name   string  `validate:"omitempty,min=2,max=4"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	valid := queryParams{Genres: "Action, Comedy", Users: "42, 7", Mode: "exact", Limit: 10, Cutoff: 0.6}

	tests := []struct {
		name      string
		mutate    func(*queryParams)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*queryParams) {}, "", ""},
		{"blank entries tolerated", func(p *queryParams) { p.Genres = "Action,,  " }, "", ""},
		{"missing genres", func(p *queryParams) { p.Genres = "" }, "genres", "genres is required"},
		{"only commas", func(p *queryParams) { p.Genres = " , ," }, "genres", "genres must name at least one genre"},
		{"non-integer user", func(p *queryParams) { p.Users = "42,abc" }, "users", "users must be a list of integer user ids"},
		{"only separators", func(p *queryParams) { p.Users = " ,\t" }, "users", "users must be a list of integer user ids"},
		{"bad mode", func(p *queryParams) { p.Mode = "fuzzy" }, "mode", "mode must be one of: superset exact"},
		{"limit too small", func(p *queryParams) { p.Limit = -2 }, "limit", "limit must be greater than or equal to -1"},
		{"limit too large", func(p *queryParams) { p.Limit = 101 }, "limit", "limit must be less than or equal to 100"},
		{"koanf name", func(p *queryParams) { p.Cutoff = 1.5 }, "fuzzy_cutoff", "fuzzy_cutoff must be less than or equal to 1"},
		{"string min", func(p *queryParams) { p.Name = "x" }, "Name", "Name must be at least 2 characters"},
		{"string max", func(p *queryParams) { p.Name = "abcdef" }, "Name", "Name must be at most 4 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tt.mutate(&p)
			verr := ValidateStruct(&p)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(verr.Fields), verr)
			}
			fe, ok := verr.Field(tt.wantField)
			if !ok {
				t.Fatalf("no error for %q in %+v", tt.wantField, verr.Fields)
			}
			if fe.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", fe.Message, tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&queryParams{Limit: 1})
		if verr == nil {
			t.Fatal("expected error")
		}
		apiErr := verr.ToAPIError()
		if apiErr.Code != ErrorCode || apiErr.Details["field"] != "genres" {
			t.Errorf("ToAPIError() = %+v", apiErr)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()
		verr := ValidateStruct(&queryParams{Limit: 500, Mode: "x"})
		if verr == nil {
			t.Fatal("expected error")
		}
		apiErr := verr.ToAPIError()
		for _, field := range []string{"genres", "mode", "limit"} {
			if !strings.Contains(apiErr.Message, field+":") {
				t.Errorf("Message %q missing field %s", apiErr.Message, field)
			}
		}
		fields, ok := apiErr.Details["fields"].([]FieldError)
		if !ok || len(fields) != 3 {
			t.Errorf("Details[fields] = %#v", apiErr.Details["fields"])
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
