// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/cache"
	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/middleware"
	"github.com/tomtom215/animerec/internal/recommend"
)

// Recommender is the query surface the handlers need.
type Recommender interface {
	FindByGenre(ctx context.Context, q recommend.GenreQuery) (*recommend.Result, error)
	FindByUser(ctx context.Context, q recommend.UserQuery) (*recommend.Result, error)
	Vocabulary() []string
	CacheStats() (cache.Stats, bool)
}

// SummaryStore serves the reporting endpoints. *database.DB implements it.
type SummaryStore interface {
	Ping(ctx context.Context) error
	GenreSummary(ctx context.Context) ([]database.GenreStat, error)
	ProfileCount(ctx context.Context) (int, error)
	Preferences(ctx context.Context, f database.PreferenceFilter) ([]database.PreferenceRow, error)
	TopUsers(ctx context.Context, genre string, n int) ([]int, error)
}

// GenreFans lists the users who rate a genre highest.
type GenreFans struct {
	Genre string `json:"genre"`
	Users []int  `json:"users"`
}

// defaultTopUsers applies when /genres/{genre}/top is called without n.
const defaultTopUsers = 10

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	engine  Recommender
	store   SummaryStore
	monitor *middleware.PerformanceMonitor
	logger  zerolog.Logger
	started time.Time
}

// NewHandler creates the handlers. store and monitor may be nil; the routes
// that need them then report 503.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Recommender, store SummaryStore, monitor *middleware.PerformanceMonitor, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		store:   store,
		monitor: monitor,
		logger:  logger.With().Str("component", "api").Logger(),
		started: time.Now(),
	}
}

// HealthStatus is the body of /api/v1/health.
type HealthStatus struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Genres    int    `json:"genres"`
	Database  string `json:"database"`
	Profiles  int    `json:"profiles,omitempty"`
	CacheKeys int64  `json:"cache_keys,omitempty"`
}

// Health reports liveness. A failing DuckDB mirror degrades the status but
// still answers 200, since queries are served from memory.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:   "healthy",
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Genres:   len(h.engine.Vocabulary()),
		Database: "disabled",
	}
	if stats, ok := h.engine.CacheStats(); ok {
		status.CacheKeys = stats.TotalKeys
	}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("database health check failed")
			status.Status = "degraded"
			status.Database = "unreachable"
		} else {
			status.Database = "ok"
			if n, err := h.store.ProfileCount(ctx); err == nil {
				status.Profiles = n
			}
		}
	}

	respondJSON(w, r, http.StatusOK, status, Metadata{})
}

// Genres returns the vocabulary in catalog order.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.engine.Vocabulary(), Metadata{})
}

// GenreSummary returns per-genre user counts and preference means from the DuckDB mirror.
func (h *Handler) GenreSummary(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, r, http.StatusServiceUnavailable, &APIError{
			Code:    CodeUnavailable,
			Message: "genre summaries need the database mirror (database.enabled)",
		}, nil)
		return
	}

	start := time.Now()
	stats, err := h.store.GenreSummary(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, &APIError{Code: CodeInternal, Message: "genre summary query failed"}, nil)
		return
	}
	respondJSON(w, r, http.StatusOK, stats, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// TopUsers lists the users with the highest preference for one genre. The
// genre path segment is matched case-insensitively against the vocabulary.
func (h *Handler) TopUsers(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, r, http.StatusServiceUnavailable, &APIError{
			Code:    CodeUnavailable,
			Message: "genre rankings need the database mirror (database.enabled)",
		}, nil)
		return
	}

	genre, ok := h.canonicalGenre(chi.URLParam(r, "genre"))
	if !ok {
		respondError(w, r, http.StatusNotFound, &APIError{Code: CodeNotFound, Message: "unknown genre"},
			map[string]interface{}{"vocabulary": h.engine.Vocabulary()})
		return
	}
	n, perr := intParam(r.URL.Query(), "n")
	if perr != nil {
		respondError(w, r, http.StatusBadRequest, perr.apiError(), nil)
		return
	}
	switch {
	case n == 0:
		n = defaultTopUsers
	case n < 0 || n > 1000:
		respondError(w, r, http.StatusBadRequest, &APIError{
			Code:    CodeValidation,
			Message: "n must be between 1 and 1000",
			Details: map[string]interface{}{"field": "n"},
		}, nil)
		return
	}

	start := time.Now()
	ids, err := h.store.TopUsers(r.Context(), genre, n)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, &APIError{Code: CodeInternal, Message: "genre ranking query failed"}, nil)
		return
	}
	if ids == nil {
		ids = []int{}
	}
	respondJSON(w, r, http.StatusOK, GenreFans{Genre: genre, Users: ids}, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

func (h *Handler) canonicalGenre(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, name := range h.engine.Vocabulary() {
		if strings.EqualFold(name, raw) {
			return name, true
		}
	}
	return "", false
}

// Preferences returns long-format preference rows from the DuckDB mirror.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, r, http.StatusServiceUnavailable, &APIError{
			Code:    CodeUnavailable,
			Message: "preference rows need the database mirror (database.enabled)",
		}, nil)
		return
	}
	f, apiErr := decodePreferenceFilter(r.URL.Query())
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	start := time.Now()
	rows, err := h.store.Preferences(r.Context(), f)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, &APIError{Code: CodeInternal, Message: "preference query failed"}, nil)
		return
	}
	if rows == nil {
		rows = []database.PreferenceRow{}
	}
	respondJSON(w, r, http.StatusOK, rows, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// RecommendGenre answers find-by-genre queries.
func (h *Handler) RecommendGenre(w http.ResponseWriter, r *http.Request) {
	q, apiErr := decodeGenreQuery(r.URL.Query())
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	res, err := h.engine.FindByGenre(r.Context(), q)
	h.respondResult(w, r, res, err)
}

// RecommendUser answers find-by-user queries.
func (h *Handler) RecommendUser(w http.ResponseWriter, r *http.Request) {
	q, apiErr := decodeUserQuery(r.URL.Query())
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	res, err := h.engine.FindByUser(r.Context(), q)
	h.respondResult(w, r, res, err)
}

// respondResult maps a query outcome to a status code and envelope.
func (h *Handler) respondResult(w http.ResponseWriter, r *http.Request, res *recommend.Result, err error) {
	switch {
	case err == nil:
	case recommend.IsUsageError(err):
		respondError(w, r, http.StatusBadRequest, usageAPIError(err), nil)
		return
	case errors.Is(err, recommend.ErrNoProfiles):
		respondError(w, r, http.StatusServiceUnavailable, &APIError{Code: CodeUnavailable, Message: err.Error()}, nil)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, &APIError{Code: CodeUnavailable, Message: "query canceled"}, nil)
		return
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("query failed")
		respondError(w, r, http.StatusInternalServerError, &APIError{Code: CodeInternal, Message: "query failed"}, nil)
		return
	}

	meta := Metadata{QueryTimeMS: res.Latency.Milliseconds(), Cached: res.CacheHit}
	if res.State == recommend.StateNotFound {
		respondError(w, r, http.StatusNotFound, &APIError{
			Code:    CodeNotFound,
			Message: res.Err().Error(),
			Details: map[string]interface{}{"unmatched": res.Unmatched},
		}, res)
		return
	}
	respondJSON(w, r, http.StatusOK, res, meta)
}

// ServerStats is the body of /api/v1/stats.
type ServerStats struct {
	Routes []middleware.RouteStats `json:"routes"`
	Cache  *CacheStats             `json:"cache,omitempty"`
}

// CacheStats reports the query result cache.
type CacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Keys      int64   `json:"keys"`
	HitRate   float64 `json:"hit_rate"`
}

// Stats reports request latency percentiles and cache effectiveness.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	out := ServerStats{Routes: []middleware.RouteStats{}}
	if h.monitor != nil {
		out.Routes = h.monitor.Stats()
	}
	if s, ok := h.engine.CacheStats(); ok {
		cs := &CacheStats{Hits: s.Hits, Misses: s.Misses, Evictions: s.Evictions, Keys: s.TotalKeys}
		if total := s.Hits + s.Misses; total > 0 {
			cs.HitRate = float64(s.Hits) / float64(total) * 100
		}
		out.Cache = cs
	}
	respondJSON(w, r, http.StatusOK, out, Metadata{})
}
