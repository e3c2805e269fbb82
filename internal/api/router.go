// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/middleware"
)

// healthRateLimit is the separate, looser limit for the health endpoint.
const healthRateLimit = 1000

// RouterConfig holds router-level settings.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	Timeout           time.Duration
}

// RouterConfigFrom maps the server configuration section.
func RouterConfigFrom(cfg *config.ServerConfig) RouterConfig {
	return RouterConfig{
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRequests: cfg.RateLimitReqs,
		RateLimitWindow:   cfg.RateLimitWindow,
		RateLimitDisabled: cfg.RateLimitDisabled,
		Timeout:           cfg.Timeout,
	}
}

// NewRouter builds the chi router.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouter(h *Handler, rc RouterConfig, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	if h.monitor != nil {
		r.Use(h.monitor.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rc.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "ETag"},
		MaxAge:         86400,
	}))
	r.Use(chimiddleware.Compress(5, "application/json"))
	if rc.Timeout > 0 {
		r.Use(chimiddleware.Timeout(rc.Timeout))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, &APIError{Code: CodeNotFound, Message: "no such endpoint"}, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, &APIError{Code: CodeValidation, Message: "method not allowed"}, nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(rateLimit(rc, healthRateLimit)).Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(rc, rc.RateLimitRequests))
			r.Get("/genres", h.Genres)
			r.Get("/genres/summary", h.GenreSummary)
			r.Get("/genres/{genre}/top", h.TopUsers)
			r.Get("/preferences", h.Preferences)
			r.Get("/recommend/genre", h.RecommendGenre)
			r.Get("/recommend/user", h.RecommendUser)
			r.Get("/stats", h.Stats)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// rateLimit limits by client IP; RealIP runs first so proxies are honoured.
func rateLimit(rc RouterConfig, requests int) func(http.Handler) http.Handler {
	if rc.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	window := rc.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, &APIError{Code: CodeRateLimited, Message: "rate limit exceeded"}, nil)
		}),
	)
}
