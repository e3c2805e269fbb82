// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type scopeKey struct{}

// scope is the logging state carried by a context. It is copied on every
// change so a parent context never sees its children's values.
type scope struct {
	requestID string
	command   string
	logger    *zerolog.Logger
}

func scopeFrom(ctx context.Context) scope {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok {
		return s
	}
	return scope{}
}

func withScope(ctx context.Context, update func(*scope)) context.Context {
	s := scopeFrom(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// GenerateRequestID returns a new random request id.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID tags ctx with the id of one HTTP request or CLI query.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = id })
}

// RequestIDFromContext returns the request id in ctx, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

// ContextWithCommand tags ctx with the CLI command being run.
func ContextWithCommand(ctx context.Context, name string) context.Context {
	return withScope(ctx, func(s *scope) { s.command = name })
}

// CommandFromContext returns the CLI command in ctx, or "" if none.
func CommandFromContext(ctx context.Context) string {
	return scopeFrom(ctx).command
}

// ContextWithLogger stores a base logger in the context.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return withScope(ctx, func(s *scope) { s.logger = &logger })
}

// LoggerFromContext returns the base logger stored in ctx, or the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return *l
	}
	return Logger()
}

// Ctx returns the context logger with the command and request id attached.
//
//	logging.Ctx(ctx).Info().Msg("query served")
//	// {"level":"info","command":"genre","request_id":"9b2c...","message":"query served"}
func Ctx(ctx context.Context) *zerolog.Logger {
	s := scopeFrom(ctx)
	logger := LoggerFromContext(ctx)
	if s.command == "" && s.requestID == "" {
		return &logger
	}
	lc := logger.With()
	if s.command != "" {
		lc = lc.Str("command", s.command)
	}
	if s.requestID != "" {
		lc = lc.Str("request_id", s.requestID)
	}
	logger = lc.Logger()
	return &logger
}
