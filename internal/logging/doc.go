// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package logging provides the zerolog-based process logger for animerec.
//
// The CLI calls Init once from main with the logging section of the
// configuration. Long-lived components receive a zerolog.Logger by value and
// tag it with their name:
//
//	logger := logging.WithComponent("aggregate")
//	agg, err := aggregate.New(idx, opts, logger)
//
// HTTP handlers log through the request context so every line carries the
// request id assigned by the API middleware:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("query failed")
//
// # Configuration
//
//   - LOG_LEVEL: trace, debug, info, warn, error, fatal, panic, disabled (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Unknown levels fall back to info.
package logging
