// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"time"

	"github.com/tomtom215/animerec/internal/api"
	"github.com/tomtom215/animerec/internal/database"
	"github.com/tomtom215/animerec/internal/middleware"
)

// Request samples kept for /api/v1/stats, and the slow request log threshold.
const (
	perfWindow      = 1000
	slowRequestTime = time.Second
)

func runServe(ctx context.Context, a *app, args []string) (int, error) {
	fs := a.newFlagSet("serve")
	port := fs.Int("port", a.cfg.Server.Port, "listen port (overrides server.port)")
	if err := parseFlags(fs, args); err != nil {
		return exitUsage, err
	}
	a.cfg.Server.Port = *port

	engine, release, err := a.newEngine(ctx, true)
	if err != nil {
		return exitFailure, err
	}
	defer release()

	var store api.SummaryStore
	if a.cfg.Database.Enabled {
		db, err := database.New(&a.cfg.Database, a.logger)
		if err != nil {
			return exitFailure, err
		}
		defer func() {
			if err := db.Close(); err != nil {
				a.logger.Warn().Err(err).Msg("close database")
			}
		}()
		store = db
	}

	monitor := middleware.NewPerformanceMonitor(perfWindow, slowRequestTime, a.logger)
	h := api.NewHandler(engine, store, monitor, a.logger)
	router := api.NewRouter(h, api.RouterConfigFrom(&a.cfg.Server), a.logger)

	if err := api.Run(ctx, api.NewServer(&a.cfg.Server, router), a.logger); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}
