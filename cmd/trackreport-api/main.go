// Command trackreport-api serves the report-run history over HTTP.
//
// @title Track Report API
// @version 1.0
// @description Run history for the daily location report pipeline
// @BasePath /api/v1
package main

import (
	"fmt"

	"go-track-report/internal/api"
	"go-track-report/internal/config"
	"go-track-report/internal/logging"
	"go-track-report/internal/store"
	"go-track-report/pkg/router"

	_ "go-track-report/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if err := store.InitDB(cfg.Database.Path); err != nil {
		logging.Fatal().Err(err).Msg("failed to open run history store")
	}
	defer store.Close()

	r := router.New()
	api.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := r.Start(addr); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
