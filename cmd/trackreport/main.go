package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go-track-report/internal/config"
	"go-track-report/internal/logging"
	"go-track-report/internal/pipeline"
	"go-track-report/internal/store"
)

func main() {
	verbose := flag.Bool("p", false, "print progress output")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logCfg := logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if *verbose {
		logCfg.Level = "debug"
		logCfg.Format = "console"
	}
	logging.Init(logCfg)

	// Run history is optional for the batch runner; a broken store is
	// reported but never blocks the report.
	if err := store.InitDB(cfg.Database.Path); err != nil {
		logging.Warn().Err(err).Msg("run history store unavailable")
	} else {
		defer store.Close()
	}

	runner := pipeline.New(cfg)
	if err := runner.Run(context.Background()); err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			logging.Error().
				Str("stage", string(stageErr.Stage)).
				Err(stageErr.Err).
				Msg("report run failed")
		} else {
			logging.Error().Err(err).Msg("report run failed")
		}
		os.Exit(1)
	}
}
