// Package pipeline implements the daily location report as a single
// forward pipeline: fetch the day's track, enrich and write the CSV, fetch
// the plotted map image, render the PDF, distribute the results. Every
// step runs sequentially; each stage consumes the previous stage's output
// as a value or file path.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-track-report/internal/config"
	"go-track-report/internal/logging"
	"go-track-report/internal/store"
	"go-track-report/pkg/utils"
)

// ------------------- Pipeline Runner -------------------

// Stage identifies a pipeline stage, used for failure reporting and run
// history.
type Stage string

const (
	StageSetup      Stage = "setup"
	StageFetch      Stage = "fetch"
	StageCSV        Stage = "geocode_csv"
	StageMapImage   Stage = "map_image"
	StageRender     Stage = "render"
	StageDistribute Stage = "distribute"
)

// StageError reports which stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Runner wires the pipeline stages together for one configuration.
type Runner struct {
	cfg         *config.Config
	staging     *utils.StagingManager
	fetcher     *TrackFetcher
	geocoder    AddressResolver
	mapFetcher  *MapFetcher
	renderer    *Renderer
	distributor *Distributor
}

// New builds a runner from the loaded configuration.
func New(cfg *config.Config) *Runner {
	sm := utils.NewStagingManager(cfg.StagingDir())
	return &Runner{
		cfg:         cfg,
		staging:     sm,
		fetcher:     NewTrackFetcher(cfg.FollowMee),
		geocoder:    NewGeocoder(cfg.Google),
		mapFetcher:  NewMapFetcher(cfg.Google),
		renderer:    NewRenderer(sm, WKHTMLConverter{}),
		distributor: NewDistributor(cfg.Paths.Targets),
	}
}

// Run produces and distributes one day's report. The report date is "today"
// in the configured timezone; the query window opens at 11pm the prior
// day. The first failing stage aborts the run with a StageError naming it;
// staging files from earlier stages are left in place for inspection.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New().String()
	today := time.Now().In(r.cfg.Location())
	stopDate := today.Format("2006-01-02")
	startDate := today.AddDate(0, 0, -1).Format("2006-01-02")

	logging.Info().
		Str("run_id", runID).
		Str("report_date", stopDate).
		Msg("starting report run")

	logStoreErr(store.SaveRun(runID, stopDate))
	logStoreErr(store.UpdateRunStatus(runID, "running"))

	// --- SETUP: staging and destination directories ---
	if err := r.staging.Ensure(); err != nil {
		return r.fail(runID, StageSetup, err)
	}
	if err := r.distributor.VerifyTargets(); err != nil {
		return r.fail(runID, StageSetup, err)
	}

	// --- TRACK FETCH ---
	started := r.stageStarted(runID, StageFetch)
	points, err := r.fetcher.Fetch(ctx, startDate, stopDate)
	if err != nil {
		return r.fail(runID, StageFetch, err)
	}
	r.stageCompleted(runID, StageFetch, started, len(points))
	logging.Debug().Int("points", len(points)).Msg("fetched track data")

	// --- GEOCODE + CSV ---
	started = r.stageStarted(runID, StageCSV)
	csvPath := r.staging.TempPath("csv")
	if err := WriteReportCSV(ctx, r.geocoder, points, csvPath); err != nil {
		return r.fail(runID, StageCSV, err)
	}
	r.stageCompleted(runID, StageCSV, started, len(points))
	logging.Debug().Str("path", csvPath).Msg("wrote CSV")

	// --- MAP IMAGE ---
	started = r.stageStarted(runID, StageMapImage)
	pngPath := r.staging.TempPath("png")
	if err := r.mapFetcher.Fetch(ctx, points, pngPath); err != nil {
		return r.fail(runID, StageMapImage, err)
	}
	r.stageCompleted(runID, StageMapImage, started, len(points))
	logging.Debug().Str("path", pngPath).Msg("downloaded map image")

	// --- RENDER ---
	started = r.stageStarted(runID, StageRender)
	pdfPath, err := r.renderer.Render(today, csvPath, pngPath)
	if err != nil {
		return r.fail(runID, StageRender, err)
	}
	r.stageCompleted(runID, StageRender, started, len(points))
	logging.Debug().Str("path", pdfPath).Msg("generated PDF")

	// --- DISTRIBUTE ---
	started = r.stageStarted(runID, StageDistribute)
	if err := r.distributor.Distribute(today, pdfPath, csvPath); err != nil {
		return r.fail(runID, StageDistribute, err)
	}
	r.stageCompleted(runID, StageDistribute, started, len(r.cfg.Paths.Targets))

	logStoreErr(store.UpdateRunStatus(runID, "completed"))
	logging.Info().
		Str("run_id", runID).
		Int("points", len(points)).
		Int("targets", len(r.cfg.Paths.Targets)).
		Msg("report run completed")
	return nil
}

func (r *Runner) stageStarted(runID string, stage Stage) time.Time {
	now := time.Now()
	logStoreErr(store.SaveStageProgress(runID, string(stage), "started", &now, nil, 0))
	return now
}

func (r *Runner) stageCompleted(runID string, stage Stage, started time.Time, records int) {
	now := time.Now()
	logStoreErr(store.SaveStageProgress(runID, string(stage), "completed", &started, &now, records))
	logStoreErr(store.SaveRunLog(runID, string(stage), "info", "stage completed", map[string]interface{}{
		"duration_ms": now.Sub(started).Milliseconds(),
		"records":     records,
	}))
}

func (r *Runner) fail(runID string, stage Stage, err error) error {
	now := time.Now()
	logStoreErr(store.SaveStageProgress(runID, string(stage), "failed", nil, &now, 0))
	logStoreErr(store.SaveRunError(runID, string(stage), err))
	logStoreErr(store.UpdateRunStatus(runID, "failed"))
	return &StageError{Stage: stage, Err: err}
}

// Run history is best-effort: a broken store never fails a report run.
func logStoreErr(err error) {
	if err != nil {
		logging.Warn().Err(err).Msg("run history update failed")
	}
}
