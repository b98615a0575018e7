package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go-track-report/internal/store"
)

const reportsPrefix = "/api/v1/reports/"

// runIDFromPath extracts the run ID between the reports prefix and an
// optional suffix like "/logs".
func runIDFromPath(path, suffix string) string {
	if !strings.HasPrefix(path, reportsPrefix) || !strings.HasSuffix(path, suffix) {
		return ""
	}
	return path[len(reportsPrefix) : len(path)-len(suffix)]
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// ListReports lists all report runs
// @Summary List report runs
// @Description Get all report runs with their current status, newest first
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{} "Report runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [get]
func ListReports(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to retrieve runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetReport fetches one report run
// @Summary Get a report run
// @Description Get a single report run by ID
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunRecord "Report run"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /reports/{id} [get]
func GetReport(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// GetReportErrors lists a run's recorded failures
// @Summary Get run errors
// @Description Get the failures recorded for a report run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/errors [get]
func GetReportErrors(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/errors")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetReportProgress lists a run's per-stage progress
// @Summary Get run progress
// @Description Get per-stage progress rows for a report run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Stage progress"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/progress [get]
func GetReportProgress(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/progress")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	progress, err := store.GetStageProgress(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"run_id":   runID,
		"progress": progress,
		"count":    len(progress),
	})
}

// GetReportLogs lists a run's persisted log lines
// @Summary Get run logs
// @Description Get structured log lines for a report run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Param limit query int false "Max lines to return" default(100)
// @Success 200 {object} map[string]interface{} "Run logs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/logs [get]
func GetReportLogs(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/logs")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := store.GetRunLogs(runID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"run_id": runID,
		"logs":   logs,
		"count":  len(logs),
		"limit":  limit,
	})
}
