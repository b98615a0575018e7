package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-track-report/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run-history database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			report_date TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS stage_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			status TEXT,
			started_at DATETIME,
			ended_at DATETIME,
			records INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			details TEXT,
			created_at DATETIME
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database. Save functions become no-ops afterwards.
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// Ready reports whether the store has been initialized.
func Ready() bool {
	return db != nil
}

// SaveRun records a new report run in pending state.
func SaveRun(runID, reportDate string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, report_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, reportDate, "pending", now, now)
	return err
}

// UpdateRunStatus updates a run's status.
func UpdateRunStatus(runID, status string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records a failure for a run.
func SaveRunError(runID, stage string, runErr error) error {
	if db == nil || runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, stage, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, runErr.Error(), now)
	return err
}

// SaveStageProgress records start/end and record counts for a stage.
func SaveStageProgress(runID, stage, status string, startedAt, endedAt *time.Time, records int) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`INSERT INTO stage_progress (run_id, stage, status, started_at, ended_at, records) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, status, startedAt, endedAt, records)
	return err
}

// SaveRunLog persists a structured log line for a run. The details map is
// stored as JSON.
func SaveRunLog(runID, stage, level, message string, details map[string]interface{}) error {
	if db == nil {
		return nil
	}
	var detailsJSON []byte
	if details != nil {
		var err error
		if detailsJSON, err = json.Marshal(details); err != nil {
			return fmt.Errorf("failed to marshal log details: %w", err)
		}
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, string(detailsJSON), now)
	return err
}

// ListRuns returns all report runs, newest first.
func ListRuns() ([]model.RunRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	rows, err := db.Query(`SELECT id, report_date, status, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var r model.RunRecord
		if err := rows.Scan(&r.ID, &r.ReportDate, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches a single run by ID.
func GetRun(runID string) (*model.RunRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	var r model.RunRecord
	err := db.QueryRow(`SELECT id, report_date, status, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.ReportDate, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRunErrors returns recorded failures for a run.
func GetRunErrors(runID string) ([]model.RunError, error) {
	if db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	rows, err := db.Query(`SELECT run_id, stage, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []model.RunError
	for rows.Next() {
		var e model.RunError
		if err := rows.Scan(&e.RunID, &e.Stage, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// GetStageProgress returns per-stage progress rows for a run in insertion order.
func GetStageProgress(runID string) ([]model.StageProgress, error) {
	if db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	rows, err := db.Query(`SELECT run_id, stage, status, started_at, ended_at, records FROM stage_progress WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.StageProgress
	for rows.Next() {
		var p model.StageProgress
		if err := rows.Scan(&p.RunID, &p.Stage, &p.Status, &p.StartedAt, &p.EndedAt, &p.Records); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// GetRunLogs returns up to limit log lines for a run, oldest first.
func GetRunLogs(runID string, limit int) ([]model.RunLog, error) {
	if db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	rows, err := db.Query(`SELECT run_id, stage, level, message, details, created_at FROM run_logs WHERE run_id = ? ORDER BY id LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.RunLog
	for rows.Next() {
		var l model.RunLog
		if err := rows.Scan(&l.RunID, &l.Stage, &l.Level, &l.Message, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
