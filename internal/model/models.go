package model

import "time"

// TrackPoint is a single GPS fix as returned by the tracking service.
// Field names mirror the FollowMee JSON payload.
type TrackPoint struct {
	Date      string  `json:"Date"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
	SpeedMph  float64 `json:"Speed(mph)"`
	Accuracy  float64 `json:"Accuracy"`
	Type      string  `json:"Type"`
}

// ReportRow is a TrackPoint enriched with a resolved street address.
// Address is empty when reverse geocoding yielded no usable result.
type ReportRow struct {
	TrackPoint
	Address string `json:"address"`
}

// Report groups the file artifacts produced for one calendar day.
type Report struct {
	Date    time.Time `json:"date"`
	CSVPath string    `json:"csv_path"`
	PDFPath string    `json:"pdf_path"`
}

// RunRecord is one row of the report-run history.
type RunRecord struct {
	ID         string    `json:"id"`
	ReportDate string    `json:"report_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StageProgress records start/end and record counts for a pipeline stage.
type StageProgress struct {
	RunID     string     `json:"run_id"`
	Stage     string     `json:"stage"`
	Status    string     `json:"status"` // "started", "completed", "failed"
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Records   int        `json:"records"`
}

// RunLog is a structured log line persisted for a run.
type RunLog struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RunError is a recorded failure for a run.
type RunError struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"error_message"`
	CreatedAt time.Time `json:"created_at"`
}
