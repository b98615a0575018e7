package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"go-track-report/internal/logging"
	"go-track-report/internal/model"
)

// ------------------- CSV Writer -------------------

// ReportHeader is the fixed CSV column set, in output order.
var ReportHeader = []string{"Date", "Lat", "Lon", "Speed (mph)", "Accuracy", "Type", "Address"}

// AddressResolver turns coordinates into a street address. Implemented by
// Geocoder; tests substitute fakes.
type AddressResolver interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// timestampLayouts are tried in order when parsing a point's timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// WriteReportCSV streams one row per track point to path, resolving each
// point's street address along the way. Row order matches point order. A
// failed or empty address lookup degrades to an empty Address field for
// that row and never blocks the remaining points.
func WriteReportCSV(ctx context.Context, resolver AddressResolver, points []model.TrackPoint, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(ReportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range points {
		address, err := resolver.ReverseGeocode(ctx, p.Latitude, p.Longitude)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Warn().
				Err(err).
				Float64("lat", p.Latitude).
				Float64("lon", p.Longitude).
				Msg("address lookup failed, leaving address empty")
			address = ""
		}

		row := model.ReportRow{TrackPoint: p, Address: address}
		if err := w.Write(formatRow(row)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func formatRow(row model.ReportRow) []string {
	return []string{
		formatPointDate(row.Date),
		strconv.FormatFloat(row.Latitude, 'f', -1, 64),
		strconv.FormatFloat(row.Longitude, 'f', -1, 64),
		strconv.FormatFloat(row.SpeedMph, 'f', -1, 64),
		strconv.FormatFloat(row.Accuracy, 'f', -1, 64),
		row.Type,
		row.Address,
	}
}

// formatPointDate re-emits a point timestamp on a 12-hour clock. No
// timezone conversion is applied beyond what the parsed value carries. An
// unparseable timestamp passes through unchanged.
func formatPointDate(s string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 03:04:05 PM")
		}
	}
	return s
}
