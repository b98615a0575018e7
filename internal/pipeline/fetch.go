package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go-track-report/internal/config"
	"go-track-report/internal/model"
)

// ------------------- Track Fetcher -------------------

// followMeeResponse wraps the tracking service's JSON payload. A response
// without a Data field means no points were recorded in the window.
type followMeeResponse struct {
	Data []model.TrackPoint `json:"Data"`
}

// TrackFetcher queries the tracking service for a device's positions.
type TrackFetcher struct {
	cfg    config.FollowMeeConfig
	client *http.Client
}

// NewTrackFetcher creates a fetcher with a 30s request timeout.
func NewTrackFetcher(cfg config.FollowMeeConfig) *TrackFetcher {
	return &TrackFetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns the device's track points between startDate and stopDate
// (YYYY-MM-DD). The query window starts at 11pm of the start date, matching
// the daily report boundary. A response with no data yields an empty slice
// and no error; the rest of the pipeline still runs.
func (f *TrackFetcher) Fetch(ctx context.Context, startDate, stopDate string) ([]model.TrackPoint, error) {
	q := url.Values{}
	q.Set("key", f.cfg.APIKey)
	q.Set("username", f.cfg.Username)
	q.Set("output", "json")
	q.Set("function", "daterangefordevice")
	q.Set("from", startDate+" 11pm")
	q.Set("to", stopDate)
	q.Set("deviceid", f.cfg.DeviceID)

	historyURL := fmt.Sprintf("%s/tracks.aspx?%s", f.cfg.URL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, historyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build track query: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("track query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("track query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read track response: %w", err)
	}

	var parsed followMeeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode track response: %w", err)
	}

	return parsed.Data, nil
}
