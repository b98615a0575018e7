package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go-track-report/internal/config"
	"go-track-report/internal/model"
)

// ------------------- Map Image Fetcher -------------------

// MapFetcher downloads a static map image with the day's track plotted.
type MapFetcher struct {
	cfg    config.GoogleConfig
	client *http.Client
}

// NewMapFetcher creates a map image fetcher with a 60s request timeout.
func NewMapFetcher(cfg config.GoogleConfig) *MapFetcher {
	return &MapFetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// BuildMapURL appends one |lat,lon marker per point, each coordinate
// formatted to 4 decimal places. No cap is placed on the marker count; a
// very long track can exceed the provider's URL length limit, which is a
// known boundary of the static-map API rather than something batched
// around here.
func BuildMapURL(cfg config.GoogleConfig, points []model.TrackPoint) string {
	var b strings.Builder
	b.WriteString(cfg.MapURL)
	b.WriteString("&markers=")
	for _, p := range points {
		fmt.Fprintf(&b, "|%.4f,%.4f", p.Latitude, p.Longitude)
	}
	return b.String()
}

// Fetch downloads the plotted map image to dest as binary.
func (m *MapFetcher) Fetch(ctx context.Context, points []model.TrackPoint, dest string) error {
	mapURL := BuildMapURL(m.cfg, points)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mapURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build map query: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("map download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("map download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create map image file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("failed to save map image: %w", err)
	}
	return out.Close()
}
