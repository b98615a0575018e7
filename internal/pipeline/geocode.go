package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"go-track-report/internal/config"
)

// ------------------- Geocoding Enricher -------------------

// geocodeResponse is the subset of the reverse-geocoding payload we use.
type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

// Geocoder resolves street addresses for coordinates. Calls are throttled
// to 5 per second against API quota limits.
type Geocoder struct {
	cfg     config.GoogleConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewGeocoder creates a geocoder with the standard self-throttle.
func NewGeocoder(cfg config.GoogleConfig) *Geocoder {
	return &Geocoder{
		cfg:     cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// ReverseGeocode returns the street address for the given coordinates, or
// an empty string when the service has no usable result. The trailing
// country component of the formatted address is dropped.
func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	geocodeURL := fmt.Sprintf("%s/json?latlng=%v,%v&key=%s&result_type=street_address",
		g.cfg.GeocodeURL, lat, lon, g.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodeURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build geocode query: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read geocode response: %w", err)
	}

	var parsed geocodeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if len(parsed.Results) == 0 || parsed.Results[0].FormattedAddress == "" {
		return "", nil
	}

	return trimCountrySuffix(parsed.Results[0].FormattedAddress), nil
}

// trimCountrySuffix drops the trailing comma-separated component of a
// formatted address (the country fragment). Addresses without a comma are
// returned unchanged.
func trimCountrySuffix(addr string) string {
	if idx := strings.LastIndex(addr, ", "); idx > 0 {
		return addr[:idx]
	}
	return addr
}
