package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go-track-report/internal/config"
	"go-track-report/internal/model"
)

func TestBuildMapURLMarkers(t *testing.T) {
	cfg := config.GoogleConfig{MapURL: "https://maps.example.com/staticmap?size=620x620"}
	points := []model.TrackPoint{
		{Latitude: 39.78170123, Longitude: -89.65012345},
		{Latitude: 39.799, Longitude: -89.644},
	}

	got := BuildMapURL(cfg, points)
	want := "https://maps.example.com/staticmap?size=620x620&markers=|39.7817,-89.6501|39.7990,-89.6440"
	if got != want {
		t.Errorf("BuildMapURL() = %q, want %q", got, want)
	}
}

func TestBuildMapURLZeroPoints(t *testing.T) {
	cfg := config.GoogleConfig{MapURL: "https://maps.example.com/staticmap?size=620x620"}

	got := BuildMapURL(cfg, nil)
	want := "https://maps.example.com/staticmap?size=620x620&markers="
	if got != want {
		t.Errorf("BuildMapURL() = %q, want no markers", got)
	}
}

func TestMapFetchDownloadsBinary(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "map.png")
	m := NewMapFetcher(config.GoogleConfig{MapURL: srv.URL + "/staticmap?size=620x620"})

	if err := m.Fetch(context.Background(), []model.TrackPoint{{Latitude: 1, Longitude: 2}}, dest); err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded image: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("downloaded bytes differ from served bytes")
	}
}

func TestMapFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "map.png")
	m := NewMapFetcher(config.GoogleConfig{MapURL: srv.URL + "/staticmap?size=620x620"})

	if err := m.Fetch(context.Background(), nil, dest); err == nil {
		t.Errorf("Fetch() passed, want error on HTTP 400")
	}
}
