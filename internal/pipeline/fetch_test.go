package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-track-report/internal/config"
)

func TestFetchParsesPointsInOrder(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"function": r.URL.Query().Get("function"),
			"from":     r.URL.Query().Get("from"),
			"to":       r.URL.Query().Get("to"),
			"deviceid": r.URL.Query().Get("deviceid"),
			"key":      r.URL.Query().Get("key"),
		}
		w.Write([]byte(`{"Data":[
			{"Date":"2023-06-01T08:00:00","Latitude":39.7817,"Longitude":-89.6501,"Speed(mph)":12.5,"Accuracy":5,"Type":"GPS"},
			{"Date":"2023-06-01T12:30:00","Latitude":39.7990,"Longitude":-89.6440,"Speed(mph)":0,"Accuracy":10,"Type":"Network"}
		]}`))
	}))
	defer srv.Close()

	f := NewTrackFetcher(config.FollowMeeConfig{
		URL:      srv.URL,
		APIKey:   "fm-key",
		Username: "tester",
		DeviceID: "12345",
	})

	points, err := f.Fetch(context.Background(), "2023-05-31", "2023-06-01")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date != "2023-06-01T08:00:00" || points[1].Date != "2023-06-01T12:30:00" {
		t.Errorf("point order not preserved: %v", points)
	}
	if points[0].SpeedMph != 12.5 {
		t.Errorf("SpeedMph = %v, want 12.5", points[0].SpeedMph)
	}
	if points[0].Type != "GPS" {
		t.Errorf("Type = %q, want GPS", points[0].Type)
	}

	if gotQuery["function"] != "daterangefordevice" {
		t.Errorf("function = %q, want daterangefordevice", gotQuery["function"])
	}
	if gotQuery["from"] != "2023-05-31 11pm" {
		t.Errorf("from = %q, want the 11pm query offset", gotQuery["from"])
	}
	if gotQuery["to"] != "2023-06-01" {
		t.Errorf("to = %q", gotQuery["to"])
	}
	if gotQuery["deviceid"] != "12345" || gotQuery["key"] != "fm-key" {
		t.Errorf("device/key params = %v", gotQuery)
	}
}

func TestFetchNoDataFieldMeansEmptyReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error":"no data for range"}`))
	}))
	defer srv.Close()

	f := NewTrackFetcher(config.FollowMeeConfig{URL: srv.URL, APIKey: "k", Username: "u", DeviceID: "d"})

	points, err := f.Fetch(context.Background(), "2023-05-31", "2023-06-01")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("got %d points, want 0", len(points))
	}
}

func TestFetchServerErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewTrackFetcher(config.FollowMeeConfig{URL: srv.URL, APIKey: "k", Username: "u", DeviceID: "d"})

	if _, err := f.Fetch(context.Background(), "2023-05-31", "2023-06-01"); err == nil {
		t.Errorf("Fetch() passed, want error on HTTP 500")
	}
}

func TestFetchMalformedJSONIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	f := NewTrackFetcher(config.FollowMeeConfig{URL: srv.URL, APIKey: "k", Username: "u", DeviceID: "d"})

	if _, err := f.Fetch(context.Background(), "2023-05-31", "2023-06-01"); err == nil {
		t.Errorf("Fetch() passed, want parse error")
	}
}
