package meteo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

const fixtureResponse = `{
	"latitude": 52.52,
	"longitude": 13.41,
	"timezone": "UTC",
	"hourly": {
		"time": ["2023-04-10T00:00", "2023-04-10T01:00", "2023-04-10T02:00"],
		"precipitation": [0.0, 0.3, 0.0],
		"vapour_pressure_deficit": [0.5, 0.1, 0.6],
		"temperature_2m": [8.5, 9.0, 9.5],
		"relative_humidity_2m": [80.0, 95.0, 70.0]
	}
}`

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestFetchHourly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("latitude") == "" || q.Get("start_date") == "" {
			t.Errorf("missing expected query parameters in %s", req.URL.RawQuery)
		}
		w.Write([]byte(fixtureResponse))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, nil, testLogger())
	start := time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC)

	series, raw, err := client.FetchHourly(context.Background(), 52.52, 13.41, start, start, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) == 0 {
		t.Error("expected raw response bytes")
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(series))
	}

	first := series[0]
	if !first.Timestamp.Equal(start) {
		t.Errorf("expected first timestamp %v, got %v", start, first.Timestamp)
	}
	if math.Abs(first.Temperature-8.5) > 1e-9 {
		t.Errorf("expected temperature 8.5, got %v", first.Temperature)
	}
	if math.Abs(series[1].Precipitation-0.3) > 1e-9 {
		t.Errorf("expected precipitation 0.3, got %v", series[1].Precipitation)
	}
	if math.Abs(series[2].VapourPressureDeficit-0.6) > 1e-9 {
		t.Errorf("expected VPD 0.6, got %v", series[2].VapourPressureDeficit)
	}
}

func TestFetchHourlyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error": true, "reason": "Parameter 'start_date' is out of allowed range"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, nil, testLogger())
	start := time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC)

	if _, _, err := client.FetchHourly(context.Background(), 52.52, 13.41, start, start, false); err == nil {
		t.Fatal("expected an error for an API error response")
	}
}

func TestFetchHourlyMismatchedArrays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"timezone": "UTC",
			"hourly": {
				"time": ["2023-04-10T00:00", "2023-04-10T01:00"],
				"precipitation": [0.0],
				"vapour_pressure_deficit": [0.5, 0.5],
				"temperature_2m": [8.5, 9.0],
				"relative_humidity_2m": [80.0, 80.0]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL, nil, testLogger())
	start := time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC)

	if _, _, err := client.FetchHourly(context.Background(), 52.52, 13.41, start, start, false); err == nil {
		t.Fatal("expected an error for mismatched hourly arrays")
	}
}

func TestFetchHourlyUsesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Write([]byte(fixtureResponse))
	}))
	defer server.Close()

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("error opening cache: %v", err)
	}
	defer cache.Close()

	client := NewClient(server.URL, server.URL, cache, testLogger())
	start := time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, _, err := client.FetchHourly(context.Background(), 52.52, 13.41, start, start, false); err != nil {
			t.Fatalf("fetch %d: unexpected error: %v", i, err)
		}
	}

	if requests != 1 {
		t.Errorf("expected 1 network request, got %d", requests)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("error opening cache: %v", err)
	}
	defer cache.Close()

	missing, err := cache.Get("http://example.com/none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for a missing entry, got %q", missing)
	}

	if err := cache.Put("http://example.com/a", []byte("payload")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := cache.Get("http://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("expected %q, got %q", "payload", got)
	}

	// Replacing an entry keeps the latest body.
	if err := cache.Put("http://example.com/a", []byte("updated")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = cache.Get("http://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "updated" {
		t.Errorf("expected %q, got %q", "updated", got)
	}
}
