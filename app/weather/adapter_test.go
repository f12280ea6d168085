package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallboard/app/config"
	"wallboard/app/fetch"
)

const currentFixture = `{
	"name": "Edmonton",
	"weather": [{"main": "Clouds", "description": "broken clouds", "icon": "04d"}],
	"main": {"temp": 21.6, "feels_like": 20.4, "temp_max": 24.2, "temp_min": 17.8, "humidity": 40},
	"wind": {"speed": 3.6, "deg": 270},
	"sys": {"country": "CA", "sunrise": 1700000000, "sunset": 1700050000}
}`

// Both samples sit at local midday so they always group into a single day.
func forecastFixture() string {
	base := time.Date(2024, 7, 1, 11, 0, 0, 0, time.Local)
	return fmt.Sprintf(`{
	"list": [
		{"dt": %d, "main": {"temp": 18.0}, "weather": [{"main": "Clouds", "description": "few clouds", "icon": "02d"}], "pop": 0.1},
		{"dt": %d, "main": {"temp": 22.0}, "weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}], "pop": 0.6, "rain": {"3h": 1.2}}
	]
}`, base.Unix(), base.Add(3*time.Hour).Unix())
}

func testAdapter(t *testing.T, forecastStatus int) *Adapter {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			t.Errorf("Expected appid query parameter, got: %s", r.URL.RawQuery)
		}
		switch r.URL.Path {
		case "/weather":
			w.Write([]byte(currentFixture))
		case "/forecast":
			if forecastStatus != http.StatusOK {
				w.WriteHeader(forecastStatus)
				return
			}
			w.Write([]byte(forecastFixture()))
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	adapter := NewAdapter(fetch.NewClient("test", time.Second), "test-key", config.Location{City: "Edmonton", Country: "CA"})
	adapter.baseURL = server.URL
	return adapter
}

func TestSnapshotNormalizesCurrentConditions(t *testing.T) {
	adapter := testAdapter(t, http.StatusOK)

	snapshot, err := adapter.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	current := snapshot.Current
	if current.Temperature != 22 {
		t.Errorf("Expected temperature rounded to 22, got: %d", current.Temperature)
	}
	if current.FeelsLike != 20 {
		t.Errorf("Expected feels-like rounded to 20, got: %d", current.FeelsLike)
	}
	if current.Condition != "Clouds" || current.Icon != "04d" {
		t.Errorf("Unexpected condition: %q icon %q", current.Condition, current.Icon)
	}
	if current.WindSpeed != 3.6 || current.WindDeg != 270 {
		t.Errorf("Unexpected wind: %v deg %d", current.WindSpeed, current.WindDeg)
	}
	if current.Sunrise != 1700000000 || current.Sunset != 1700050000 {
		t.Error("Expected sunrise/sunset to pass through")
	}

	if snapshot.Location != "Edmonton, CA" {
		t.Errorf("Unexpected location: %q", snapshot.Location)
	}

	if len(snapshot.Forecast) == 0 {
		t.Fatal("Expected forecast entries")
	}
	if current.ExpectedPrecip == nil {
		t.Fatal("Expected today's precipitation on current conditions")
	}
	if current.ExpectedPrecip.Pop == nil || *current.ExpectedPrecip.Pop != 60 {
		t.Errorf("Unexpected expected pop: %v", current.ExpectedPrecip.Pop)
	}
}

func TestForecastFailureTolerated(t *testing.T) {
	adapter := testAdapter(t, http.StatusInternalServerError)

	snapshot, err := adapter.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Expected current conditions to carry the call, got: %v", err)
	}

	if len(snapshot.Forecast) != 0 {
		t.Errorf("Expected empty forecast, got %d entries", len(snapshot.Forecast))
	}
	if snapshot.Current.ExpectedPrecip != nil {
		t.Error("Expected no precipitation outlook without forecast data")
	}
}

func TestCurrentFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/weather" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(forecastFixture()))
	}))
	defer server.Close()

	adapter := NewAdapter(fetch.NewClient("test", time.Second), "test-key", config.Location{City: "Edmonton", Country: "CA"})
	adapter.baseURL = server.URL

	if _, err := adapter.Snapshot(context.Background()); err == nil {
		t.Error("Expected error when current conditions fail")
	}
}

func TestMissingConfiguration(t *testing.T) {
	adapter := NewAdapter(fetch.NewClient("test", time.Second), "", config.Location{})

	_, err := adapter.Snapshot(context.Background())
	if err == nil {
		t.Fatal("Expected error without API key")
	}

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected *config.ConfigError, got: %T", err)
	}
}
