package wunderground

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/wd4sel/weather-announcer/internal/config"
)

const sampleResponse = `{
	"observations": [{
		"stationID": "KAZPHOEN123",
		"neighborhood": "Downtown",
		"country": "US",
		"lat": 33.4,
		"lon": -112.1,
		"obsTimeUtc": "2025-06-01T18:30:00Z",
		"obsTimeLocal": "2025-06-01 11:30:00",
		"humidity": 60,
		"winddir": 190,
		"uv": 7.5,
		"qcStatus": 1,
		"solarRadiation": 812.3,
		"wxPhraseLong": "Cloudy",
		"metric": {
			"temp": 22.5,
			"heatIndex": 23.1,
			"dewpt": 14.2,
			"windChill": 22.5,
			"windSpeed": 10,
			"windGust": 14,
			"pressure": 1013,
			"precipRate": 0,
			"precipTotal": 1.2,
			"elev": 337
		}
	}]
}`

func testConfig() config.WeatherConfig {
	return config.WeatherConfig{APIKey: "abcdef1234567890", StationID: "KAZPHOEN123"}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), testConfig())
	c.baseURL = srv.URL
	return c, srv
}

func TestCurrentParsesObservation(t *testing.T) {
	var gotQuery map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(sampleResponse))
	})

	obs, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"stationId":        "KAZPHOEN123",
		"format":           "json",
		"units":            "m",
		"apiKey":           "abcdef1234567890",
		"numericPrecision": "decimal",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query param %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if obs.Temperature != 22.5 {
		t.Errorf("Temperature = %v, want 22.5", obs.Temperature)
	}
	if obs.Humidity != 60 {
		t.Errorf("Humidity = %v, want 60", obs.Humidity)
	}
	if obs.Pressure != 1013 {
		t.Errorf("Pressure = %v, want 1013", obs.Pressure)
	}
	if obs.WindSpeed != 10 {
		t.Errorf("WindSpeed = %v, want 10", obs.WindSpeed)
	}
	if obs.WindDirectionDeg != 190 {
		t.Errorf("WindDirectionDeg = %v, want 190", obs.WindDirectionDeg)
	}
	if obs.Conditions != "Cloudy" {
		t.Errorf("Conditions = %q, want %q", obs.Conditions, "Cloudy")
	}
	if obs.StationID != "KAZPHOEN123" || obs.Neighborhood != "Downtown" {
		t.Errorf("station metadata not populated: %+v", obs)
	}
	if obs.Elevation != 337 {
		t.Errorf("Elevation = %v, want 337", obs.Elevation)
	}
}

func TestCurrentConditionsFallback(t *testing.T) {
	cases := []struct {
		name string
		obs  observationPayload
		want string
	}{
		{"long phrase wins", observationPayload{WxPhraseLong: "Partly Cloudy", WxPhrase: "P Cloudy", WxPhraseShort: "PC"}, "Partly Cloudy"},
		{"alias phrase next", observationPayload{WxPhrase: "P Cloudy", WxPhraseShort: "PC"}, "P Cloudy"},
		{"short phrase last", observationPayload{WxPhraseShort: "PC"}, "PC"},
		{"unknown when absent", observationPayload{}, "Unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.obs.conditions(); got != tc.want {
				t.Errorf("conditions() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCurrentMissingHumidity(t *testing.T) {
	body := `{"observations":[{"winddir":190,"metric":{"temp":22.5,"pressure":1013,"windSpeed":10}}]}`
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	obs, err := c.Current(context.Background())
	if obs != nil {
		t.Fatalf("expected no observation, got %+v", obs)
	}

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "humidity" {
		t.Errorf("missing field = %q, want %q", missing.Field, "humidity")
	}
}

func TestCurrentMissingMetricSubfield(t *testing.T) {
	body := `{"observations":[{"humidity":60,"winddir":190,"metric":{"pressure":1013,"windSpeed":10}}]}`
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	_, err := c.Current(context.Background())

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "metric.temp" {
		t.Errorf("missing field = %q, want %q", missing.Field, "metric.temp")
	}
}

func TestCurrentEmptyObservations(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[]}`))
	})

	_, err := c.Current(context.Background())
	if !errors.Is(err, ErrNoObservations) {
		t.Fatalf("expected ErrNoObservations, got %v", err)
	}
	// The no-data failure must be distinct from a malformed-JSON failure.
	if errors.Is(err, ErrBadPayload) {
		t.Fatalf("empty observations misreported as bad payload: %v", err)
	}
}

func TestCurrentMalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations": [`))
	})

	_, err := c.Current(context.Background())
	if !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
}

func TestCurrentUpstreamStatusError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid apiKey", http.StatusUnauthorized)
	})

	_, err := c.Current(context.Background())

	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", status.StatusCode, http.StatusUnauthorized)
	}
	if status.Body == "" {
		t.Error("expected upstream body to be carried in the error")
	}
}

func TestCurrentMissingCredentialsSkipsNetwork(t *testing.T) {
	var calls int64
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.Write([]byte(sampleResponse))
	})
	c.cfg = config.WeatherConfig{APIKey: "", StationID: "KAZPHOEN123"}

	_, err := c.Current(context.Background())
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("expected no network call, server saw %d", n)
	}
}
