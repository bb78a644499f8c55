package wunderground

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/wd4sel/weather-announcer/internal/config"
)

const defaultBaseURL = "https://api.weather.com/v2/pws/observations/current"

var (
	// ErrMissingCredentials is returned before any network call when the
	// station ID or API key is not configured.
	ErrMissingCredentials = errors.New("WU_API_KEY or WU_STATION_ID is not configured")

	// ErrBadPayload is returned when the response body is not valid JSON.
	ErrBadPayload = errors.New("malformed observations response")

	// ErrNoObservations is returned when the response decodes cleanly but
	// carries an empty observations list.
	ErrNoObservations = errors.New("no observations in response")
)

// StatusError reports a non-success HTTP status from the observations
// endpoint, carrying the upstream body when available.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("observations request failed with status %d: %s", e.StatusCode, e.Body)
}

// MissingFieldError reports a well-formed response that lacks a field the
// pipeline requires.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("observation is missing required field %q", e.Field)
}

// Client fetches current observations for a single PWS station.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        config.WeatherConfig
}

func NewClient(httpClient *http.Client, cfg config.WeatherConfig) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		cfg:        cfg,
	}
}

// Current issues a single GET for the station's current observation and
// returns a fully validated record. There are no retries; the first failure
// is final for this invocation.
func (c *Client) Current(ctx context.Context) (*Observation, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}

	values := url.Values{}
	values.Set("stationId", c.cfg.StationID)
	values.Set("format", "json")
	values.Set("units", "m")
	values.Set("apiKey", c.cfg.APIKey)
	values.Set("numericPrecision", "decimal")

	log.Printf("INFO: requesting observations for station %s (api key %s...)", c.cfg.StationID, keyPrefix(c.cfg.APIKey))

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("observations request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded chunk of the body for diagnostics.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if len(payload.Observations) == 0 {
		return nil, ErrNoObservations
	}

	raw := payload.Observations[0]
	if err := raw.checkRequired(); err != nil {
		return nil, err
	}

	return &Observation{
		StationID:    raw.StationID,
		Neighborhood: raw.Neighborhood,
		Country:      raw.Country,
		Latitude:     raw.Lat,
		Longitude:    raw.Lon,
		Elevation:    raw.Metric.Elev,

		ObsTimeUTC:   raw.ObsTimeUTC,
		ObsTimeLocal: raw.ObsTimeLocal,

		Conditions:       raw.conditions(),
		Temperature:      *raw.Metric.Temp,
		HeatIndex:        raw.Metric.HeatIndex,
		DewPoint:         raw.Metric.DewPoint,
		WindChill:        raw.Metric.WindChill,
		Humidity:         *raw.Humidity,
		WindDirectionDeg: *raw.WindDir,
		WindSpeed:        *raw.Metric.WindSpeed,
		WindGust:         raw.Metric.WindGust,
		Pressure:         *raw.Metric.Pressure,
		PrecipRate:       raw.Metric.PrecipRate,
		PrecipTotal:      raw.Metric.PrecipTotal,

		SolarRadiation: raw.SolarRadiation,
		UV:             raw.UV,
		QCStatus:       raw.QCStatus,
	}, nil
}

// checkRequired verifies every field the pipeline depends on is present,
// naming the first one missing.
func (o observationPayload) checkRequired() error {
	if o.Metric == nil {
		return &MissingFieldError{Field: "metric"}
	}
	if o.Metric.Temp == nil {
		return &MissingFieldError{Field: "metric.temp"}
	}
	if o.Metric.Pressure == nil {
		return &MissingFieldError{Field: "metric.pressure"}
	}
	if o.Metric.WindSpeed == nil {
		return &MissingFieldError{Field: "metric.windSpeed"}
	}
	if o.Humidity == nil {
		return &MissingFieldError{Field: "humidity"}
	}
	if o.WindDir == nil {
		return &MissingFieldError{Field: "winddir"}
	}
	return nil
}

// keyPrefix returns a short non-secret prefix of the API key for log lines.
func keyPrefix(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
