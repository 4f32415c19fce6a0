// Package meteo retrieves hourly weather observations from the Open-Meteo
// archive and historical-forecast APIs and converts them into the hourly
// series the analysis core consumes.
package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scabwatch/scabwatch/internal/types"
)

const (
	DefaultArchiveEndpoint  = "https://archive-api.open-meteo.com/v1/archive"
	DefaultForecastEndpoint = "https://historical-forecast-api.open-meteo.com/v1/forecast"

	retryAttempts     = 5
	retryBackoffBase  = 200 * time.Millisecond
	hourlyTimeLayout  = "2006-01-02T15:04"
	requestDateLayout = "2006-01-02"
)

var hourlyVariables = []string{
	"precipitation",
	"vapour_pressure_deficit",
	"temperature_2m",
	"relative_humidity_2m",
}

// Client fetches hourly weather from Open-Meteo, consulting a persistent
// response cache before going to the network.
type Client struct {
	archiveEndpoint  string
	forecastEndpoint string
	httpClient       *http.Client
	cache            *Cache
	logger           *zap.SugaredLogger
}

// NewClient creates a meteo client. cache may be nil to disable caching.
func NewClient(archiveEndpoint, forecastEndpoint string, cache *Cache, logger *zap.SugaredLogger) *Client {
	if archiveEndpoint == "" {
		archiveEndpoint = DefaultArchiveEndpoint
	}
	if forecastEndpoint == "" {
		forecastEndpoint = DefaultForecastEndpoint
	}
	return &Client{
		archiveEndpoint:  archiveEndpoint,
		forecastEndpoint: forecastEndpoint,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		cache:            cache,
		logger:           logger,
	}
}

// hourlyResponse mirrors the Open-Meteo JSON response for an hourly query.
type hourlyResponse struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone"`
	Hourly    hourlyArrays `json:"hourly"`
	Error     bool         `json:"error"`
	Reason    string       `json:"reason"`
}

type hourlyArrays struct {
	Time                  []string  `json:"time"`
	Precipitation         []float64 `json:"precipitation"`
	VapourPressureDeficit []float64 `json:"vapour_pressure_deficit"`
	Temperature2m         []float64 `json:"temperature_2m"`
	RelativeHumidity2m    []float64 `json:"relative_humidity_2m"`
}

// FetchHourly retrieves the hourly series for the location over [start, end]
// (whole days, inclusive). When forecast is true the historical-forecast
// endpoint is used instead of the archive. The returned raw bytes are the
// response body as fetched, for persistence alongside the parsed series.
func (c *Client) FetchHourly(ctx context.Context, latitude, longitude float64, start, end time.Time, forecast bool) (types.HourlySeries, []byte, error) {
	endpoint := c.archiveEndpoint
	if forecast {
		endpoint = c.forecastEndpoint
	}

	requestURL := fmt.Sprintf("%s?latitude=%.4f&longitude=%.4f&start_date=%s&end_date=%s&hourly=%s&timezone=auto",
		endpoint,
		latitude, longitude,
		start.Format(requestDateLayout), end.Format(requestDateLayout),
		url.QueryEscape(strings.Join(hourlyVariables, ",")),
	)

	body, err := c.fetch(ctx, requestURL)
	if err != nil {
		return nil, nil, err
	}

	series, err := parseHourly(body)
	if err != nil {
		return nil, nil, err
	}

	return series, body, nil
}

// fetch returns the response body for requestURL, from cache when possible.
// Network fetches are retried with exponential backoff.
func (c *Client) fetch(ctx context.Context, requestURL string) ([]byte, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(requestURL)
		if err != nil {
			c.logger.Warnf("meteo cache read failed: %v", err)
		}
		if cached != nil {
			c.logger.Debugf("meteo cache hit for %s", requestURL)
			return cached, nil
		}
	}

	var body []byte
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			backoff := retryBackoffBase * (1 << (attempt - 1))
			c.logger.Warnf("retrying meteo fetch in %v (attempt %d/%d): %v", backoff, attempt+1, retryAttempts, lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, lastErr = c.doRequest(ctx, requestURL)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("error fetching from Open-Meteo after %d attempts: %w", retryAttempts, lastErr)
	}

	if c.cache != nil {
		if err := c.cache.Put(requestURL, body); err != nil {
			c.logger.Warnf("meteo cache write failed: %v", err)
		}
	}

	return body, nil
}

func (c *Client) doRequest(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

// parseHourly converts an Open-Meteo hourly response body into an
// HourlySeries, with timestamps in the timezone the response reports.
func parseHourly(body []byte) (types.HourlySeries, error) {
	var response hourlyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}
	if response.Error {
		return nil, fmt.Errorf("Open-Meteo API error: %s", response.Reason)
	}

	loc, err := time.LoadLocation(response.Timezone)
	if err != nil {
		return nil, fmt.Errorf("error loading response timezone %q: %w", response.Timezone, err)
	}

	h := response.Hourly
	n := len(h.Time)
	if len(h.Precipitation) != n || len(h.VapourPressureDeficit) != n ||
		len(h.Temperature2m) != n || len(h.RelativeHumidity2m) != n {
		return nil, fmt.Errorf("mismatched hourly array lengths in response")
	}

	series := make(types.HourlySeries, n)
	for i := 0; i < n; i++ {
		ts, err := time.ParseInLocation(hourlyTimeLayout, h.Time[i], loc)
		if err != nil {
			return nil, fmt.Errorf("error parsing hourly timestamp %q: %w", h.Time[i], err)
		}
		series[i] = types.Observation{
			Timestamp:             ts,
			Precipitation:         h.Precipitation[i],
			VapourPressureDeficit: h.VapourPressureDeficit[i],
			Temperature:           h.Temperature2m[i],
			RelativeHumidity:      h.RelativeHumidity2m[i],
		}
	}

	return series, nil
}
