// Package openaq provides a client for the OpenAQ v3 API, backing the
// station registry interface.
package openaq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/pkg/geo"
)

const (
	// ProviderName identifies this registry provider.
	ProviderName = "openaq"

	// DefaultBaseURL is the OpenAQ v3 API base URL.
	DefaultBaseURL = "https://api.openaq.org/v3"

	// parameterPM25 and parameterPM10 are OpenAQ parameter names.
	parameterPM25 = "pm25"
	parameterPM10 = "pm10"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenAQ client.
type ClientConfig struct {
	// APIKey is the OpenAQ API key. Optional, but raises rate limits.
	APIKey string

	// BaseURL overrides the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is created.
	HTTPClient HTTPDoer

	// MaxLatestLookups caps how many candidate stations get a latest-
	// measurement lookup per query, nearest first. Default: 10.
	MaxLatestLookups int

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenAQ v3 API client implementing station.Registry.
type Client struct {
	apiKey           string
	baseURL          string
	httpClient       HTTPDoer
	maxLatestLookups int
	logger           zerolog.Logger
}

// NewClient creates a new OpenAQ client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	maxLookups := cfg.MaxLatestLookups
	if maxLookups == 0 {
		maxLookups = 10
	}

	return &Client{
		apiKey:           cfg.APIKey,
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		httpClient:       httpClient,
		maxLatestLookups: maxLookups,
		logger:           cfg.Logger,
	}
}

// API response types (OpenAQ v3).

type locationsResponse struct {
	Results []locationResult `json:"results"`
}

type locationResult struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Coordinates *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Sensors []struct {
		ID        int `json:"id"`
		Parameter struct {
			Name string `json:"name"`
		} `json:"parameter"`
	} `json:"sensors"`
}

type latestResponse struct {
	Results []latestResult `json:"results"`
}

type latestResult struct {
	Value     float64 `json:"value"`
	Parameter struct {
		Name string `json:"name"`
	} `json:"parameter"`
	Datetime struct {
		UTC string `json:"utc"`
	} `json:"datetime"`
}

// Query returns stations within radiusKM of center with their latest PM
// readings populated. Only the nearest PM2.5-capable stations get a latest
// lookup; the rest are returned without readings and filtered out by the
// locator.
func (c *Client) Query(ctx context.Context, center geo.Coordinate, radiusKM float64) ([]*station.Station, error) {
	locations, err := c.searchLocations(ctx, center, radiusKM)
	if err != nil {
		return nil, err
	}

	stations := make([]*station.Station, 0, len(locations))
	for i := range locations {
		loc := &locations[i]
		if loc.Coordinates == nil {
			continue
		}
		stations = append(stations, &station.Station{
			ID:   fmt.Sprintf("%d", loc.ID),
			Name: loc.Name,
			Location: geo.Coordinate{
				Lat: loc.Coordinates.Latitude,
				Lon: loc.Coordinates.Longitude,
			},
		})
	}

	// Nearest first, so the lookup budget is spent where it matters.
	sort.Slice(stations, func(i, j int) bool {
		return geo.Distance(center, stations[i].Location) < geo.Distance(center, stations[j].Location)
	})

	byID := make(map[string]*locationResult, len(locations))
	for i := range locations {
		byID[fmt.Sprintf("%d", locations[i].ID)] = &locations[i]
	}

	lookups := 0
	for _, s := range stations {
		loc := byID[s.ID]
		if loc == nil || !hasPM25Sensor(loc) {
			continue
		}
		if lookups >= c.maxLatestLookups {
			break
		}
		lookups++

		reading, err := c.fetchLatest(ctx, loc.ID)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("station_id", s.ID).
				Msg("latest measurement lookup failed")
			continue
		}
		s.Reading = *reading
	}

	return stations, nil
}

// searchLocations queries /locations with a radius bound in meters.
func (c *Client) searchLocations(ctx context.Context, center geo.Coordinate, radiusKM float64) ([]locationResult, error) {
	url := fmt.Sprintf("%s/locations?coordinates=%.6f,%.6f&radius=%d&limit=100",
		c.baseURL, center.Lat, center.Lon, int(radiusKM*1000))

	var result locationsResponse
	if err := c.get(ctx, url, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// fetchLatest queries /locations/{id}/latest and extracts PM readings.
func (c *Client) fetchLatest(ctx context.Context, locationID int) (*station.Reading, error) {
	url := fmt.Sprintf("%s/locations/%d/latest", c.baseURL, locationID)

	var result latestResponse
	if err := c.get(ctx, url, &result); err != nil {
		return nil, err
	}

	reading := &station.Reading{}
	for i := range result.Results {
		m := &result.Results[i]
		switch m.Parameter.Name {
		case parameterPM25:
			if reading.PM25 == nil {
				v := m.Value
				reading.PM25 = &v
				if ts, err := time.Parse(time.RFC3339, m.Datetime.UTC); err == nil {
					reading.MeasuredAt = ts
				}
			}
		case parameterPM10:
			if reading.PM10 == nil {
				v := m.Value
				reading.PM10 = &v
			}
		}
	}

	return reading, nil
}

// get performs an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", station.ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", station.ErrRegistryUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %s", station.ErrRegistryUnavailable, err)
	}
	return nil
}

// hasPM25Sensor reports whether the location advertises a PM2.5 sensor.
func hasPM25Sensor(loc *locationResult) bool {
	for _, s := range loc.Sensors {
		if s.Parameter.Name == parameterPM25 {
			return true
		}
	}
	return false
}
