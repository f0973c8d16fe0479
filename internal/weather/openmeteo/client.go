// Package openmeteo provides an Open-Meteo client for current weather.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/weather"
	"github.com/aircast/aircast/pkg/geo"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "open-meteo"

	// DefaultBaseURL is the Open-Meteo forecast API base URL.
	DefaultBaseURL = "https://api.open-meteo.com/v1"

	// currentFields are the fields requested from the current-weather block.
	currentFields = "temperature_2m,relative_humidity_2m,wind_speed_10m"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL overrides the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is created.
	HTTPClient HTTPDoer
}

// Client is an Open-Meteo API client implementing weather.Provider.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

type currentResponse struct {
	Current *struct {
		Time             string  `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		WindSpeed        float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current fetches the current weather at a coordinate.
func (c *Client) Current(ctx context.Context, at geo.Coordinate) (*weather.Sample, error) {
	url := fmt.Sprintf("%s/forecast?latitude=%.6f&longitude=%.6f&current=%s",
		c.baseURL, at.Lat, at.Lon, currentFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", weather.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	var result currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %s", weather.ErrProviderUnavailable, err)
	}
	if result.Current == nil {
		return nil, fmt.Errorf("%w: response missing current block", weather.ErrProviderUnavailable)
	}

	sample := &weather.Sample{
		Temperature:      result.Current.Temperature,
		RelativeHumidity: result.Current.RelativeHumidity,
		WindSpeed:        result.Current.WindSpeed,
		FetchedAt:        time.Now(),
	}
	// Open-Meteo reports local ISO8601 minutes without a zone suffix.
	if ts, err := time.Parse("2006-01-02T15:04", result.Current.Time); err == nil {
		sample.ObservedAt = ts
	} else if ts, err := time.Parse(time.RFC3339, result.Current.Time); err == nil {
		sample.ObservedAt = ts
	}

	return sample, nil
}
