package openaq_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/station/openaq"
	"github.com/aircast/aircast/pkg/geo"
)

const locationsBody = `{
	"results": [
		{
			"id": 101,
			"name": "Amsterdam-Vondelpark",
			"coordinates": {"latitude": 52.3597, "longitude": 4.8663},
			"sensors": [
				{"id": 1, "parameter": {"name": "pm25"}},
				{"id": 2, "parameter": {"name": "pm10"}}
			]
		},
		{
			"id": 102,
			"name": "Amsterdam-Haarlemmerweg",
			"coordinates": {"latitude": 52.3837, "longitude": 4.8600},
			"sensors": [
				{"id": 3, "parameter": {"name": "no2"}}
			]
		}
	]
}`

const latestBody = `{
	"results": [
		{"value": 18.4, "parameter": {"name": "pm25"}, "datetime": {"utc": "2026-08-30T09:00:00Z"}},
		{"value": 31.2, "parameter": {"name": "pm10"}, "datetime": {"utc": "2026-08-30T09:00:00Z"}}
	]
}`

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" {
			assert.Equal(t, apiKey, r.Header.Get("X-API-Key"))
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/locations/101/latest"):
			fmt.Fprint(w, latestBody)
		case strings.HasPrefix(r.URL.Path, "/locations/102/latest"):
			fmt.Fprint(w, `{"results": []}`)
		case strings.HasPrefix(r.URL.Path, "/locations"):
			assert.Contains(t, r.URL.RawQuery, "radius=5000")
			fmt.Fprint(w, locationsBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClient_Query(t *testing.T) {
	srv := newTestServer(t, "test-key")
	defer srv.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.New(io.Discard),
	})

	stations, err := client.Query(context.Background(), geo.Coordinate{Lat: 52.370216, Lon: 4.895168}, 5)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	var withPM25 *station.Station
	for _, s := range stations {
		if s.ID == "101" {
			withPM25 = s
		}
	}
	require.NotNil(t, withPM25)
	assert.Equal(t, "Amsterdam-Vondelpark", withPM25.Name)
	require.NotNil(t, withPM25.Reading.PM25)
	assert.Equal(t, 18.4, *withPM25.Reading.PM25)
	require.NotNil(t, withPM25.Reading.PM10)
	assert.Equal(t, 31.2, *withPM25.Reading.PM10)
	assert.Equal(t, "2026-08-30T09:00:00Z", withPM25.Reading.MeasuredAt.Format("2006-01-02T15:04:05Z"))
}

func TestClient_Query_SkipsLatestForNonPM25Stations(t *testing.T) {
	var latestCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/latest") {
			latestCalls++
			fmt.Fprint(w, latestBody)
			return
		}
		fmt.Fprint(w, locationsBody)
	}))
	defer srv.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.New(io.Discard),
	})

	_, err := client.Query(context.Background(), geo.Coordinate{Lat: 52.37, Lon: 4.89}, 5)
	require.NoError(t, err)
	// Station 102 has no pm25 sensor, so only 101 gets a latest lookup.
	assert.Equal(t, 1, latestCalls)
}

func TestClient_Query_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.New(io.Discard),
	})

	_, err := client.Query(context.Background(), geo.Coordinate{Lat: 52.37, Lon: 4.89}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, station.ErrRegistryUnavailable)
}

func TestClient_Query_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results": [`)
	}))
	defer srv.Close()

	client := openaq.NewClient(openaq.ClientConfig{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.New(io.Discard),
	})

	_, err := client.Query(context.Background(), geo.Coordinate{Lat: 52.37, Lon: 4.89}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, station.ErrRegistryUnavailable)
}
