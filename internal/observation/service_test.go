package observation_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/observation"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/weather"
	"github.com/aircast/aircast/pkg/geo"
)

var queryPoint = geo.Coordinate{Lat: 52.370216, Lon: 4.895168}

type stubRegistry struct {
	stations []*station.Station
	err      error
}

func (s *stubRegistry) Query(_ context.Context, _ geo.Coordinate, _ float64) ([]*station.Station, error) {
	return s.stations, s.err
}

type stubWeather struct {
	sample *weather.Sample
	err    error
}

func (s *stubWeather) Current(_ context.Context, _ geo.Coordinate) (*weather.Sample, error) {
	return s.sample, s.err
}

func (s *stubWeather) Name() string { return "stub" }

func f64(v float64) *float64 { return &v }

func nearbyStation() *station.Station {
	return &station.Station{
		ID:   "ST1",
		Name: "Vondelpark",
		Location: geo.Coordinate{
			Lat: queryPoint.Lat + 0.8/111.2,
			Lon: queryPoint.Lon,
		},
		Reading: station.Reading{
			PM25:       f64(82.5),
			PM10:       f64(110.0),
			MeasuredAt: time.Now().Add(-time.Hour),
		},
	}
}

func goodWeather() *weather.Sample {
	return &weather.Sample{
		Temperature:      19.4,
		RelativeHumidity: 72,
		WindSpeed:        4.3,
		ObservedAt:       time.Now(),
	}
}

func newService(reg station.Registry, w weather.Provider) *observation.Service {
	locator := station.NewLocator(station.LocatorConfig{
		Registry: reg,
		Logger:   zerolog.New(io.Discard),
	})
	return observation.NewService(observation.ServiceConfig{
		Locator: locator,
		Weather: w,
		Logger:  zerolog.New(io.Discard),
	})
}

func TestService_Resolve_FullEnrichment(t *testing.T) {
	svc := newService(
		&stubRegistry{stations: []*station.Station{nearbyStation()}},
		&stubWeather{sample: goodWeather()},
	)

	obs, err := svc.Resolve(context.Background(), queryPoint)
	require.NoError(t, err)

	require.True(t, obs.HasStation())
	assert.Equal(t, "ST1", obs.Station.ID)
	assert.InDelta(t, 0.8, obs.DistanceKM, 0.05)
	assert.Equal(t, 82.5, *obs.PM25)
	assert.Equal(t, 110.0, *obs.PM10)

	require.True(t, obs.HasWeather())
	assert.Equal(t, 19.4, *obs.Temperature)
	assert.Equal(t, 72.0, *obs.RelativeHumidity)
	assert.Equal(t, 4.3, *obs.WindSpeed)

	assert.Empty(t, obs.Warnings)
	assert.False(t, obs.ResolvedAt.IsZero())
}

func TestService_Resolve_WeatherDown_DegradesNotFails(t *testing.T) {
	svc := newService(
		&stubRegistry{stations: []*station.Station{nearbyStation()}},
		&stubWeather{err: weather.ErrProviderUnavailable},
	)

	obs, err := svc.Resolve(context.Background(), queryPoint)
	require.NoError(t, err)

	// Pollutant data is still actionable on its own.
	require.True(t, obs.HasStation())
	assert.Equal(t, 82.5, *obs.PM25)

	assert.False(t, obs.HasWeather())
	assert.Nil(t, obs.Temperature)
	assert.Contains(t, obs.Warnings, observation.WarningWeatherUnavailable)
}

func TestService_Resolve_NoStation_WeatherOnly(t *testing.T) {
	svc := newService(
		&stubRegistry{},
		&stubWeather{sample: goodWeather()},
	)

	obs, err := svc.Resolve(context.Background(), queryPoint)
	require.NoError(t, err)

	assert.False(t, obs.HasStation())
	assert.Nil(t, obs.PM25)
	assert.Equal(t, 25.0, obs.SearchCeilingKM)
	require.Len(t, obs.Warnings, 1)
	assert.Contains(t, obs.Warnings[0], "25 km")

	// Weather enrichment is independent of the station outcome.
	require.True(t, obs.HasWeather())
	assert.Equal(t, 19.4, *obs.Temperature)
}

func TestService_Resolve_RegistryDown_PropagatesUpstreamFailure(t *testing.T) {
	svc := newService(
		&stubRegistry{err: errors.New("dial tcp: connection refused")},
		&stubWeather{sample: goodWeather()},
	)

	_, err := svc.Resolve(context.Background(), queryPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, station.ErrRegistryUnavailable)
	assert.NotErrorIs(t, err, station.ErrNoStationsInRange)
}

func TestService_Resolve_InvalidCoordinate(t *testing.T) {
	svc := newService(&stubRegistry{}, &stubWeather{sample: goodWeather()})

	_, err := svc.Resolve(context.Background(), geo.Coordinate{Lat: -120, Lon: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}
