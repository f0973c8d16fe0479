package observation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/weather"
	"github.com/aircast/aircast/pkg/geo"
)

// ServiceConfig holds configuration for the observation service.
type ServiceConfig struct {
	// Locator resolves coordinates to stations (required).
	Locator *station.Locator

	// Weather is the current-weather provider (required).
	Weather weather.Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// WeatherTimeout bounds the weather fetch (default: 10 seconds).
	WeatherTimeout time.Duration
}

// Service resolves a coordinate into an enriched Observation. Station lookup
// and weather lookup fail independently: a missing station still yields
// weather-only data, and a weather outage still yields pollutant data.
// Only a registry failure aborts the request.
type Service struct {
	locator        *station.Locator
	weather        weather.Provider
	logger         zerolog.Logger
	weatherTimeout time.Duration
}

// NewService creates a new observation service.
func NewService(cfg ServiceConfig) *Service {
	weatherTimeout := cfg.WeatherTimeout
	if weatherTimeout == 0 {
		weatherTimeout = 10 * time.Second
	}

	return &Service{
		locator:        cfg.Locator,
		weather:        cfg.Weather,
		logger:         cfg.Logger,
		weatherTimeout: weatherTimeout,
	}
}

// Resolve assembles an Observation for the query coordinate.
//
// Weather is always fetched for the query coordinate, not the station's:
// the station may sit up to the search ceiling away, and the caller asked
// about conditions at their own location.
func (s *Service) Resolve(ctx context.Context, query geo.Coordinate) (*Observation, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	obs := &Observation{
		Location:   query,
		ResolvedAt: time.Now(),
	}

	match, err := s.locator.Nearest(ctx, query)
	switch {
	case err == nil:
		obs.Station = match.Station
		obs.DistanceKM = match.DistanceKM
		obs.PM25 = match.Station.Reading.PM25
		obs.PM10 = match.Station.Reading.PM10
		obs.PollutantAt = match.Station.Reading.MeasuredAt
	case errors.Is(err, station.ErrNoStationsInRange):
		obs.SearchCeilingKM = s.locator.CeilingKM()
		obs.Warnings = append(obs.Warnings, fmt.Sprintf(
			"no station with recent PM2.5 data within %.0f km", obs.SearchCeilingKM))
	default:
		// Registry unreachable or malformed: upstream failure, distinct
		// from a clean in-range miss.
		return nil, err
	}

	s.enrichWeather(ctx, obs)

	s.logger.Debug().
		Bool("station", obs.HasStation()).
		Bool("weather", obs.HasWeather()).
		Strs("warnings", obs.Warnings).
		Msg("observation resolved")

	return obs, nil
}

// enrichWeather merges current weather into the observation, degrading to a
// warning marker on provider failure.
func (s *Service) enrichWeather(ctx context.Context, obs *Observation) {
	weatherCtx, cancel := context.WithTimeout(ctx, s.weatherTimeout)
	defer cancel()

	sample, err := s.weather.Current(weatherCtx, obs.Location)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.weather.Name()).
			Float64("lat", obs.Location.Lat).
			Float64("lon", obs.Location.Lon).
			Msg("weather enrichment failed")
		obs.Warnings = append(obs.Warnings, WarningWeatherUnavailable)
		return
	}

	obs.Temperature = &sample.Temperature
	obs.RelativeHumidity = &sample.RelativeHumidity
	obs.WindSpeed = &sample.WindSpeed
	obs.WeatherAt = sample.ObservedAt
}
