// Package handler provides HTTP handlers for the aircast API.
package handler

import (
	"context"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/observation"
	"github.com/aircast/aircast/pkg/geo"
)

// ObservationResolver resolves a coordinate into an observation.
type ObservationResolver interface {
	Resolve(ctx context.Context, query geo.Coordinate) (*observation.Observation, error)
}

// airQualityResponse converts a resolved observation into its API shape.
func airQualityResponse(obs *observation.Observation, classifier *aqi.Classifier) *models.AirQualityResponse {
	resp := &models.AirQualityResponse{
		Location:   models.Point{Lat: obs.Location.Lat, Lon: obs.Location.Lon},
		Category:   string(classifier.Classify(obs.PM25)),
		ResolvedAt: models.Timestamp(obs.ResolvedAt),
		Warnings:   obs.Warnings,
	}

	if obs.HasStation() {
		resp.Station = &models.StationResponse{
			ID:         obs.Station.ID,
			Name:       obs.Station.Name,
			Location:   models.Point{Lat: obs.Station.Location.Lat, Lon: obs.Station.Location.Lon},
			DistanceKM: obs.DistanceKM,
		}
		resp.Pollutant = &models.PollutantResponse{
			PM25:       obs.PM25,
			PM10:       obs.PM10,
			MeasuredAt: models.Timestamp(obs.PollutantAt),
		}
	} else {
		ceiling := obs.SearchCeilingKM
		resp.SearchCeilingKM = &ceiling
	}

	if obs.HasWeather() {
		resp.Weather = &models.WeatherResponse{
			Temperature:      *obs.Temperature,
			RelativeHumidity: *obs.RelativeHumidity,
			WindSpeed:        *obs.WindSpeed,
		}
	}

	return resp
}

// parseCoordinate validates query lat/lon values into a coordinate.
func parseCoordinate(lat, lon float64) (geo.Coordinate, error) {
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if err := c.Validate(); err != nil {
		return geo.Coordinate{}, err
	}
	return c, nil
}
