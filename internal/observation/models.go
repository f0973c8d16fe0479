// Package observation assembles request-scoped observation records from
// station pollutant readings and current weather.
package observation

import (
	"time"

	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/pkg/geo"
)

// Warning messages attached to degraded observations.
const (
	WarningWeatherUnavailable = "weather data unavailable"
)

// Observation is the record assembled for one resolution request. It is
// constructed once per request and immutable after assembly; nothing in the
// core pipeline persists it.
type Observation struct {
	// Location is the original query coordinate.
	Location geo.Coordinate

	// Station is the resolved station, nil when none was found in range.
	Station *station.Station

	// DistanceKM is the query-to-station distance, valid when Station is set.
	DistanceKM float64

	// SearchCeilingKM is the largest radius searched; reported when no
	// station was found.
	SearchCeilingKM float64

	// Pollutant values from the station's latest reading.
	PM25 *float64
	PM10 *float64

	// Weather values, nil when the weather provider was unavailable.
	Temperature      *float64
	RelativeHumidity *float64
	WindSpeed        *float64

	// PollutantAt is the station reading timestamp.
	PollutantAt time.Time

	// WeatherAt is the weather observation timestamp.
	WeatherAt time.Time

	// ResolvedAt is when this record was assembled.
	ResolvedAt time.Time

	// Warnings carries non-fatal degradation markers.
	Warnings []string
}

// HasStation reports whether a station was resolved.
func (o *Observation) HasStation() bool {
	return o.Station != nil
}

// HasWeather reports whether weather enrichment succeeded.
func (o *Observation) HasWeather() bool {
	return o.Temperature != nil && o.RelativeHumidity != nil && o.WindSpeed != nil
}
