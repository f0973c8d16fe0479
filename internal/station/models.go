// Package station provides nearest-station resolution over an external
// air-quality monitoring station registry.
package station

import (
	"context"
	"errors"
	"time"

	"github.com/aircast/aircast/pkg/geo"
)

// Locator errors.
var (
	// ErrNoStationsInRange means no station with a usable PM2.5 reading was
	// found within the largest search radius. This is an expected outcome,
	// not a registry failure.
	ErrNoStationsInRange = errors.New("no stations within range")

	// ErrRegistryUnavailable means the station registry could not be reached
	// or returned malformed data.
	ErrRegistryUnavailable = errors.New("station registry unavailable")
)

// Reading holds the most recent pollutant measurements reported by a station.
// PM2.5 is required for a station to be usable; PM10 is optional.
type Reading struct {
	PM25       *float64
	PM10       *float64
	MeasuredAt time.Time
}

// Station is a fixed-location sensor with its latest reading snapshot.
// The locator only reads stations, it never mutates them.
type Station struct {
	ID       string
	Name     string
	Location geo.Coordinate
	Reading  Reading
}

// Registry is the external station source queried by the locator.
type Registry interface {
	// Query returns stations within radiusKM of center, with their latest
	// readings. Implementations may return a broader set; the locator
	// re-filters by distance. Failures map to ErrRegistryUnavailable.
	Query(ctx context.Context, center geo.Coordinate, radiusKM float64) ([]*Station, error)
}

// Match is a successfully resolved station with its distance from the query
// point and the search tier that produced it.
type Match struct {
	Station    *Station
	DistanceKM float64
	TierKM     float64
}
