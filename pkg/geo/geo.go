// Package geo provides geographic coordinate types and great-circle distance.
package geo

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate is returned when a coordinate is outside the valid range.
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// earthRadiusKM is the mean Earth radius used by the haversine formula.
const earthRadiusKM = 6371.0

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinate lies within [-90,90] x [-180,180].
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Distance returns the great-circle distance between two coordinates in
// kilometers, using the haversine formula on a spherical Earth.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}
