// Package worker provides background observation capture for aircast.
package worker

import (
	"time"

	"github.com/aircast/aircast/pkg/geo"
)

// CaptureTarget represents a geographic region to capture observations for.
type CaptureTarget struct {
	// Name is the human-readable name of the target.
	Name string

	// Points are the coordinates to capture. Typically city centers
	// where prediction traffic concentrates.
	Points []geo.Coordinate

	// Priority determines capture order (lower = higher priority).
	Priority int
}

// CaptureConfig holds configuration for the observation capture job.
type CaptureConfig struct {
	// Targets are the geographic regions to capture.
	// If empty, uses DefaultCaptureTargets.
	Targets []CaptureTarget

	// Concurrency is the number of concurrent capture operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each capture operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultCaptureConfig returns the default capture configuration.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		Targets:     DefaultCaptureTargets(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultCaptureTargets returns the default capture targets: dense
// European metro areas with good OpenAQ station coverage.
func DefaultCaptureTargets() []CaptureTarget {
	return []CaptureTarget{
		{
			Name:     "Amsterdam",
			Priority: 1,
			Points: []geo.Coordinate{
				{Lat: 52.3676, Lon: 4.9041},
				{Lat: 52.3386, Lon: 4.8919},
			},
		},
		{
			Name:     "Rotterdam",
			Priority: 1,
			Points: []geo.Coordinate{
				{Lat: 51.9244, Lon: 4.4777},
			},
		},
		{
			Name:     "Paris",
			Priority: 1,
			Points: []geo.Coordinate{
				{Lat: 48.8566, Lon: 2.3522},
				{Lat: 48.8738, Lon: 2.2950},
			},
		},
		{
			Name:     "London",
			Priority: 1,
			Points: []geo.Coordinate{
				{Lat: 51.5074, Lon: -0.1278},
				{Lat: 51.5155, Lon: -0.0922},
			},
		},
		{
			Name:     "Berlin",
			Priority: 2,
			Points: []geo.Coordinate{
				{Lat: 52.5200, Lon: 13.4050},
			},
		},
		{
			Name:     "Madrid",
			Priority: 2,
			Points: []geo.Coordinate{
				{Lat: 40.4168, Lon: -3.7038},
			},
		},
		{
			Name:     "Milan",
			Priority: 2,
			Points: []geo.Coordinate{
				{Lat: 45.4642, Lon: 9.1900},
			},
		},
		{
			Name:     "Warsaw",
			Priority: 3,
			Points: []geo.Coordinate{
				{Lat: 52.2297, Lon: 21.0122},
			},
		},
	}
}

// AllPoints returns all points from all targets, ordered by priority.
func (c CaptureConfig) AllPoints() []geo.Coordinate {
	var points []geo.Coordinate
	for _, target := range c.Targets {
		points = append(points, target.Points...)
	}
	return points
}

// TotalPoints returns the total number of points to capture.
func (c CaptureConfig) TotalPoints() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Points)
	}
	return total
}
