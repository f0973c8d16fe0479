// Package weather provides current-weather access for observation enrichment.
package weather

import (
	"context"
	"errors"
	"time"

	"github.com/aircast/aircast/pkg/geo"
)

// ErrProviderUnavailable means the weather provider could not be reached or
// returned malformed data. Enrichment treats this as a degradation, never as
// a request failure.
var ErrProviderUnavailable = errors.New("weather provider unavailable")

// Sample is a current-weather snapshot at a coordinate.
type Sample struct {
	Temperature      float64 // °C at 2m
	RelativeHumidity float64 // %
	WindSpeed        float64 // m/s at 10m
	ObservedAt       time.Time
	FetchedAt        time.Time
}

// Provider is the external weather source.
type Provider interface {
	// Current fetches the current weather at a coordinate. Failures map to
	// ErrProviderUnavailable.
	Current(ctx context.Context, at geo.Coordinate) (*Sample, error)

	// Name returns the provider name for logging.
	Name() string
}
