// Package history stores resolved observations so predictions can fall
// back to the most recent local reading when live lookups fail.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/aircast/aircast/pkg/geo"
)

// Record is a persisted snapshot of a resolved observation.
type Record struct {
	ID        uuid.UUID
	Location  geo.Coordinate
	StationID string

	PM25             *float64
	PM10             *float64
	Temperature      *float64
	RelativeHumidity *float64
	WindSpeed        *float64

	RecordedAt time.Time
}
