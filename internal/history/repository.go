package history

import (
	"context"
	"errors"

	"github.com/aircast/aircast/pkg/geo"
)

// ErrNoRecords is returned when no stored observation matches a query.
var ErrNoRecords = errors.New("no observation records found")

// Repository defines the interface for observation history storage.
type Repository interface {
	// Insert stores a new observation record.
	Insert(ctx context.Context, record *Record) error

	// Latest returns the most recent record within radiusKM of center.
	Latest(ctx context.Context, center geo.Coordinate, radiusKM float64) (*Record, error)

	// Recent returns up to limit records within radiusKM of center,
	// newest first.
	Recent(ctx context.Context, center geo.Coordinate, radiusKM float64, limit int) ([]*Record, error)
}
