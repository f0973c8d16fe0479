package station

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/pkg/geo"
)

// DefaultRadiiKM is the progressive search radius sequence in kilometers.
var DefaultRadiiKM = []float64{1, 5, 10, 25}

// LocatorConfig holds configuration for the progressive station locator.
type LocatorConfig struct {
	// Registry is the station source (required).
	Registry Registry

	// Logger for locator operations.
	Logger zerolog.Logger

	// RadiiKM is the ordered, increasing radius sequence to search.
	// Default: DefaultRadiiKM.
	RadiiKM []float64

	// StalenessCeiling discards readings older than this. Zero disables
	// the staleness filter.
	StalenessCeiling time.Duration

	// QueryTimeout bounds each registry call (default: 10 seconds).
	QueryTimeout time.Duration
}

// Locator resolves a coordinate to the nearest station with a usable PM2.5
// reading, searching the registry at increasing radii. It is stateless with
// respect to request data and safe for concurrent use.
type Locator struct {
	registry         Registry
	logger           zerolog.Logger
	radiiKM          []float64
	stalenessCeiling time.Duration
	queryTimeout     time.Duration
}

// NewLocator creates a new progressive station locator.
func NewLocator(cfg LocatorConfig) *Locator {
	radii := cfg.RadiiKM
	if len(radii) == 0 {
		radii = DefaultRadiiKM
	}

	queryTimeout := cfg.QueryTimeout
	if queryTimeout == 0 {
		queryTimeout = 10 * time.Second
	}

	return &Locator{
		registry:         cfg.Registry,
		logger:           cfg.Logger,
		radiiKM:          radii,
		stalenessCeiling: cfg.StalenessCeiling,
		queryTimeout:     queryTimeout,
	}
}

// CeilingKM returns the largest radius the locator will search.
func (l *Locator) CeilingKM() float64 {
	return l.radiiKM[len(l.radiiKM)-1]
}

// candidate pairs a station with its distance from the query point.
type candidate struct {
	station    *Station
	distanceKM float64
}

// Nearest resolves the query coordinate to the closest usable station.
// It stops at the first radius tier that yields a candidate, so wider tiers
// are never queried when a closer station exists. Returns
// ErrNoStationsInRange when the largest tier is exhausted, and
// ErrRegistryUnavailable when the registry fails at any tier.
func (l *Locator) Nearest(ctx context.Context, query geo.Coordinate) (*Match, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	for _, radiusKM := range l.radiiKM {
		match, err := l.searchTier(ctx, query, radiusKM)
		if err != nil {
			return nil, err
		}
		if match != nil {
			l.logger.Debug().
				Str("station_id", match.Station.ID).
				Float64("distance_km", match.DistanceKM).
				Float64("tier_km", match.TierKM).
				Msg("station resolved")
			return match, nil
		}
	}

	l.logger.Debug().
		Float64("ceiling_km", l.CeilingKM()).
		Msg("no usable station within search ceiling")
	return nil, fmt.Errorf("within %.0f km: %w", l.CeilingKM(), ErrNoStationsInRange)
}

// searchTier queries one radius tier and selects the best candidate, or
// returns (nil, nil) when the tier has no usable station.
func (l *Locator) searchTier(ctx context.Context, query geo.Coordinate, radiusKM float64) (*Match, error) {
	queryCtx, cancel := context.WithTimeout(ctx, l.queryTimeout)
	defer cancel()

	stations, err := l.registry.Query(queryCtx, query, radiusKM)
	if err != nil {
		if errors.Is(err, ErrRegistryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrRegistryUnavailable, err)
	}

	candidates := make([]candidate, 0, len(stations))
	for _, s := range stations {
		if !l.usable(s) {
			continue
		}
		// The registry may return a broader set than the tier; the
		// effective filter radius must match the tier.
		d := geo.Distance(query, s.Location)
		if d > radiusKM {
			continue
		}
		candidates = append(candidates, candidate{station: s, distanceKM: d})
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	// Minimum distance wins; ties go to the most recent reading, then to
	// the lowest station ID for a stable order.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distanceKM != b.distanceKM {
			return a.distanceKM < b.distanceKM
		}
		if !a.station.Reading.MeasuredAt.Equal(b.station.Reading.MeasuredAt) {
			return a.station.Reading.MeasuredAt.After(b.station.Reading.MeasuredAt)
		}
		return a.station.ID < b.station.ID
	})

	best := candidates[0]
	return &Match{
		Station:    best.station,
		DistanceKM: best.distanceKM,
		TierKM:     radiusKM,
	}, nil
}

// usable reports whether a station has a PM2.5 reading fresh enough to serve.
func (l *Locator) usable(s *Station) bool {
	if s == nil || s.Reading.PM25 == nil {
		return false
	}
	if l.stalenessCeiling > 0 && !s.Reading.MeasuredAt.IsZero() {
		if time.Since(s.Reading.MeasuredAt) > l.stalenessCeiling {
			return false
		}
	}
	return true
}
