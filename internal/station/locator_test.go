package station_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/pkg/geo"
)

// mockRegistry returns configurable stations and records queried radii.
type mockRegistry struct {
	mu       sync.Mutex
	stations []*station.Station
	err      error
	radii    []float64
}

func (m *mockRegistry) Query(_ context.Context, center geo.Coordinate, radiusKM float64) ([]*station.Station, error) {
	m.mu.Lock()
	m.radii = append(m.radii, radiusKM)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	// Radius-bounded, like the real registry.
	var within []*station.Station
	for _, s := range m.stations {
		if geo.Distance(center, s.Location) <= radiusKM {
			within = append(within, s)
		}
	}
	return within, nil
}

func (m *mockRegistry) queriedRadii() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.radii...)
}

func f64(v float64) *float64 { return &v }

// queryPoint is central Amsterdam; station offsets below are in degrees of
// latitude (1 degree is about 111.2 km).
var queryPoint = geo.Coordinate{Lat: 52.370216, Lon: 4.895168}

func stationAt(id string, offsetKM float64, reading station.Reading) *station.Station {
	return &station.Station{
		ID:   id,
		Name: "Station " + id,
		Location: geo.Coordinate{
			Lat: queryPoint.Lat + offsetKM/111.2,
			Lon: queryPoint.Lon,
		},
		Reading: reading,
	}
}

func newLocator(reg station.Registry, cfg station.LocatorConfig) *station.Locator {
	cfg.Registry = reg
	cfg.Logger = zerolog.New(io.Discard)
	return station.NewLocator(cfg)
}

func TestLocator_FirstTierHit_StopsSearch(t *testing.T) {
	reg := &mockRegistry{stations: []*station.Station{
		stationAt("ST1", 0.8, station.Reading{PM25: f64(82.5), MeasuredAt: time.Now()}),
	}}
	loc := newLocator(reg, station.LocatorConfig{})

	match, err := loc.Nearest(context.Background(), queryPoint)
	require.NoError(t, err)
	assert.Equal(t, "ST1", match.Station.ID)
	assert.InDelta(t, 0.8, match.DistanceKM, 0.05)
	assert.Equal(t, 1.0, match.TierKM)

	// A valid station within 1 km means wider tiers are never queried.
	assert.Equal(t, []float64{1}, reg.queriedRadii())
}

func TestLocator_ProgressesToWiderTier(t *testing.T) {
	reg := &mockRegistry{stations: []*station.Station{
		stationAt("ST12", 12, station.Reading{PM25: f64(18.0), MeasuredAt: time.Now()}),
	}}
	loc := newLocator(reg, station.LocatorConfig{})

	match, err := loc.Nearest(context.Background(), queryPoint)
	require.NoError(t, err)
	assert.Equal(t, "ST12", match.Station.ID)
	assert.Equal(t, 25.0, match.TierKM)
	assert.InDelta(t, 12.0, match.DistanceKM, 0.1)

	// Tiers 1, 5 and 10 km are exhausted before the 25 km tier hits.
	assert.Equal(t, []float64{1, 5, 10, 25}, reg.queriedRadii())
}

func TestLocator_NoStations_ReturnsNotFoundWithCeiling(t *testing.T) {
	reg := &mockRegistry{}
	loc := newLocator(reg, station.LocatorConfig{})

	_, err := loc.Nearest(context.Background(), queryPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, station.ErrNoStationsInRange)
	assert.Contains(t, err.Error(), "25 km")
	assert.Equal(t, 25.0, loc.CeilingKM())
}

func TestLocator_SkipsStationsWithoutPM25(t *testing.T) {
	reg := &mockRegistry{stations: []*station.Station{
		stationAt("NEAR", 0.5, station.Reading{PM10: f64(40), MeasuredAt: time.Now()}),
		stationAt("FAR", 4, station.Reading{PM25: f64(22.0), MeasuredAt: time.Now()}),
	}}
	loc := newLocator(reg, station.LocatorConfig{})

	match, err := loc.Nearest(context.Background(), queryPoint)
	require.NoError(t, err)
	assert.Equal(t, "FAR", match.Station.ID)
	assert.Equal(t, 5.0, match.TierKM)
}

func TestLocator_SkipsStaleReadings(t *testing.T) {
	reg := &mockRegistry{stations: []*station.Station{
		stationAt("STALE", 0.5, station.Reading{PM25: f64(30), MeasuredAt: time.Now().Add(-3 * time.Hour)}),
		stationAt("FRESH", 3, station.Reading{PM25: f64(12), MeasuredAt: time.Now()}),
	}}
	loc := newLocator(reg, station.LocatorConfig{StalenessCeiling: 2 * time.Hour})

	match, err := loc.Nearest(context.Background(), queryPoint)
	require.NoError(t, err)
	assert.Equal(t, "FRESH", match.Station.ID)
}

func TestLocator_TieBreak_NewestReadingThenID(t *testing.T) {
	now := time.Now()
	older := stationAt("AAA", 2, station.Reading{PM25: f64(10), MeasuredAt: now.Add(-time.Hour)})
	newer := stationAt("BBB", 2, station.Reading{PM25: f64(11), MeasuredAt: now})
	reg := &mockRegistry{stations: []*station.Station{older, newer}}
	loc := newLocator(reg, station.LocatorConfig{})

	match, err := loc.Nearest(context.Background(), queryPoint)
	require.NoError(t, err)
	assert.Equal(t, "BBB", match.Station.ID)

	// Equal timestamps fall back to stable ID order.
	older.Reading.MeasuredAt = now
	match, err = loc.Nearest(context.Background(), queryPoint)
	require.NoError(t, err)
	assert.Equal(t, "AAA", match.Station.ID)
}

func TestLocator_RegistryFailure_Distinguishable(t *testing.T) {
	reg := &mockRegistry{err: errors.New("connection refused")}
	loc := newLocator(reg, station.LocatorConfig{})

	_, err := loc.Nearest(context.Background(), queryPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, station.ErrRegistryUnavailable)
	assert.NotErrorIs(t, err, station.ErrNoStationsInRange)
}

func TestLocator_InvalidCoordinate(t *testing.T) {
	loc := newLocator(&mockRegistry{}, station.LocatorConfig{})

	_, err := loc.Nearest(context.Background(), geo.Coordinate{Lat: 95, Lon: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}
