package forecast_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/observation"
)

func f64(v float64) *float64 { return &v }

// Wednesday 2026-08-26 15:00 UTC: hour=15, Monday-based day-of-week=2.
var anchorTime = time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

func TestAssembler_Assemble_OrderAndEncoding(t *testing.T) {
	a := forecast.NewAssembler(forecast.TrainingDefaults())

	vec := a.Assemble(forecast.Inputs{
		PM25:             f64(12.5),
		Temperature:      f64(18.0),
		WindSpeed:        f64(3.2),
		RelativeHumidity: f64(65.0),
		At:               anchorTime,
	})

	require.Len(t, vec, len(forecast.FeatureNames))
	assert.Equal(t, 12.5, vec[0])
	assert.Equal(t, 18.0, vec[1])
	assert.Equal(t, 3.2, vec[2])
	assert.Equal(t, 65.0, vec[3])
	assert.InDelta(t, math.Sin(2*math.Pi*15/24), vec[4], 1e-12)
	assert.InDelta(t, math.Cos(2*math.Pi*15/24), vec[5], 1e-12)
	assert.InDelta(t, math.Sin(2*math.Pi*2/7), vec[6], 1e-12)
	assert.InDelta(t, math.Cos(2*math.Pi*2/7), vec[7], 1e-12)
}

func TestAssembler_Assemble_Deterministic(t *testing.T) {
	a := forecast.NewAssembler(forecast.TrainingDefaults())
	in := forecast.Inputs{
		PM25:             f64(30),
		Temperature:      f64(21),
		WindSpeed:        f64(2),
		RelativeHumidity: f64(55),
		At:               anchorTime,
	}

	assert.Equal(t, a.Assemble(in), a.Assemble(in))
}

func TestAssembler_Assemble_MissingInputsUseTrainingDefaults(t *testing.T) {
	a := forecast.NewAssembler(forecast.Defaults{})

	vec := a.Assemble(forecast.Inputs{At: anchorTime})

	assert.Equal(t, 25.0, vec[0])
	assert.Equal(t, 20.0, vec[1])
	assert.Equal(t, 5.0, vec[2])
	assert.Equal(t, 60.0, vec[3])
}

func TestAssembler_FromObservation(t *testing.T) {
	a := forecast.NewAssembler(forecast.TrainingDefaults())

	obs := &observation.Observation{
		PM25:             f64(42),
		Temperature:      f64(17),
		WindSpeed:        f64(6),
		RelativeHumidity: f64(80),
		PollutantAt:      anchorTime,
		ResolvedAt:       anchorTime.Add(time.Hour),
	}

	vec := a.FromObservation(obs)
	assert.Equal(t, 42.0, vec[0])
	// Encodings are anchored on the pollutant timestamp, not ResolvedAt.
	assert.InDelta(t, math.Sin(2*math.Pi*15/24), vec[4], 1e-12)

	// Same observation twice yields a field-identical vector.
	assert.Equal(t, vec, a.FromObservation(obs))
}

func TestAssembler_FromObservation_TimestampFallback(t *testing.T) {
	a := forecast.NewAssembler(forecast.TrainingDefaults())

	weatherAt := time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC)
	obs := &observation.Observation{
		WeatherAt:  weatherAt,
		ResolvedAt: anchorTime,
	}

	vec := a.FromObservation(obs)
	assert.InDelta(t, math.Sin(2*math.Pi*7/24), vec[4], 1e-12)
}
