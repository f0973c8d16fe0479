package forecast

import (
	"math"
	"time"

	"github.com/aircast/aircast/internal/observation"
)

// FeatureNames is the exact feature order every horizon's model was trained
// on. Artifacts declaring a different order fail to load.
var FeatureNames = []string{
	"pm25",
	"t2m",
	"wind_speed",
	"relative_humidity",
	"hour_sin",
	"hour_cos",
	"dow_sin",
	"dow_cos",
}

// FeatureVector is the fixed-order numeric input to a horizon model.
type FeatureVector []float64

// Defaults are the substitution values used for missing inputs. They must
// match what the models saw during training, so they are configuration
// rather than something inferred per request.
type Defaults struct {
	PM25             float64
	Temperature      float64
	WindSpeed        float64
	RelativeHumidity float64
}

// TrainingDefaults returns the substitution values the production models
// were trained with.
func TrainingDefaults() Defaults {
	return Defaults{
		PM25:             25.0,
		Temperature:      20.0,
		WindSpeed:        5.0,
		RelativeHumidity: 60.0,
	}
}

// Inputs are the raw values a feature vector is assembled from. Nil fields
// fall back to the assembler's defaults.
type Inputs struct {
	PM25             *float64
	Temperature      *float64
	WindSpeed        *float64
	RelativeHumidity *float64

	// At anchors the time-of-day and day-of-week encodings.
	At time.Time
}

// Assembler converts inputs into feature vectors. Pure and deterministic:
// the same inputs always yield an identical vector.
type Assembler struct {
	defaults Defaults
}

// NewAssembler creates an Assembler, falling back to TrainingDefaults for a
// zero-value configuration.
func NewAssembler(d Defaults) *Assembler {
	if d == (Defaults{}) {
		d = TrainingDefaults()
	}
	return &Assembler{defaults: d}
}

// Assemble builds the feature vector in FeatureNames order.
func (a *Assembler) Assemble(in Inputs) FeatureVector {
	hour := float64(in.At.Hour())
	// Monday is day zero in the training data.
	dow := float64((int(in.At.Weekday()) + 6) % 7)

	return FeatureVector{
		orDefault(in.PM25, a.defaults.PM25),
		orDefault(in.Temperature, a.defaults.Temperature),
		orDefault(in.WindSpeed, a.defaults.WindSpeed),
		orDefault(in.RelativeHumidity, a.defaults.RelativeHumidity),
		math.Sin(2 * math.Pi * hour / 24),
		math.Cos(2 * math.Pi * hour / 24),
		math.Sin(2 * math.Pi * dow / 7),
		math.Cos(2 * math.Pi * dow / 7),
	}
}

// FromObservation builds the feature vector for a resolved observation,
// anchored on the pollutant timestamp when present, then the weather
// timestamp, then the resolution time.
func (a *Assembler) FromObservation(obs *observation.Observation) FeatureVector {
	return a.Assemble(Inputs{
		PM25:             obs.PM25,
		Temperature:      obs.Temperature,
		WindSpeed:        obs.WindSpeed,
		RelativeHumidity: obs.RelativeHumidity,
		At:               ObservationAnchor(obs),
	})
}

// ObservationAnchor returns the timestamp an observation's feature vector
// is anchored on: the pollutant timestamp when present, then the weather
// timestamp, then the resolution time.
func ObservationAnchor(obs *observation.Observation) time.Time {
	at := obs.PollutantAt
	if at.IsZero() {
		at = obs.WeatherAt
	}
	if at.IsZero() {
		at = obs.ResolvedAt
	}
	return at
}

func orDefault(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
