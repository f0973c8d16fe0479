// Package forecast produces short-horizon PM2.5 predictions from trained
// per-horizon regression models.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/aircast/aircast/internal/aqi"
)

// Forecast errors.
var (
	// ErrModelMissing means no trained model is loaded for a horizon.
	ErrModelMissing = errors.New("model artifact missing")

	// ErrFeatureShape means a model artifact's feature list does not match
	// the assembler's feature order. Fatal configuration error.
	ErrFeatureShape = errors.New("feature shape mismatch")

	// ErrNoModels means no model artifacts could be loaded at all.
	ErrNoModels = errors.New("no forecast models loaded")
)

// Horizon is a forecast lead time in hours. Each horizon has its own
// trained model.
type Horizon int

// Trained horizons.
const (
	Horizon1h  Horizon = 1
	Horizon6h  Horizon = 6
	Horizon12h Horizon = 12
	Horizon24h Horizon = 24
)

// AllHorizons returns the full horizon set in increasing order.
func AllHorizons() []Horizon {
	return []Horizon{Horizon1h, Horizon6h, Horizon12h, Horizon24h}
}

// Label returns the horizon's wire label, e.g. "+6h".
func (h Horizon) Label() string {
	return fmt.Sprintf("+%dh", int(h))
}

// Status is the overall outcome of a prediction request.
type Status string

const (
	// StatusSuccess means every requested horizon produced a value.
	StatusSuccess Status = "success"

	// StatusPartial means at least one horizon produced a value and at
	// least one errored.
	StatusPartial Status = "partial"

	// StatusFailed means every requested horizon errored.
	StatusFailed Status = "failed"
)

// HorizonResult is one horizon's prediction or error marker.
type HorizonResult struct {
	// PM25 is the predicted concentration, nil when Err is set.
	PM25 *float64

	// Category classifies the predicted value; Unknown when Err is set.
	Category aqi.Category

	// Err marks a per-horizon failure that did not block other horizons.
	Err error
}

// PredictionSet maps each requested horizon to its result, carrying the
// input observation's timestamp for provenance. Produced once per request
// and never cached.
type PredictionSet struct {
	InputAt time.Time
	Results map[Horizon]HorizonResult
	Status  Status
}
