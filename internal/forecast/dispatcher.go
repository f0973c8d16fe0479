package forecast

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/aqi"
)

// DispatcherConfig holds configuration for the forecast dispatcher.
type DispatcherConfig struct {
	// Store provides the per-horizon models (required).
	Store *Store

	// Classifier categorizes predicted values (required).
	Classifier *aqi.Classifier

	// Logger for dispatch operations.
	Logger zerolog.Logger
}

// Dispatcher runs a feature vector through one model per horizon. Horizons
// are mutually independent: one horizon's failure never blocks the others.
type Dispatcher struct {
	store      *Store
	classifier *aqi.Classifier
	logger     zerolog.Logger
}

// NewDispatcher creates a new forecast dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		store:      cfg.Store,
		classifier: cfg.Classifier,
		logger:     cfg.Logger,
	}
}

// Forecast predicts PM2.5 for each requested horizon (all horizons when
// none are given). Predictions are clamped to zero from below, since a
// concentration cannot be negative, and rounded to two decimals.
func (d *Dispatcher) Forecast(vec FeatureVector, inputAt time.Time, horizons []Horizon) *PredictionSet {
	if len(horizons) == 0 {
		horizons = AllHorizons()
	}

	set := &PredictionSet{
		InputAt: inputAt,
		Results: make(map[Horizon]HorizonResult, len(horizons)),
	}

	succeeded := 0
	for _, h := range horizons {
		model, err := d.store.Model(h)
		if err != nil {
			d.logger.Warn().
				Err(err).
				Str("horizon", h.Label()).
				Msg("horizon prediction unavailable")
			set.Results[h] = HorizonResult{Category: aqi.CategoryUnknown, Err: err}
			continue
		}

		v := model.Predict(vec)
		if v < 0 {
			v = 0
		}
		v = math.Round(v*100) / 100

		set.Results[h] = HorizonResult{
			PM25:     &v,
			Category: d.classifier.Classify(&v),
		}
		succeeded++
	}

	switch {
	case succeeded == len(horizons):
		set.Status = StatusSuccess
	case succeeded > 0:
		set.Status = StatusPartial
	default:
		set.Status = StatusFailed
	}

	return set
}
