package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
)

// Model produces a single PM2.5 estimate from a feature vector.
type Model interface {
	Predict(vec FeatureVector) float64
}

// artifact is the on-disk JSON format of a trained regression model,
// exported by the offline training pipeline.
type artifact struct {
	HorizonHours int       `json:"horizon_hours"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// linearModel is a linear regression over the assembled feature vector.
type linearModel struct {
	coefficients []float64
	intercept    float64
}

func (m *linearModel) Predict(vec FeatureVector) float64 {
	v := m.intercept
	for i, c := range m.coefficients {
		v += c * vec[i]
	}
	return v
}

// Store holds the per-horizon models, loaded once at startup and read-only
// afterwards. Safe for concurrent use.
type Store struct {
	models map[Horizon]Model
}

// NewStore creates a Store from pre-built models. Used by tests and
// alternative model backends.
func NewStore(models map[Horizon]Model) *Store {
	return &Store{models: models}
}

// LoadStore reads model artifacts (forecast_{h}h.json) from dir for every
// known horizon. A missing artifact degrades that horizon only; a feature
// shape mismatch or an empty store is a fatal configuration error.
func LoadStore(dir string, logger zerolog.Logger) (*Store, error) {
	models := make(map[Horizon]Model)

	for _, h := range AllHorizons() {
		path := filepath.Join(dir, fmt.Sprintf("forecast_%dh.json", int(h)))

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn().
					Str("path", path).
					Str("horizon", h.Label()).
					Msg("model artifact missing, horizon will degrade")
				continue
			}
			return nil, fmt.Errorf("read model artifact %s: %w", path, err)
		}

		var a artifact
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
		}

		if err := validateShape(&a); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		models[h] = &linearModel{
			coefficients: a.Coefficients,
			intercept:    a.Intercept,
		}

		logger.Info().
			Str("horizon", h.Label()).
			Str("path", path).
			Msg("forecast model loaded")
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoModels, dir)
	}

	return &Store{models: models}, nil
}

// validateShape checks the artifact's feature list against the assembler's
// fixed order. Length and order must both match exactly.
func validateShape(a *artifact) error {
	if len(a.Features) != len(FeatureNames) {
		return fmt.Errorf("%w: artifact has %d features, expected %d",
			ErrFeatureShape, len(a.Features), len(FeatureNames))
	}
	for i, name := range a.Features {
		if name != FeatureNames[i] {
			return fmt.Errorf("%w: feature %d is %q, expected %q",
				ErrFeatureShape, i, name, FeatureNames[i])
		}
	}
	if len(a.Coefficients) != len(a.Features) {
		return fmt.Errorf("%w: %d coefficients for %d features",
			ErrFeatureShape, len(a.Coefficients), len(a.Features))
	}
	return nil
}

// Model returns the model for a horizon, or ErrModelMissing.
func (s *Store) Model(h Horizon) (Model, error) {
	m, ok := s.models[h]
	if !ok {
		return nil, fmt.Errorf("horizon %s: %w", h.Label(), ErrModelMissing)
	}
	return m, nil
}

// Horizons returns the horizons with loaded models, in increasing order.
func (s *Store) Horizons() []Horizon {
	horizons := make([]Horizon, 0, len(s.models))
	for h := range s.models {
		horizons = append(horizons, h)
	}
	sort.Slice(horizons, func(i, j int) bool { return horizons[i] < horizons[j] })
	return horizons
}
