package forecast_test

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/forecast"
)

type artifactJSON struct {
	HorizonHours int       `json:"horizon_hours"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func writeArtifact(t *testing.T, dir string, hours int, a artifactJSON) {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	path := filepath.Join(dir, "forecast_"+itoa(hours)+"h.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func itoa(n int) string {
	switch n {
	case 1:
		return "1"
	case 6:
		return "6"
	case 12:
		return "12"
	case 24:
		return "24"
	}
	return ""
}

func validArtifact(hours int) artifactJSON {
	coefs := make([]float64, len(forecast.FeatureNames))
	coefs[0] = 0.9 // persistence on current pm25
	return artifactJSON{
		HorizonHours: hours,
		Features:     forecast.FeatureNames,
		Coefficients: coefs,
		Intercept:    1.5,
	}
}

func TestLoadStore_AllHorizons(t *testing.T) {
	dir := t.TempDir()
	for _, h := range []int{1, 6, 12, 24} {
		writeArtifact(t, dir, h, validArtifact(h))
	}

	store, err := forecast.LoadStore(dir, zerolog.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, forecast.AllHorizons(), store.Horizons())

	model, err := store.Model(forecast.Horizon6h)
	require.NoError(t, err)

	vec := forecast.NewAssembler(forecast.TrainingDefaults()).Assemble(forecast.Inputs{})
	assert.InDelta(t, 0.9*25.0+1.5, model.Predict(vec), 1e-9)
}

func TestLoadStore_MissingHorizonDegrades(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, 1, validArtifact(1))
	writeArtifact(t, dir, 24, validArtifact(24))

	store, err := forecast.LoadStore(dir, zerolog.New(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, []forecast.Horizon{forecast.Horizon1h, forecast.Horizon24h}, store.Horizons())

	_, err = store.Model(forecast.Horizon6h)
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrModelMissing)
}

func TestLoadStore_EmptyDirFails(t *testing.T) {
	_, err := forecast.LoadStore(t.TempDir(), zerolog.New(io.Discard))
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrNoModels)
}

func TestLoadStore_FeatureShapeMismatchIsFatal(t *testing.T) {
	dir := t.TempDir()
	bad := validArtifact(1)
	bad.Features = []string{"pm25", "t2m"} // truncated shape
	bad.Coefficients = []float64{0.9, 0.1}
	writeArtifact(t, dir, 1, bad)

	_, err := forecast.LoadStore(dir, zerolog.New(io.Discard))
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrFeatureShape)
}

func TestLoadStore_FeatureOrderMismatchIsFatal(t *testing.T) {
	dir := t.TempDir()
	bad := validArtifact(1)
	reordered := append([]string(nil), forecast.FeatureNames...)
	reordered[0], reordered[1] = reordered[1], reordered[0]
	bad.Features = reordered
	writeArtifact(t, dir, 1, bad)

	_, err := forecast.LoadStore(dir, zerolog.New(io.Discard))
	require.Error(t, err)
	assert.ErrorIs(t, err, forecast.ErrFeatureShape)
}
