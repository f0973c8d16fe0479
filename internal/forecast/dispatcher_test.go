package forecast_test

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/forecast"
)

// constModel always predicts the same value.
type constModel struct{ v float64 }

func (m constModel) Predict(forecast.FeatureVector) float64 { return m.v }

func newDispatcher(models map[forecast.Horizon]forecast.Model) *forecast.Dispatcher {
	return forecast.NewDispatcher(forecast.DispatcherConfig{
		Store:      forecast.NewStore(models),
		Classifier: aqi.NewClassifier(aqi.DefaultThresholds()),
		Logger:     zerolog.New(io.Discard),
	})
}

func testVector() forecast.FeatureVector {
	return forecast.NewAssembler(forecast.TrainingDefaults()).Assemble(forecast.Inputs{
		At: time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC),
	})
}

func TestDispatcher_AllHorizonsSucceed(t *testing.T) {
	d := newDispatcher(map[forecast.Horizon]forecast.Model{
		forecast.Horizon1h:  constModel{v: 12.344},
		forecast.Horizon6h:  constModel{v: 20},
		forecast.Horizon12h: constModel{v: 40},
		forecast.Horizon24h: constModel{v: 80},
	})

	inputAt := time.Now()
	set := d.Forecast(testVector(), inputAt, nil)

	assert.Equal(t, forecast.StatusSuccess, set.Status)
	assert.Equal(t, inputAt, set.InputAt)
	require.Len(t, set.Results, 4)

	r1 := set.Results[forecast.Horizon1h]
	require.NotNil(t, r1.PM25)
	assert.Equal(t, 12.34, *r1.PM25) // rounded to two decimals
	assert.Equal(t, aqi.CategoryGood, r1.Category)

	assert.Equal(t, aqi.CategoryModerate, set.Results[forecast.Horizon6h].Category)
	assert.Equal(t, aqi.CategoryVeryUnhealthy, set.Results[forecast.Horizon24h].Category)
}

func TestDispatcher_NegativePredictionClampedToZero(t *testing.T) {
	d := newDispatcher(map[forecast.Horizon]forecast.Model{
		forecast.Horizon1h: constModel{v: -4.2},
	})

	set := d.Forecast(testVector(), time.Now(), []forecast.Horizon{forecast.Horizon1h})

	require.Equal(t, forecast.StatusSuccess, set.Status)
	assert.Equal(t, 0.0, *set.Results[forecast.Horizon1h].PM25)
	assert.Equal(t, aqi.CategoryGood, set.Results[forecast.Horizon1h].Category)
}

func TestDispatcher_OneHorizonMissing_Partial(t *testing.T) {
	d := newDispatcher(map[forecast.Horizon]forecast.Model{
		forecast.Horizon1h:  constModel{v: 10},
		forecast.Horizon6h:  constModel{v: 11},
		forecast.Horizon12h: constModel{v: 12},
		// 24h model missing
	})

	set := d.Forecast(testVector(), time.Now(), nil)

	assert.Equal(t, forecast.StatusPartial, set.Status)

	r24 := set.Results[forecast.Horizon24h]
	assert.Nil(t, r24.PM25)
	assert.Equal(t, aqi.CategoryUnknown, r24.Category)
	require.Error(t, r24.Err)
	assert.ErrorIs(t, r24.Err, forecast.ErrModelMissing)

	// The other horizons are unaffected.
	assert.Equal(t, 10.0, *set.Results[forecast.Horizon1h].PM25)
}

func TestDispatcher_AllHorizonsMissing_Failed(t *testing.T) {
	d := newDispatcher(map[forecast.Horizon]forecast.Model{})

	set := d.Forecast(testVector(), time.Now(), nil)

	assert.Equal(t, forecast.StatusFailed, set.Status)
	for h, r := range set.Results {
		assert.Nil(t, r.PM25, "horizon %s", h.Label())
		assert.ErrorIs(t, r.Err, forecast.ErrModelMissing)
	}
}

func TestDispatcher_SubsetOfHorizons(t *testing.T) {
	d := newDispatcher(map[forecast.Horizon]forecast.Model{
		forecast.Horizon1h: constModel{v: 10},
		forecast.Horizon6h: constModel{v: 11},
	})

	set := d.Forecast(testVector(), time.Now(), []forecast.Horizon{forecast.Horizon1h})

	assert.Equal(t, forecast.StatusSuccess, set.Status)
	assert.Len(t, set.Results, 1)
}
