package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// categoricalData has a categorical code in column 0 that fully determines
// the target and a constant filler in column 1.
func categoricalData() (*mat.Dense, *mat.Dense) {
	n := 30
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		code := float64(i % 3)
		X.Set(i, 0, code)
		y.Set(i, 0, 100*(code+1))
	}
	return X, y
}

func TestCategoricalBoostFitsCategoricalSignal(t *testing.T) {
	X, y := categoricalData()
	cb := NewCategoricalBoostRegressor().
		WithCategoricalFeatures(0).
		WithRandomState(9)
	require.NoError(t, cb.Fit(X, y))

	r2, err := cb.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.9)
}

func TestCategoricalBoostUnseenCategoryFallsBackToPrior(t *testing.T) {
	X, y := categoricalData()
	cb := NewCategoricalBoostRegressor().
		WithCategoricalFeatures(0).
		WithRandomState(9)
	require.NoError(t, cb.Fit(X, y))

	// Category 99 was never observed; its encoding is the global mean, so
	// the prediction must stay inside the observed target range.
	probe := mat.NewDense(1, 2, []float64{99, 15})
	pred, err := cb.Predict(probe)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pred.At(0, 0), 100.0)
	assert.LessOrEqual(t, pred.At(0, 0), 300.0)
}

func TestCategoricalBoostSmoothingPullsTowardPrior(t *testing.T) {
	X, y := categoricalData()

	light := NewCategoricalBoostRegressor().WithCategoricalFeatures(0).WithRandomState(9)
	light.CatSmooth = 0.001
	require.NoError(t, light.Fit(X, y))

	heavy := NewCategoricalBoostRegressor().WithCategoricalFeatures(0).WithRandomState(9)
	heavy.CatSmooth = 1e9
	require.NoError(t, heavy.Fit(X, y))

	// With overwhelming smoothing every category encodes to the prior, so
	// the categorical feature carries no signal and the fit is worse.
	lightR2, err := light.Score(X, y)
	require.NoError(t, err)
	heavyR2, err := heavy.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, lightR2, heavyR2)
}

func TestCategoricalBoostValidation(t *testing.T) {
	X, y := categoricalData()

	cb := NewCategoricalBoostRegressor().WithCategoricalFeatures(5)
	assert.Error(t, cb.Fit(X, y))

	cb = NewCategoricalBoostRegressor().WithCategoricalFeatures(0)
	cb.CatSmooth = -1
	assert.Error(t, cb.Fit(X, y))
}

func TestCategoricalBoostParams(t *testing.T) {
	cb := NewCategoricalBoostRegressor()
	require.NoError(t, cb.SetParams(map[string]interface{}{
		"cat_smooth":    5.0,
		"learning_rate": 0.2,
	}))
	params := cb.GetParams()
	assert.Equal(t, 5.0, params["cat_smooth"])
	assert.Equal(t, 0.2, params["learning_rate"])

	assert.Error(t, cb.SetParams(map[string]interface{}{"unknown": 1}))
}

func TestCategoricalBoostPredictRequiresFit(t *testing.T) {
	_, err := NewCategoricalBoostRegressor().Predict(mat.NewDense(1, 2, nil))
	assert.Error(t, err)
}
