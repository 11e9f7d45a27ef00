package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGradientBoostingImprovesOverMean(t *testing.T) {
	X, y := regressionData()
	gb := NewGradientBoostingRegressor().WithNEstimators(50).WithRandomState(5)
	require.NoError(t, gb.Fit(X, y))

	// R² of the mean prediction is 0; boosting must beat it clearly.
	r2, err := gb.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.9)
}

func TestGradientBoostingShrinkage(t *testing.T) {
	X, y := regressionData()

	// One round with a tiny learning rate stays close to the mean.
	gb := NewGradientBoostingRegressor().
		WithNEstimators(1).
		WithLearningRate(0.01).
		WithRandomState(5)
	require.NoError(t, gb.Fit(X, y))

	pred, err := gb.Predict(X)
	require.NoError(t, err)

	var yMean float64
	rows, _ := y.Dims()
	for i := 0; i < rows; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(rows)

	for i := 0; i < rows; i++ {
		assert.InDelta(t, yMean, pred.At(i, 0), 0.05*yMean+1)
	}
}

func TestGradientBoostingSubsampleValidation(t *testing.T) {
	X, y := regressionData()
	gb := NewGradientBoostingRegressor()
	gb.Subsample = 1.5
	assert.Error(t, gb.Fit(X, y))
}

func TestGradientBoostingImportances(t *testing.T) {
	X, y := regressionData()
	gb := NewGradientBoostingRegressor().WithNEstimators(20).WithRandomState(5)
	require.NoError(t, gb.Fit(X, y))

	imp := gb.FeatureImportances()
	require.Len(t, imp, 2)
	sum := 0.0
	for _, v := range imp {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestGradientBoostingParams(t *testing.T) {
	gb := NewGradientBoostingRegressor()
	require.NoError(t, gb.SetParams(map[string]interface{}{
		"learning_rate": 0.05,
		"n_estimators":  200,
		"subsample":     0.8,
	}))
	params := gb.GetParams()
	assert.Equal(t, 0.05, params["learning_rate"])
	assert.Equal(t, 200, params["n_estimators"])
	assert.Equal(t, 0.8, params["subsample"])

	assert.Error(t, gb.SetParams(map[string]interface{}{"nope": true}))
}

func TestGradientBoostingPredictRequiresFit(t *testing.T) {
	_, err := NewGradientBoostingRegressor().Predict(mat.NewDense(1, 2, nil))
	assert.Error(t, err)
}
