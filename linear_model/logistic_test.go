package linear_model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separableData is two well-separated clusters on one feature.
func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 1, []float64{
		-2.0, -1.5, -1.8, -2.2,
		2.0, 1.5, 1.8, 2.2,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionSeparable(t *testing.T) {
	X, y := separableData()
	clf := NewLogisticRegression(
		WithMaxIter(500),
		WithRandomState(1),
	)
	require.NoError(t, clf.Fit(X, y))
	require.True(t, clf.IsFitted())

	acc, err := clf.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func TestLogisticRegressionClassesSorted(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{-2, -2, 0, 0, 2, 2})
	y := mat.NewDense(6, 1, []float64{300, 300, 100, 100, 200, 200})
	clf := NewLogisticRegression(WithMaxIter(200), WithRandomState(1))
	require.NoError(t, clf.Fit(X, y))
	assert.Equal(t, []float64{100, 200, 300}, clf.Classes())
}

func TestLogisticRegressionProbaSumsToOne(t *testing.T) {
	X, y := separableData()
	clf := NewLogisticRegression(WithMaxIter(200), WithRandomState(1))
	require.NoError(t, clf.Fit(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)
	rows, cols := proba.Dims()
	assert.Equal(t, 8, rows)
	assert.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for k := 0; k < cols; k++ {
			p := proba.At(i, k)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestLogisticRegressionPredictsClassValues(t *testing.T) {
	X, y := separableData()
	clf := NewLogisticRegression(WithMaxIter(500), WithRandomState(1))
	require.NoError(t, clf.Fit(X, y))

	pred, err := clf.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		v := pred.At(i, 0)
		assert.Contains(t, []float64{0, 1}, v)
	}
}

func TestLogisticRegressionValidation(t *testing.T) {
	// Single class is not learnable.
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{5, 5, 5})
	clf := NewLogisticRegression(WithRandomState(1))
	assert.Error(t, clf.Fit(X, y))

	// Unknown penalty.
	clf = NewLogisticRegression(WithPenalty("l7"), WithRandomState(1))
	assert.Error(t, clf.Fit(X, mat.NewDense(3, 1, []float64{0, 1, 0})))
}

func TestLogisticRegressionPredictRequiresFit(t *testing.T) {
	clf := NewLogisticRegression()
	_, err := clf.Predict(mat.NewDense(1, 1, []float64{0}))
	assert.Error(t, err)
}

func TestLogisticRegressionParams(t *testing.T) {
	clf := NewLogisticRegression()
	require.NoError(t, clf.SetParams(map[string]interface{}{
		"C":        10.0,
		"max_iter": 300,
	}))
	params := clf.GetParams()
	assert.Equal(t, 10.0, params["C"])
	assert.Equal(t, 300, params["max_iter"])

	assert.Error(t, clf.SetParams(map[string]interface{}{"gamma": 1}))
}
