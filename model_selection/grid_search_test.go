package model_selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// shiftEstimator predicts the training mean plus a tunable shift. The
// optimal shift is 0, which makes the search outcome exact.
type shiftEstimator struct {
	shift  float64
	mean   float64
	fitted bool
}

func (s *shiftEstimator) Fit(X, y mat.Matrix) error {
	rows, _ := y.Dims()
	if rows == 0 {
		return errors.ErrEmptyData
	}
	sum := 0.0
	for i := 0; i < rows; i++ {
		sum += y.At(i, 0)
	}
	s.mean = sum / float64(rows)
	s.fitted = true
	return nil
}

func (s *shiftEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("shiftEstimator", "Predict")
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, s.mean+s.shift)
	}
	return out, nil
}

func (s *shiftEstimator) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "shift":
			s.shift = value.(float64)
		default:
			return errors.Newf("unknown parameter %q", key)
		}
	}
	return nil
}

func searchData() (*mat.Dense, *mat.Dense) {
	n := 20
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, 50+float64(i%5))
	}
	return X, y
}

func TestGridSearchFindsBestCandidate(t *testing.T) {
	X, y := searchData()
	gs := NewGridSearchCV(
		func() SearchEstimator { return &shiftEstimator{} },
		map[string][]interface{}{"shift": {-10.0, 0.0, 10.0}},
	).WithScoring("neg_rmse").WithCV(NewKFold(4, 2))

	require.NoError(t, gs.Fit(X, y))
	assert.Equal(t, 0.0, gs.BestParams_["shift"])
	assert.Len(t, gs.CVResults_, 3)
	for _, result := range gs.CVResults_ {
		assert.Len(t, result.FoldScores, 4)
		assert.LessOrEqual(t, result.MeanScore, gs.BestScore_)
	}
}

func TestGridSearchRefitsBestEstimator(t *testing.T) {
	X, y := searchData()
	gs := NewGridSearchCV(
		func() SearchEstimator { return &shiftEstimator{} },
		map[string][]interface{}{"shift": {0.0, 5.0}},
	).WithScoring("neg_rmse").WithCV(NewKFold(4, 2))
	require.NoError(t, gs.Fit(X, y))

	pred, err := gs.Predict(X)
	require.NoError(t, err)
	// The best estimator was refitted on the full data: it predicts the
	// global mean (52) everywhere.
	assert.InDelta(t, 52.0, pred.At(0, 0), 1e-9)
}

func TestGridSearchCandidateCountIsCartesianProduct(t *testing.T) {
	gs := NewGridSearchCV(nil, map[string][]interface{}{
		"a": {1, 2, 3},
		"b": {true, false},
	})
	assert.Len(t, gs.candidates(), 6)
}

func TestGridSearchUnknownScoring(t *testing.T) {
	X, y := searchData()
	gs := NewGridSearchCV(
		func() SearchEstimator { return &shiftEstimator{} },
		map[string][]interface{}{"shift": {0.0}},
	).WithScoring("accuracy").WithCV(NewKFold(4, 2))
	assert.Error(t, gs.Fit(X, y))
}

func TestGridSearchPredictRequiresFit(t *testing.T) {
	gs := NewGridSearchCV(func() SearchEstimator { return &shiftEstimator{} }, nil)
	_, err := gs.Predict(mat.NewDense(1, 1, nil))
	assert.Error(t, err)
}

func TestGridSearchPropagatesCandidateFailure(t *testing.T) {
	X, y := searchData()
	gs := NewGridSearchCV(
		func() SearchEstimator { return &shiftEstimator{} },
		map[string][]interface{}{"unknown_param": {1.0}},
	).WithCV(NewKFold(4, 2))
	assert.Error(t, gs.Fit(X, y))
}
