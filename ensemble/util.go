package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/metrics"
)

// asInt coerces the numeric types that appear in parameter grids to int.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// asFloat coerces the numeric types that appear in parameter grids to
// float64.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// scoreR2 implements the shared Score method: R² of the model's prediction
// on X against y.
func scoreR2(p model.Predictor, X, y mat.Matrix) (float64, error) {
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	yVec, err := metrics.ColVec(y, 0)
	if err != nil {
		return 0, err
	}
	predVec, err := metrics.ColVec(pred, 0)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yVec, predVec)
}
