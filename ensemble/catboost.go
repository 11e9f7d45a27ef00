package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// CategoricalBoostRegressor is a gradient booster with native handling of
// integer-coded categorical columns. Categorical values are replaced by a
// smoothed target statistic before boosting:
//
//	stat(c) = (sum_y(c) + prior*CatSmooth) / (count(c) + CatSmooth)
//
// where prior is the global target mean. Categories unseen during Fit map
// to the prior.
type CategoricalBoostRegressor struct {
	model.BaseEstimator

	// NEstimators is the number of boosting rounds.
	NEstimators int
	// LearningRate shrinks each tree's contribution.
	LearningRate float64
	// MaxDepth limits each tree's depth.
	MaxDepth int
	// CategoricalFeatures lists the column indices treated as categorical.
	CategoricalFeatures []int
	// CatSmooth is the smoothing weight toward the prior.
	CatSmooth float64
	// RandomState seeds the internal booster.
	RandomState int64

	prior_     float64
	catStats_  map[int]map[float64]float64
	booster_   *GradientBoostingRegressor
	nFeatures_ int
}

// NewCategoricalBoostRegressor creates a booster with defaults.
func NewCategoricalBoostRegressor() *CategoricalBoostRegressor {
	return &CategoricalBoostRegressor{
		NEstimators:  100,
		LearningRate: 0.1,
		MaxDepth:     6,
		CatSmooth:    10.0,
		RandomState:  -1,
	}
}

// WithCategoricalFeatures sets the categorical column indices.
func (cb *CategoricalBoostRegressor) WithCategoricalFeatures(indices ...int) *CategoricalBoostRegressor {
	cb.CategoricalFeatures = indices
	return cb
}

// WithRandomState sets the random seed.
func (cb *CategoricalBoostRegressor) WithRandomState(seed int64) *CategoricalBoostRegressor {
	cb.RandomState = seed
	return cb
}

func (cb *CategoricalBoostRegressor) isCategorical(col int) bool {
	for _, c := range cb.CategoricalFeatures {
		if c == col {
			return true
		}
	}
	return false
}

// Fit computes target statistics for categorical columns, encodes X, and
// trains the internal booster on the encoded matrix.
func (cb *CategoricalBoostRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "CategoricalBoostRegressor.Fit")

	rows, cols := X.Dims()
	yRows, _ := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("CategoricalBoostRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("CategoricalBoostRegressor.Fit", rows, yRows, 0)
	}
	if cb.CatSmooth < 0 {
		return errors.NewValidationError("CatSmooth", "must be >= 0", cb.CatSmooth)
	}
	for _, c := range cb.CategoricalFeatures {
		if c < 0 || c >= cols {
			return errors.NewValidationError("CategoricalFeatures", "column index out of range", c)
		}
	}

	sum := 0.0
	for i := 0; i < rows; i++ {
		sum += y.At(i, 0)
	}
	cb.prior_ = sum / float64(rows)
	cb.nFeatures_ = cols

	cb.catStats_ = make(map[int]map[float64]float64, len(cb.CategoricalFeatures))
	for _, c := range cb.CategoricalFeatures {
		sums := make(map[float64]float64)
		counts := make(map[float64]float64)
		for i := 0; i < rows; i++ {
			v := X.At(i, c)
			sums[v] += y.At(i, 0)
			counts[v]++
		}
		stats := make(map[float64]float64, len(sums))
		for v, s := range sums {
			stats[v] = (s + cb.prior_*cb.CatSmooth) / (counts[v] + cb.CatSmooth)
		}
		cb.catStats_[c] = stats
	}

	encoded := cb.encode(X)

	cb.booster_ = NewGradientBoostingRegressor().
		WithNEstimators(cb.NEstimators).
		WithLearningRate(cb.LearningRate).
		WithMaxDepth(cb.MaxDepth).
		WithRandomState(cb.RandomState)
	if err := cb.booster_.Fit(encoded, y); err != nil {
		return err
	}

	cb.SetFitted()
	return nil
}

func (cb *CategoricalBoostRegressor) encode(X mat.Matrix) *mat.Dense {
	rows, cols := X.Dims()
	out := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		stats, categorical := cb.catStats_[j]
		for i := 0; i < rows; i++ {
			v := X.At(i, j)
			if categorical {
				if stat, ok := stats[v]; ok {
					v = stat
				} else {
					v = cb.prior_
				}
			}
			out.Set(i, j, v)
		}
	}
	return out
}

// Predict encodes X with the fitted target statistics and delegates to the
// internal booster.
func (cb *CategoricalBoostRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !cb.IsFitted() {
		return nil, errors.NewNotFittedError("CategoricalBoostRegressor", "Predict")
	}
	_, cols := X.Dims()
	if cols != cb.nFeatures_ {
		return nil, errors.NewDimensionError("CategoricalBoostRegressor.Predict", cb.nFeatures_, cols, 1)
	}
	return cb.booster_.Predict(cb.encode(X))
}

// FeatureImportances returns the internal booster's importances.
func (cb *CategoricalBoostRegressor) FeatureImportances() []float64 {
	if !cb.IsFitted() {
		return nil
	}
	return cb.booster_.FeatureImportances()
}

// Score returns the R² of the prediction on X against y.
func (cb *CategoricalBoostRegressor) Score(X, y mat.Matrix) (float64, error) {
	return scoreR2(cb, X, y)
}

// GetParams returns the regressor's hyperparameters.
func (cb *CategoricalBoostRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":  cb.NEstimators,
		"learning_rate": cb.LearningRate,
		"max_depth":     cb.MaxDepth,
		"cat_smooth":    cb.CatSmooth,
		"random_state":  cb.RandomState,
	}
}

// SetParams sets hyperparameters from a map.
func (cb *CategoricalBoostRegressor) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_estimators":
			cb.NEstimators = asInt(value)
		case "learning_rate":
			cb.LearningRate = asFloat(value)
		case "max_depth":
			cb.MaxDepth = asInt(value)
		case "cat_smooth":
			cb.CatSmooth = asFloat(value)
		case "random_state":
			cb.RandomState = int64(asInt(value))
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}
