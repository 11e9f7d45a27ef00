package ensemble

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/tree"
)

// GradientBoostingRegressor fits shallow regression trees sequentially,
// each on the residuals of the running prediction (L2 boosting). The
// initial prediction is the target mean.
type GradientBoostingRegressor struct {
	model.BaseEstimator

	// NEstimators is the number of boosting rounds.
	NEstimators int
	// LearningRate shrinks each tree's contribution.
	LearningRate float64
	// MaxDepth limits each tree's depth.
	MaxDepth int
	// MinSamplesSplit is the minimum samples to split a node.
	MinSamplesSplit int
	// MinSamplesLeaf is the minimum samples per leaf.
	MinSamplesLeaf int
	// Subsample is the fraction of rows drawn (without replacement) per
	// round. 1.0 uses every row.
	Subsample float64
	// RandomState seeds row subsampling. Negative means time-seeded.
	RandomState int64

	init_      float64
	trees_     []*tree.RegressionTree
	nFeatures_ int
}

// NewGradientBoostingRegressor creates a booster with scikit-learn's
// default hyperparameters.
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Subsample:       1.0,
		RandomState:     -1,
	}
}

// WithNEstimators sets the number of boosting rounds.
func (gb *GradientBoostingRegressor) WithNEstimators(n int) *GradientBoostingRegressor {
	gb.NEstimators = n
	return gb
}

// WithLearningRate sets the shrinkage rate.
func (gb *GradientBoostingRegressor) WithLearningRate(lr float64) *GradientBoostingRegressor {
	gb.LearningRate = lr
	return gb
}

// WithMaxDepth sets the per-tree depth limit.
func (gb *GradientBoostingRegressor) WithMaxDepth(d int) *GradientBoostingRegressor {
	gb.MaxDepth = d
	return gb
}

// WithRandomState sets the random seed.
func (gb *GradientBoostingRegressor) WithRandomState(seed int64) *GradientBoostingRegressor {
	gb.RandomState = seed
	return gb
}

// Fit trains the boosting chain.
func (gb *GradientBoostingRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GradientBoostingRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("GradientBoostingRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("GradientBoostingRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("GradientBoostingRegressor.Fit", 1, yCols, 1)
	}
	if gb.NEstimators < 1 {
		return errors.NewValidationError("NEstimators", "must be >= 1", gb.NEstimators)
	}
	if gb.LearningRate <= 0 {
		return errors.NewValidationError("LearningRate", "must be > 0", gb.LearningRate)
	}
	if gb.Subsample <= 0 || gb.Subsample > 1 {
		return errors.NewValidationError("Subsample", "must be in (0, 1]", gb.Subsample)
	}

	var rng *rand.Rand
	if gb.RandomState < 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(uint64(gb.RandomState), uint64(gb.RandomState)))
	}

	// Initial prediction: target mean.
	sum := 0.0
	for i := 0; i < rows; i++ {
		sum += y.At(i, 0)
	}
	gb.init_ = sum / float64(rows)
	gb.nFeatures_ = cols
	gb.trees_ = make([]*tree.RegressionTree, 0, gb.NEstimators)

	current := make([]float64, rows)
	for i := range current {
		current[i] = gb.init_
	}

	residual := mat.NewDense(rows, 1, nil)
	sampleSize := int(gb.Subsample * float64(rows))
	if sampleSize < 1 {
		sampleSize = 1
	}

	for round := 0; round < gb.NEstimators; round++ {
		for i := 0; i < rows; i++ {
			residual.Set(i, 0, y.At(i, 0)-current[i])
		}

		indices := make([]int, rows)
		for i := range indices {
			indices[i] = i
		}
		if sampleSize < rows {
			rng.Shuffle(rows, func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
			indices = indices[:sampleSize]
		}

		t := tree.NewRegressionTree(
			tree.WithMaxDepth(gb.MaxDepth),
			tree.WithMinSamplesSplit(gb.MinSamplesSplit),
			tree.WithMinSamplesLeaf(gb.MinSamplesLeaf),
			tree.WithRandomState(int64(rng.Uint64()>>1)),
		)
		if err := t.FitSubset(X, residual, indices); err != nil {
			return errors.Wrapf(err, "boosting round %d", round)
		}
		gb.trees_ = append(gb.trees_, t)

		pred, err := t.Predict(X)
		if err != nil {
			return err
		}
		for i := 0; i < rows; i++ {
			current[i] += gb.LearningRate * pred.At(i, 0)
		}
	}

	gb.SetFitted()
	return nil
}

// Predict returns init + learning_rate * sum of tree predictions.
func (gb *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gb.IsFitted() {
		return nil, errors.NewNotFittedError("GradientBoostingRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if cols != gb.nFeatures_ {
		return nil, errors.NewDimensionError("GradientBoostingRegressor.Predict", gb.nFeatures_, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, gb.init_)
	}
	for _, t := range gb.trees_ {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			out.Set(i, 0, out.At(i, 0)+gb.LearningRate*pred.At(i, 0))
		}
	}
	return out, nil
}

// FeatureImportances returns the mean normalized impurity reduction per
// feature across boosting rounds.
func (gb *GradientBoostingRegressor) FeatureImportances() []float64 {
	if !gb.IsFitted() {
		return nil
	}
	total := make([]float64, gb.nFeatures_)
	for _, t := range gb.trees_ {
		for j, v := range t.FeatureImportances() {
			total[j] += v
		}
	}
	sum := 0.0
	for _, v := range total {
		sum += v
	}
	if sum > 0 {
		for j := range total {
			total[j] /= sum
		}
	}
	return total
}

// Score returns the R² of the prediction on X against y.
func (gb *GradientBoostingRegressor) Score(X, y mat.Matrix) (float64, error) {
	return scoreR2(gb, X, y)
}

// GetParams returns the booster's hyperparameters.
func (gb *GradientBoostingRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      gb.NEstimators,
		"learning_rate":     gb.LearningRate,
		"max_depth":         gb.MaxDepth,
		"min_samples_split": gb.MinSamplesSplit,
		"min_samples_leaf":  gb.MinSamplesLeaf,
		"subsample":         gb.Subsample,
		"random_state":      gb.RandomState,
	}
}

// SetParams sets hyperparameters from a map.
func (gb *GradientBoostingRegressor) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_estimators":
			gb.NEstimators = asInt(value)
		case "learning_rate":
			gb.LearningRate = asFloat(value)
		case "max_depth":
			gb.MaxDepth = asInt(value)
		case "min_samples_split":
			gb.MinSamplesSplit = asInt(value)
		case "min_samples_leaf":
			gb.MinSamplesLeaf = asInt(value)
		case "subsample":
			gb.Subsample = asFloat(value)
		case "random_state":
			gb.RandomState = int64(asInt(value))
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}
