// Package ensemble implements the tree-ensemble regressors trained by the
// homeprice pipeline: a bootstrap random forest, L2 gradient boosting, and
// a categorical-aware boosting variant.
package ensemble

import (
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/tree"
)

// RandomForestRegressor averages bootstrap-trained regression trees. Trees
// are fitted concurrently, one goroutine per tree, each with its own seeded
// random source.
type RandomForestRegressor struct {
	model.BaseEstimator

	// NEstimators is the number of trees.
	NEstimators int
	// MaxDepth limits each tree's depth. 0 means no limit.
	MaxDepth int
	// MinSamplesSplit is the minimum samples to split a node.
	MinSamplesSplit int
	// MinSamplesLeaf is the minimum samples per leaf.
	MinSamplesLeaf int
	// MaxFeatures is the number of features sampled per split.
	// 0 means all features.
	MaxFeatures int
	// Bootstrap toggles sampling rows with replacement per tree.
	Bootstrap bool
	// RandomState seeds sampling. Negative means time-seeded.
	RandomState int64

	trees_     []*tree.RegressionTree
	nFeatures_ int
}

// NewRandomForestRegressor creates a forest with scikit-learn's default
// hyperparameters.
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     -1,
	}
}

// WithNEstimators sets the number of trees.
func (rf *RandomForestRegressor) WithNEstimators(n int) *RandomForestRegressor {
	rf.NEstimators = n
	return rf
}

// WithMaxDepth sets the maximum tree depth.
func (rf *RandomForestRegressor) WithMaxDepth(d int) *RandomForestRegressor {
	rf.MaxDepth = d
	return rf
}

// WithMaxFeatures sets the per-split feature sample size.
func (rf *RandomForestRegressor) WithMaxFeatures(k int) *RandomForestRegressor {
	rf.MaxFeatures = k
	return rf
}

// WithRandomState sets the random seed.
func (rf *RandomForestRegressor) WithRandomState(seed int64) *RandomForestRegressor {
	rf.RandomState = seed
	return rf
}

// Fit trains the forest.
func (rf *RandomForestRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "RandomForestRegressor.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("RandomForestRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("RandomForestRegressor.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("RandomForestRegressor.Fit", 1, yCols, 1)
	}
	if rf.NEstimators < 1 {
		return errors.NewValidationError("NEstimators", "must be >= 1", rf.NEstimators)
	}

	baseSeed := rf.RandomState
	if baseSeed < 0 {
		baseSeed = int64(rand.Uint64() >> 1)
	}

	rf.nFeatures_ = cols
	rf.trees_ = make([]*tree.RegressionTree, rf.NEstimators)
	errs := make([]error, rf.NEstimators)

	var wg sync.WaitGroup
	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			seed := baseSeed + int64(idx)
			treeRand := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

			indices := make([]int, rows)
			for j := range indices {
				if rf.Bootstrap {
					indices[j] = treeRand.IntN(rows)
				} else {
					indices[j] = j
				}
			}

			t := tree.NewRegressionTree(
				tree.WithMaxDepth(rf.MaxDepth),
				tree.WithMinSamplesSplit(rf.MinSamplesSplit),
				tree.WithMinSamplesLeaf(rf.MinSamplesLeaf),
				tree.WithMaxFeatures(rf.MaxFeatures),
				tree.WithRandomState(seed),
			)
			if err := t.FitSubset(X, y, indices); err != nil {
				errs[idx] = errors.Wrapf(err, "tree %d", idx)
				return
			}
			rf.trees_[idx] = t
		}(i)
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			return e
		}
	}

	rf.SetFitted()
	return nil
}

// Predict returns the mean prediction across trees.
func (rf *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestRegressor", "Predict")
	}
	rows, cols := X.Dims()
	if cols != rf.nFeatures_ {
		return nil, errors.NewDimensionError("RandomForestRegressor.Predict", rf.nFeatures_, cols, 1)
	}

	out := mat.NewDense(rows, 1, nil)
	for _, t := range rf.trees_ {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows; i++ {
			out.Set(i, 0, out.At(i, 0)+pred.At(i, 0))
		}
	}
	scale := 1.0 / float64(len(rf.trees_))
	for i := 0; i < rows; i++ {
		out.Set(i, 0, out.At(i, 0)*scale)
	}
	return out, nil
}

// FeatureImportances returns the mean normalized impurity reduction per
// feature across trees.
func (rf *RandomForestRegressor) FeatureImportances() []float64 {
	if !rf.IsFitted() {
		return nil
	}
	total := make([]float64, rf.nFeatures_)
	for _, t := range rf.trees_ {
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
func (rf *RandomForestRegressor) Score(X, y mat.Matrix) (float64, error) {
	return scoreR2(rf, X, y)
}

// GetParams returns the forest's hyperparameters.
func (rf *RandomForestRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":      rf.NEstimators,
		"max_depth":         rf.MaxDepth,
		"min_samples_split": rf.MinSamplesSplit,
		"min_samples_leaf":  rf.MinSamplesLeaf,
		"max_features":      rf.MaxFeatures,
		"bootstrap":         rf.Bootstrap,
		"random_state":      rf.RandomState,
	}
}

// SetParams sets hyperparameters from a map. Unknown keys are an error so
// grid definitions cannot silently misspell a parameter.
func (rf *RandomForestRegressor) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_estimators":
			rf.NEstimators = asInt(value)
		case "max_depth":
			rf.MaxDepth = asInt(value)
		case "min_samples_split":
			rf.MinSamplesSplit = asInt(value)
		case "min_samples_leaf":
			rf.MinSamplesLeaf = asInt(value)
		case "max_features":
			rf.MaxFeatures = asInt(value)
		case "bootstrap":
			b, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			rf.Bootstrap = b
		case "random_state":
			rf.RandomState = int64(asInt(value))
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}
