// Package tree implements a CART regression tree with variance-reduction
// splits. It is the base learner used by the ensemble package.
package tree

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// RegressionTree is a CART-style regressor. Splits minimize the within-node
// sum of squared errors.
type RegressionTree struct {
	model.BaseEstimator

	// MaxDepth limits tree depth (root depth = 0). 0 means no limit.
	MaxDepth int
	// MinSamplesSplit is the minimum number of samples to attempt a split.
	MinSamplesSplit int
	// MinSamplesLeaf is the minimum number of samples in each leaf.
	MinSamplesLeaf int
	// MaxFeatures is the number of features sampled per split.
	// 0 means all features.
	MaxFeatures int
	// RandomState seeds feature subsampling. Negative means time-seeded.
	RandomState int64

	root         *node
	nFeatures_   int
	importances_ []float64
}

type node struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *node
	right     *node
	value     float64 // leaf prediction (mean of node targets)
}

// Option is a functional option for RegressionTree.
type Option func(*RegressionTree)

// WithMaxDepth sets the maximum depth.
func WithMaxDepth(d int) Option { return func(t *RegressionTree) { t.MaxDepth = d } }

// WithMinSamplesSplit sets the minimum samples required to split a node.
func WithMinSamplesSplit(n int) Option { return func(t *RegressionTree) { t.MinSamplesSplit = n } }

// WithMinSamplesLeaf sets the minimum samples required in each leaf.
func WithMinSamplesLeaf(n int) Option { return func(t *RegressionTree) { t.MinSamplesLeaf = n } }

// WithMaxFeatures sets the number of features sampled per split.
func WithMaxFeatures(k int) Option { return func(t *RegressionTree) { t.MaxFeatures = k } }

// WithRandomState sets the random seed.
func WithRandomState(seed int64) Option { return func(t *RegressionTree) { t.RandomState = seed } }

// NewRegressionTree returns a tree with sensible defaults.
func NewRegressionTree(opts ...Option) *RegressionTree {
	t := &RegressionTree{
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		RandomState:     -1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on all rows of X.
func (t *RegressionTree) Fit(X, y mat.Matrix) error {
	rows, _ := X.Dims()
	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	return t.FitSubset(X, y, indices)
}

// FitSubset trains the tree on the rows of X named by indices. Indices may
// repeat, which is how the forest's bootstrap sampling is expressed.
func (t *RegressionTree) FitSubset(X, y mat.Matrix, indices []int) (err error) {
	defer errors.Recover(&err, "RegressionTree.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("RegressionTree.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("RegressionTree.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("RegressionTree.Fit", 1, yCols, 1)
	}
	if len(indices) == 0 {
		return errors.NewValueError("RegressionTree.Fit", "no sample indices")
	}

	// Materialize the data once; node recursion works on index slices.
	xs := make([][]float64, rows)
	ys := make([]float64, rows)
	for i := 0; i < rows; i++ {
		xs[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			xs[i][j] = X.At(i, j)
		}
		ys[i] = y.At(i, 0)
	}

	t.nFeatures_ = cols
	t.importances_ = make([]float64, cols)

	var rng *rand.Rand
	if t.RandomState < 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(uint64(t.RandomState), uint64(t.RandomState)))
	}

	b := &builder{
		tree: t,
		xs:   xs,
		ys:   ys,
		rng:  rng,
	}
	own := make([]int, len(indices))
	copy(own, indices)
	t.root = b.build(own, 0)

	// Normalize accumulated impurity reductions to importances.
	total := 0.0
	for _, v := range t.importances_ {
		total += v
	}
	if total > 0 {
		for j := range t.importances_ {
			t.importances_[j] /= total
		}
	}

	t.SetFitted()
	return nil
}

// Predict returns one prediction per row of X.
func (t *RegressionTree) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("RegressionTree", "Predict")
	}
	rows, cols := X.Dims()
	if cols != t.nFeatures_ {
		return nil, errors.NewDimensionError("RegressionTree.Predict", t.nFeatures_, cols, 1)
	}
	out := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			row[j] = X.At(i, j)
		}
		out.Set(i, 0, t.predictRow(row))
	}
	return out, nil
}

func (t *RegressionTree) predictRow(row []float64) float64 {
	n := t.root
	for !n.isLeaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// FeatureImportances returns the normalized impurity reduction attributed
// to each feature. The slice sums to 1 when the tree made any split.
func (t *RegressionTree) FeatureImportances() []float64 {
	out := make([]float64, len(t.importances_))
	copy(out, t.importances_)
	return out
}

// builder carries the shared fit state through the node recursion.
type builder struct {
	tree *RegressionTree
	xs   [][]float64
	ys   []float64
	rng  *rand.Rand
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

func (b *builder) build(indices []int, depth int) *node {
	mean, sse := meanSSE(b.ys, indices)

	if len(indices) < b.tree.MinSamplesSplit ||
		(b.tree.MaxDepth > 0 && depth >= b.tree.MaxDepth) ||
		sse == 0 {
		return &node{isLeaf: true, value: mean}
	}

	best := b.bestSplit(indices, sse)
	if best == nil {
		return &node{isLeaf: true, value: mean}
	}

	b.tree.importances_[best.feature] += best.gain

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      b.build(best.left, depth+1),
		right:     b.build(best.right, depth+1),
	}
}

// bestSplit scans candidate features for the split with the largest SSE
// reduction. Features are subsampled when MaxFeatures is set.
func (b *builder) bestSplit(indices []int, parentSSE float64) *split {
	nFeatures := b.tree.nFeatures_
	features := make([]int, nFeatures)
	for j := range features {
		features[j] = j
	}
	if k := b.tree.MaxFeatures; k > 0 && k < nFeatures {
		b.rng.Shuffle(nFeatures, func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:k]
	}

	var best *split
	sorted := make([]int, len(indices))

	for _, f := range features {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, c int) bool {
			return b.xs[sorted[a]][f] < b.xs[sorted[c]][f]
		})

		// Prefix scan: evaluate every boundary between distinct values.
		var leftSum, leftSq float64
		totalSum, totalSq := 0.0, 0.0
		for _, i := range sorted {
			totalSum += b.ys[i]
			totalSq += b.ys[i] * b.ys[i]
		}
		n := len(sorted)
		for pos := 0; pos < n-1; pos++ {
			i := sorted[pos]
			leftSum += b.ys[i]
			leftSq += b.ys[i] * b.ys[i]

			if b.xs[i][f] == b.xs[sorted[pos+1]][f] {
				continue
			}
			nl := pos + 1
			nr := n - nl
			if nl < b.tree.MinSamplesLeaf || nr < b.tree.MinSamplesLeaf {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			leftSSE := leftSq - leftSum*leftSum/float64(nl)
			rightSSE := rightSq - rightSum*rightSum/float64(nr)
			gain := parentSSE - leftSSE - rightSSE
			if gain <= 0 {
				continue
			}
			if best == nil || gain > best.gain {
				threshold := (b.xs[i][f] + b.xs[sorted[pos+1]][f]) / 2
				best = &split{feature: f, threshold: threshold, gain: gain}
			}
		}
	}

	if best == nil {
		return nil
	}

	// Partition once for the winning split.
	for _, i := range indices {
		if b.xs[i][best.feature] <= best.threshold {
			best.left = append(best.left, i)
		} else {
			best.right = append(best.right, i)
		}
	}
	if len(best.left) == 0 || len(best.right) == 0 {
		return nil
	}
	return best
}

func meanSSE(ys []float64, indices []int) (mean, sse float64) {
	var sum, sq float64
	for _, i := range indices {
		sum += ys[i]
		sq += ys[i] * ys[i]
	}
	n := float64(len(indices))
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // numeric noise
	}
	return mean, sse
}
