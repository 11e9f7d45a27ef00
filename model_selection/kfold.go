// Package model_selection provides cross-validation splitters and
// hyperparameter search.
package model_selection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// CVFold holds the train/test row indices of one cross-validation fold.
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds over n samples.
type Splitter interface {
	Split(n int) ([]CVFold, error)
	NumFolds() int
}

// KFold splits samples into k consecutive folds, optionally shuffled.
type KFold struct {
	// NSplits is the number of folds.
	NSplits int
	// Shuffle randomizes row order before folding.
	Shuffle bool
	// RandomState seeds shuffling. Negative means time-seeded.
	RandomState int64
}

// NewKFold creates a splitter with k folds, shuffling enabled.
func NewKFold(k int, seed int64) *KFold {
	return &KFold{NSplits: k, Shuffle: true, RandomState: seed}
}

// NumFolds returns the number of folds.
func (kf *KFold) NumFolds() int { return kf.NSplits }

// Split returns the fold index sets for n samples. Every sample appears
// in exactly one test set; fold sizes differ by at most one.
func (kf *KFold) Split(n int) ([]CVFold, error) {
	if kf.NSplits < 2 {
		return nil, errors.NewValidationError("NSplits", "must be >= 2", kf.NSplits)
	}
	if n < kf.NSplits {
		return nil, errors.NewValidationError("NSplits", "more folds than samples", kf.NSplits)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		var rng *rand.Rand
		if kf.RandomState < 0 {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		} else {
			rng = rand.New(rand.NewPCG(uint64(kf.RandomState), uint64(kf.RandomState)))
		}
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]CVFold, kf.NSplits)
	base := n / kf.NSplits
	extra := n % kf.NSplits
	start := 0
	for f := 0; f < kf.NSplits; f++ {
		size := base
		if f < extra {
			size++
		}
		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[start+size:]...)
		test := append([]int(nil), indices[start:start+size]...)
		folds[f] = CVFold{TrainIndices: train, TestIndices: test}
		start += size
	}
	return folds, nil
}

// takeRows copies the given rows of X into a new dense matrix.
func takeRows(X mat.Matrix, indices []int) *mat.Dense {
	_, cols := X.Dims()
	out := mat.NewDense(len(indices), cols, nil)
	for i, row := range indices {
		for j := 0; j < cols; j++ {
			out.Set(i, j, X.At(row, j))
		}
	}
	return out
}
