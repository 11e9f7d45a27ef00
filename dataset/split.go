package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// TrainTestSplit randomly partitions a frame into train and test frames.
// testSize is the fraction of rows assigned to the test frame; the test row
// count is round(n * testSize). A negative seed draws a fresh random seed;
// tests should pass an explicit seed.
func TrainTestSplit(f *Frame, testSize float64, seed int64) (train, test *Frame, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}
	n := f.NumRows()
	if n == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "dataset.TrainTestSplit")
	}

	var r *rand.Rand
	if seed < 0 {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		r = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}

	indices := r.Perm(n)
	nTest := int(math.Round(float64(n) * testSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	test, err = f.TakeRows(indices[:nTest])
	if err != nil {
		return nil, nil, err
	}
	train, err = f.TakeRows(indices[nTest:])
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
