package model_selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldEveryRowTestedOnce(t *testing.T) {
	kf := NewKFold(5, 3)
	folds, err := kf.Split(23)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	tested := make(map[int]int)
	for _, fold := range folds {
		for _, i := range fold.TestIndices {
			tested[i]++
		}
		assert.Equal(t, 23, len(fold.TrainIndices)+len(fold.TestIndices))
	}
	require.Len(t, tested, 23)
	for i, count := range tested {
		assert.Equalf(t, 1, count, "row %d tested %d times", i, count)
	}
}

func TestKFoldSizesDifferByAtMostOne(t *testing.T) {
	folds, err := NewKFold(4, 1).Split(10)
	require.NoError(t, err)
	min, max := 10, 0
	for _, fold := range folds {
		n := len(fold.TestIndices)
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	assert.LessOrEqual(t, max-min, 1)
}

func TestKFoldTrainTestDisjoint(t *testing.T) {
	folds, err := NewKFold(3, 9).Split(12)
	require.NoError(t, err)
	for _, fold := range folds {
		inTest := make(map[int]bool)
		for _, i := range fold.TestIndices {
			inTest[i] = true
		}
		for _, i := range fold.TrainIndices {
			assert.False(t, inTest[i])
		}
	}
}

func TestKFoldDeterministicWithSeed(t *testing.T) {
	a, err := NewKFold(3, 5).Split(9)
	require.NoError(t, err)
	b, err := NewKFold(3, 5).Split(9)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKFoldValidation(t *testing.T) {
	_, err := NewKFold(1, 0).Split(10)
	assert.Error(t, err)

	_, err = NewKFold(5, 0).Split(3)
	assert.Error(t, err)
}
