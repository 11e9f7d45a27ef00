package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitFrame(t *testing.T, n int) *Frame {
	t.Helper()
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	f, err := New(NewNumericSeries("x", values))
	require.NoError(t, err)
	return f
}

func TestTrainTestSplitSizes(t *testing.T) {
	f := splitFrame(t, 100)
	train, test, err := TrainTestSplit(f, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 80, train.NumRows())
	assert.Equal(t, 20, test.NumRows())
}

func TestTrainTestSplitDisjointAndComplete(t *testing.T) {
	f := splitFrame(t, 50)
	train, test, err := TrainTestSplit(f, 0.3, 7)
	require.NoError(t, err)

	seen := make(map[float64]int)
	for _, part := range []*Frame{train, test} {
		s, err := part.Column("x")
		require.NoError(t, err)
		for i := 0; i < s.Len(); i++ {
			seen[s.Float(i)]++
		}
	}
	require.Len(t, seen, 50)
	for v, count := range seen {
		assert.Equalf(t, 1, count, "row %v appears %d times", v, count)
	}
}

func TestTrainTestSplitDeterministicWithSeed(t *testing.T) {
	f := splitFrame(t, 30)
	_, test1, err := TrainTestSplit(f, 0.2, 11)
	require.NoError(t, err)
	_, test2, err := TrainTestSplit(f, 0.2, 11)
	require.NoError(t, err)

	s1, err := test1.Column("x")
	require.NoError(t, err)
	s2, err := test2.Column("x")
	require.NoError(t, err)
	assert.Equal(t, s1.Floats(), s2.Floats())
}

func TestTrainTestSplitTinyFrame(t *testing.T) {
	f := splitFrame(t, 2)
	train, test, err := TrainTestSplit(f, 0.2, 1)
	require.NoError(t, err)
	// The test side is clamped to at least one row.
	assert.Equal(t, 1, train.NumRows())
	assert.Equal(t, 1, test.NumRows())
}

func TestTrainTestSplitRejectsBadFraction(t *testing.T) {
	f := splitFrame(t, 10)
	_, _, err := TrainTestSplit(f, 1.5, 1)
	assert.Error(t, err)
}
