package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		NewNumericSeries("a", []float64{1, 2, 3}),
		NewNumericSeries("b", []float64{4, 5, 6}),
		NewCategoricalSeries("c", []string{"x", "y", "z"}),
	)
	require.NoError(t, err)
	return f
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New(
		NewNumericSeries("a", []float64{1}),
		NewNumericSeries("a", []float64{2}),
	)
	assert.Error(t, err)
}

func TestFrameDropIgnoresAbsentColumns(t *testing.T) {
	f := testFrame(t)
	out := f.Drop("c", "nope")
	assert.Equal(t, []string{"a", "b"}, out.Names())
	// Original frame is untouched.
	assert.True(t, f.Has("c"))
}

func TestFrameMatrix(t *testing.T) {
	f := testFrame(t)
	m, err := f.Matrix([]string{"a", "b"})
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 5.0, m.At(1, 1))
}

func TestFrameMatrixRejectsCategorical(t *testing.T) {
	f := testFrame(t)
	_, err := f.Matrix([]string{"a", "c"})
	assert.Error(t, err)
}

func TestFrameMatrixRejectsMissing(t *testing.T) {
	f, err := New(NewNumericSeries("a", []float64{1, math.NaN()}))
	require.NoError(t, err)
	_, err = f.Matrix([]string{"a"})
	assert.Error(t, err)
}

func TestFrameTakeRows(t *testing.T) {
	f := testFrame(t)
	sub, err := f.TakeRows([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, sub.NumRows())
	a, err := sub.Column("a")
	require.NoError(t, err)
	assert.Equal(t, 3.0, a.Float(0))
	c, err := sub.Column("c")
	require.NoError(t, err)
	assert.Equal(t, "z", c.Value(0))
}

func TestFrameFeatureNames(t *testing.T) {
	f := testFrame(t)
	assert.Equal(t, []string{"a", "c"}, f.FeatureNames("b"))
}
