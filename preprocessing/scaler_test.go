package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestStandardScalerZeroMeanUnitVariance(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
		4, 400,
	})
	s := NewStandardScaler()
	out, err := s.FitTransform(X)
	require.NoError(t, err)

	r, c := out.Dims()
	for j := 0; j < c; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < r; i++ {
			v := out.At(i, j)
			sum += v
			sumSq += v * v
		}
		assert.InDelta(t, 0.0, sum/float64(r), 1e-9)
		assert.InDelta(t, 1.0, sumSq/float64(r), 1e-9)
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})
	s := NewStandardScaler()
	out, err := s.FitTransform(X)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, out.At(i, 0))
	}
}

func TestStandardScalerInverseRoundTrip(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 10, 2, 20, 3, 30})
	s := NewStandardScaler()
	scaled, err := s.FitTransform(X)
	require.NoError(t, err)
	back, err := s.InverseTransform(scaled)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, X.At(i, j), back.At(i, j), 1e-9)
		}
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	s := NewStandardScaler()
	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err := s.Transform(mat.NewDense(2, 3, nil))
	assert.Error(t, err)
}
