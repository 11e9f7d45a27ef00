package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestMSE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"perfect", vec(1, 2, 3), vec(1, 2, 3), 0},
		{"constant offset", vec(1, 2, 3), vec(2, 3, 4), 1},
		{"mixed", vec(3, -0.5, 2, 7), vec(2.5, 0.0, 2, 8), 0.375},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(vec(0, 0, 0, 0), vec(2, 2, 2, 2))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestMAE(t *testing.T) {
	got, err := MAE(vec(3, -0.5, 2, 7), vec(2.5, 0.0, 2, 8))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name  string
		yTrue *mat.VecDense
		yPred *mat.VecDense
		want  float64
	}{
		{"perfect", vec(1, 2, 3), vec(1, 2, 3), 1},
		{"mean prediction", vec(1, 2, 3), vec(2, 2, 2), 0},
		{"sklearn example", vec(3, -0.5, 2, 7), vec(2.5, 0.0, 2, 8), 0.9486081370449679},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestR2ScoreConstantTarget(t *testing.T) {
	_, err := R2Score(vec(5, 5, 5), vec(4, 5, 6))
	assert.Error(t, err)
}

func TestMetricsRejectLengthMismatch(t *testing.T) {
	_, err := MSE(vec(1, 2), vec(1))
	assert.Error(t, err)
	_, err = MAE(vec(1, 2), vec(1))
	assert.Error(t, err)
	_, err = R2Score(vec(1, 2), vec(1))
	assert.Error(t, err)
}

func TestColVec(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6})
	v, err := ColVec(m, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, v.RawVector().Data)

	_, err = ColVec(m, 2)
	assert.Error(t, err)
}
