package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/homeprice/dataset"
)

func TestOrdinalEncoderSortedCodes(t *testing.T) {
	s := dataset.NewCategoricalSeries("q", []string{"Gd", "Fa", "TA", "Gd"})
	enc := NewOrdinalEncoder()
	out, err := enc.FitTransform(s)
	require.NoError(t, err)

	// Codes follow sorted lexical order: Fa=0, Gd=1, TA=2.
	assert.Equal(t, []string{"Fa", "Gd", "TA"}, enc.Categories())
	assert.Equal(t, []float64{1, 0, 2, 1}, out.Floats())
	assert.Equal(t, dataset.Numeric, out.Kind())
}

func TestOrdinalEncoderUnseenCategory(t *testing.T) {
	enc := NewOrdinalEncoder()
	require.NoError(t, enc.Fit(dataset.NewCategoricalSeries("q", []string{"a", "b"})))
	_, err := enc.Transform(dataset.NewCategoricalSeries("q", []string{"a", "c"}))
	assert.Error(t, err)
}

func TestOrdinalEncoderMissingCell(t *testing.T) {
	enc := NewOrdinalEncoder()
	require.NoError(t, enc.Fit(dataset.NewCategoricalSeries("q", []string{"a", "b"})))
	_, err := enc.Transform(dataset.NewCategoricalSeries("q", []string{"a", ""}))
	assert.Error(t, err)
}

func TestOneHotEncoderExactlyOneIndicatorPerRow(t *testing.T) {
	s := dataset.NewCategoricalSeries("zone", []string{"RL", "RM", "RL", "C"})
	enc := NewOneHotEncoder()
	out, err := enc.FitTransform(s)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "zone_C", out[0].Name())
	assert.Equal(t, "zone_RL", out[1].Name())
	assert.Equal(t, "zone_RM", out[2].Name())

	for i := 0; i < s.Len(); i++ {
		sum := 0.0
		for _, col := range out {
			v := col.Float(i)
			assert.Contains(t, []float64{0, 1}, v)
			sum += v
		}
		assert.Equalf(t, 1.0, sum, "row %d", i)
	}
}

func TestOneHotEncoderUnseenCategory(t *testing.T) {
	enc := NewOneHotEncoder()
	require.NoError(t, enc.Fit(dataset.NewCategoricalSeries("zone", []string{"RL", "RM"})))
	_, err := enc.Transform(dataset.NewCategoricalSeries("zone", []string{"FV"}))
	assert.Error(t, err)
}

func TestLabelBinarizer(t *testing.T) {
	s := dataset.NewCategoricalSeries("street", []string{"Pave", "Grvl", "Pave"})
	enc := NewLabelBinarizer()
	out, err := enc.FitTransform(s)
	require.NoError(t, err)

	// Lexically first class maps to 0: Grvl=0, Pave=1.
	assert.Equal(t, []string{"Grvl", "Pave"}, enc.Classes())
	assert.Equal(t, []float64{1, 0, 1}, out.Floats())
}

func TestLabelBinarizerRejectsNonBinary(t *testing.T) {
	enc := NewLabelBinarizer()
	err := enc.Fit(dataset.NewCategoricalSeries("c", []string{"a", "b", "c"}))
	assert.Error(t, err)

	err = enc.Fit(dataset.NewCategoricalSeries("c", []string{"a", "a"}))
	assert.Error(t, err)
}
