package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/homeprice/dataset"
)

func encoderFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.New(
		dataset.NewNumericSeries("LotArea", []float64{8450.5, 9600.2, 11250.9}),
		dataset.NewCategoricalSeries("ExterQual", []string{"Gd", "TA", "Gd"}),
		dataset.NewCategoricalSeries("MSZoning", []string{"RL", "RM", "RL"}),
		dataset.NewCategoricalSeries("Street", []string{"Pave", "Grvl", "Pave"}),
	)
	require.NoError(t, err)
	return f
}

func encoderSchema() Schema {
	return Schema{
		"ExterQual": Ordinal,
		"MSZoning":  OneHot,
		"Street":    Binary,
	}
}

func TestFrameEncoderProducesNumericFrame(t *testing.T) {
	enc := NewFrameEncoder(encoderSchema())
	out, err := enc.FitTransform(encoderFrame(t))
	require.NoError(t, err)

	// LotArea + ExterQual + 2 MSZoning indicators + Street.
	assert.Equal(t, 5, out.NumCols())
	for _, name := range out.Names() {
		s, err := out.Column(name)
		require.NoError(t, err)
		assert.Equalf(t, dataset.Numeric, s.Kind(), "column %s", name)
	}
	assert.Equal(t, out.Names(), enc.OutputNames())
}

func TestFrameEncoderCastTruncates(t *testing.T) {
	enc := NewFrameEncoder(encoderSchema())
	out, err := enc.FitTransform(encoderFrame(t))
	require.NoError(t, err)

	lot, err := out.Column("LotArea")
	require.NoError(t, err)
	assert.Equal(t, []float64{8450, 9600, 11250}, lot.Floats())
}

func TestFrameEncoderCastDisabled(t *testing.T) {
	enc := NewFrameEncoder(encoderSchema())
	enc.CastInt = false
	out, err := enc.FitTransform(encoderFrame(t))
	require.NoError(t, err)

	lot, err := out.Column("LotArea")
	require.NoError(t, err)
	assert.Equal(t, 8450.5, lot.Float(0))
}

func TestFrameEncoderRejectsUnmappedCategorical(t *testing.T) {
	f, err := dataset.New(
		dataset.NewCategoricalSeries("Mystery", []string{"a", "b"}),
	)
	require.NoError(t, err)
	err = NewFrameEncoder(Schema{}).Fit(f)
	assert.Error(t, err)
}

func TestFrameEncoderTransformRequiresFit(t *testing.T) {
	_, err := NewFrameEncoder(encoderSchema()).Transform(encoderFrame(t))
	assert.Error(t, err)
}

func TestAmesSchemaCoversKnownColumns(t *testing.T) {
	schema := AmesSchema()
	assert.Equal(t, Ordinal, schema["ExterQual"])
	assert.Equal(t, OneHot, schema["Neighborhood"])
	assert.Equal(t, Binary, schema["Street"])
	assert.Equal(t, Binary, schema["CentralAir"])
}
