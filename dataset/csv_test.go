package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVTypeInference(t *testing.T) {
	data := `Id,LotArea,Street,SalePrice
1,8450,Pave,208500
2,9600,Grvl,181500
3,11250,Pave,223500
`
	f, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 4, f.NumCols())

	lot, err := f.Column("LotArea")
	require.NoError(t, err)
	assert.Equal(t, Numeric, lot.Kind())
	assert.Equal(t, 8450.0, lot.Float(0))

	street, err := f.Column("Street")
	require.NoError(t, err)
	assert.Equal(t, Categorical, street.Kind())
	assert.Equal(t, "Pave", street.Value(0))
}

func TestReadCSVMissingTokens(t *testing.T) {
	data := `LotFrontage,Alley
65,NA
NA,Pave
80,
`
	f, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)

	lot, err := f.Column("LotFrontage")
	require.NoError(t, err)
	assert.Equal(t, Numeric, lot.Kind())
	assert.True(t, lot.IsMissing(1))
	assert.False(t, lot.IsMissing(0))

	alley, err := f.Column("Alley")
	require.NoError(t, err)
	assert.True(t, alley.IsMissing(0))
	assert.True(t, alley.IsMissing(2))
	assert.Equal(t, 2, alley.MissingCount())
}

func TestReadCSVAllMissingColumnIsCategorical(t *testing.T) {
	data := `PoolQC,SalePrice
NA,100
NA,200
`
	f, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	pool, err := f.Column("PoolQC")
	require.NoError(t, err)
	assert.Equal(t, Categorical, pool.Kind())
	assert.InDelta(t, 1.0, pool.MissingFraction(), 1e-12)
}

func TestReadCSVRejectsRaggedRows(t *testing.T) {
	data := "a,b\n1,2\n3\n"
	_, err := ReadCSV(strings.NewReader(data))
	assert.Error(t, err)
}
