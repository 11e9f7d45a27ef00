package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTrainingCSV writes a small Ames-shaped training file: an id, a
// numeric feature carrying the signal, three categorical columns, and
// the target.
func writeTrainingCSV(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Id,LotArea,Street,ExterQual,MSZoning,SalePrice\n")
	qualities := []string{"Fa", "TA", "Gd", "Ex"}
	zones := []string{"RL", "RM", "FV"}
	streets := []string{"Pave", "Grvl"}
	for i := 0; i < 30; i++ {
		lot := 5000 + 300*i
		price := 3*lot + 17*i
		fmt.Fprintf(&b, "%d,%d,%s,%s,%s,%d\n",
			i+1, lot,
			streets[i%2],
			qualities[i%4],
			zones[i%3],
			price,
		)
	}

	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.DataPath = writeTrainingCSV(t)
	cfg.Seed = 42
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline run")
	}

	report, err := New(testConfig(t)).Run()
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.SelectedFeatures)
	assert.Contains(t, report.SelectedFeatures, "LotArea")
	assert.NotContains(t, report.SelectedFeatures, "SalePrice")

	require.Len(t, report.Models, 4)
	for _, m := range report.Models {
		require.NoErrorf(t, m.Err, "model %s", m.Name)
		assert.Falsef(t, math.IsNaN(m.MAE), "model %s MAE", m.Name)
		assert.GreaterOrEqualf(t, m.MAE, 0.0, "model %s MAE", m.Name)
		assert.GreaterOrEqualf(t, m.MSE, 0.0, "model %s MSE", m.Name)
		assert.InDeltaf(t, math.Sqrt(m.MSE), m.RMSE, 1e-9, "model %s RMSE", m.Name)
		assert.LessOrEqualf(t, m.R2, 1.0, "model %s R2", m.Name)
		assert.NotNilf(t, m.BestParams, "model %s params", m.Name)
	}

	text := report.String()
	assert.Contains(t, text, "RandomForest")
	assert.Contains(t, text, "GradientBoosting")
	assert.Contains(t, text, "Best parameters")
}

func TestPipelineWithPlots(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline run")
	}

	cfg := testConfig(t)
	cfg.Plots = true
	cfg.PlotDir = filepath.Join(t.TempDir(), "plots")

	_, err := New(cfg).Run()
	require.NoError(t, err)

	for _, name := range []string{"target_hist.png", "target_box.png", "correlation.png", "feature_importances.png"} {
		info, err := os.Stat(filepath.Join(cfg.PlotDir, name))
		require.NoErrorf(t, err, "plot %s", name)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestPipelineMissingTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.csv")
	require.NoError(t, os.WriteFile(path, []byte("Id,x\n1,2\n"), 0o644))

	cfg := DefaultConfig()
	cfg.DataPath = path
	_, err := New(cfg).Run()
	assert.Error(t, err)
}

func TestPipelineMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataPath = filepath.Join(t.TempDir(), "absent.csv")
	_, err := New(cfg).Run()
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "SalePrice", cfg.TargetColumn)
	assert.Equal(t, "Id", cfg.IDColumn)
	assert.InDelta(t, 0.3, cfg.MissingThreshold, 1e-12)
	assert.InDelta(t, 0.001, cfg.ImportanceThreshold, 1e-12)
	assert.InDelta(t, 0.2, cfg.TestSize, 1e-12)
	assert.Equal(t, 5, cfg.Folds.RandomForest)
	assert.Equal(t, 3, cfg.Folds.CategoricalBoost)
}
