// Package pipeline runs the end-to-end house price workflow: load,
// clean, encode, select features, and train the candidate models.
package pipeline

import (
	"github.com/YuminosukeSato/homeprice/preprocessing"
	"github.com/YuminosukeSato/homeprice/selection"
)

// Config holds every knob of the pipeline. Fields carry koanf tags so
// the config file, environment overrides, and defaults all resolve into
// the same struct.
type Config struct {
	// DataPath is the training CSV.
	DataPath string `koanf:"data_path"`
	// TargetColumn is the regression target.
	TargetColumn string `koanf:"target_column"`
	// IDColumn is dropped before modeling. Empty means no id column.
	IDColumn string `koanf:"id_column"`

	// MissingThreshold drops columns whose missing fraction exceeds it.
	MissingThreshold float64 `koanf:"missing_threshold"`
	// ImportanceThreshold is the strict lower bound on kept feature
	// importances.
	ImportanceThreshold float64 `koanf:"importance_threshold"`
	// TestSize is the held-out fraction of rows.
	TestSize float64 `koanf:"test_size"`
	// Seed drives the split, the selector forest, and model defaults.
	// Negative means time-seeded.
	Seed int64 `koanf:"seed"`

	// Folds sets the cross-validation fold count per model.
	Folds FoldConfig `koanf:"folds"`

	// Plots enables exploratory plot output.
	Plots bool `koanf:"plots"`
	// PlotDir is where PNG files are written.
	PlotDir string `koanf:"plot_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// FoldConfig sets cross-validation folds per model family.
type FoldConfig struct {
	Logistic         int `koanf:"logistic"`
	RandomForest     int `koanf:"random_forest"`
	GradientBoosting int `koanf:"gradient_boosting"`
	CategoricalBoost int `koanf:"categorical_boost"`
}

// DefaultConfig returns a configuration suitable for the Ames housing data.
func DefaultConfig() Config {
	return Config{
		DataPath:            "train.csv",
		TargetColumn:        "SalePrice",
		IDColumn:            "Id",
		MissingThreshold:    preprocessing.DefaultMissingThreshold,
		ImportanceThreshold: selection.DefaultImportanceThreshold,
		TestSize:            0.2,
		Seed:                42,
		Folds: FoldConfig{
			Logistic:         5,
			RandomForest:     5,
			GradientBoosting: 5,
			CategoricalBoost: 3,
		},
		Plots:    false,
		PlotDir:  "plots",
		LogLevel: "info",
	}
}
