package log

// Standard attribute keys used across the pipeline. Using shared constants
// keeps log output greppable across components.
const (
	// OperationKey identifies the operation being performed ("fit",
	// "transform", "predict", "score").
	OperationKey = "operation"

	// ModelNameKey identifies the model family being trained or scored.
	ModelNameKey = "model"

	// RowsKey is the number of rows in the frame or matrix at hand.
	RowsKey = "rows"

	// ColumnsKey is the number of columns in the frame at hand.
	ColumnsKey = "columns"

	// FeaturesKey is the number of feature columns fed to a model.
	FeaturesKey = "features"

	// TargetKey names the prediction target column.
	TargetKey = "target"

	// DurationMsKey is the elapsed wall time of an operation in
	// milliseconds.
	DurationMsKey = "duration_ms"

	// ScoreKey is a cross-validation or evaluation score.
	ScoreKey = "score"

	// FoldsKey is the number of cross-validation folds.
	FoldsKey = "folds"

	// CandidatesKey is the number of hyperparameter combinations searched.
	CandidatesKey = "candidates"

	// PathKey is a filesystem path (input CSV, plot output).
	PathKey = "path"
)
