package model

import (
	"gonum.org/v1/gonum/mat"
)

// Estimator is the interface for anything that learns from data.
type Estimator interface {
	// Fit trains the estimator on X (n_samples x n_features) and
	// y (n_samples x 1).
	Fit(X, y mat.Matrix) error

	// IsFitted reports whether Fit has completed.
	IsFitted() bool
}

// Predictor is the interface for fitted estimators that produce predictions.
type Predictor interface {
	// Predict returns predictions for X as an n_samples x 1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Transformer is the interface for matrix-to-matrix feature transforms.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces implemented by regression models.
type Regressor interface {
	Estimator
	Predictor
	Scorer
}

// FeatureImportancer is implemented by tree ensembles that can attribute a
// share of the impurity reduction to each feature.
type FeatureImportancer interface {
	// FeatureImportances returns one non-negative score per feature,
	// summing to 1 when any split was made.
	FeatureImportances() []float64
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter
// modification. Grid search relies on it to configure candidates.
type ParameterSetter interface {
	// SetParams sets the model's hyperparameters. Unknown keys are an
	// error.
	SetParams(params map[string]interface{}) error
}
