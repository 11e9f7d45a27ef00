// Package homeprice is a house price modeling toolkit.
//
// It covers the full tabular workflow: loading property records from
// CSV (package dataset), imputing and dropping sparse columns
// (preprocessing), encoding categoricals by an explicit schema
// (preprocessing), ranking features with a random forest (selection),
// and tuning four model families with grid-searched cross-validation
// (linear_model, ensemble, model_selection). Package pipeline wires the
// stages together and cmd/homeprice exposes them as a CLI.
//
// Estimators follow a scikit-learn-like contract: construct, Fit on a
// training matrix, then Predict. Fitted state lives in fields with a
// trailing underscore and is guarded by IsFitted checks.
package homeprice
