// Package selection provides model-based feature selection.
package selection

import (
	"sort"

	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/ensemble"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

// DefaultImportanceThreshold is the minimum forest importance a feature
// must exceed to be kept.
const DefaultImportanceThreshold = 0.001

// ImportanceSelector selects features by fitting a random forest against
// the target and keeping columns whose normalized importance exceeds
// Threshold. With a fixed RandomState the selection is deterministic.
type ImportanceSelector struct {
	// Threshold is the strict lower bound on kept importances.
	Threshold float64
	// NEstimators is the forest size used for scoring.
	NEstimators int
	// RandomState seeds the forest.
	RandomState int64

	selected_    []string
	importances_ map[string]float64
	fitted       bool
	logger       log.Logger
}

// NewImportanceSelector creates a selector with the default threshold
// and a 100-tree forest.
func NewImportanceSelector(threshold float64, seed int64) *ImportanceSelector {
	return &ImportanceSelector{
		Threshold:   threshold,
		NEstimators: 100,
		RandomState: seed,
		logger:      log.GetLoggerWithName("selection.ImportanceSelector"),
	}
}

// Fit scores every feature column of f against the target column and
// records which features pass the threshold. f must be fully numeric.
func (s *ImportanceSelector) Fit(f *dataset.Frame, target string) (err error) {
	defer errors.Recover(&err, "ImportanceSelector.Fit")

	if s.Threshold < 0 {
		return errors.NewValidationError("Threshold", "must be >= 0", s.Threshold)
	}
	features := f.FeatureNames(target)
	if len(features) == 0 {
		return errors.NewModelError("ImportanceSelector.Fit", "no feature columns", errors.ErrEmptyData)
	}

	xMat, err := f.Matrix(features)
	if err != nil {
		return err
	}
	yVec, err := f.Vector(target)
	if err != nil {
		return err
	}

	forest := ensemble.NewRandomForestRegressor().
		WithNEstimators(s.NEstimators).
		WithRandomState(s.RandomState)
	if err := forest.Fit(xMat, yVec); err != nil {
		return errors.Wrap(err, "fit scoring forest")
	}

	importances := forest.FeatureImportances()
	s.importances_ = make(map[string]float64, len(features))
	s.selected_ = s.selected_[:0]
	for j, name := range features {
		s.importances_[name] = importances[j]
		if importances[j] > s.Threshold {
			s.selected_ = append(s.selected_, name)
		}
	}
	if len(s.selected_) == 0 {
		return errors.NewModelError("ImportanceSelector.Fit", "no features passed the threshold", nil)
	}

	s.fitted = true
	s.logger.Info("features selected",
		log.OperationKey, "ImportanceSelector.Fit",
		log.FeaturesKey, len(features),
		"kept", len(s.selected_),
		"threshold", s.Threshold)
	return nil
}

// SelectedFeatures returns the kept column names in frame order.
func (s *ImportanceSelector) SelectedFeatures() []string {
	out := make([]string, len(s.selected_))
	copy(out, s.selected_)
	return out
}

// Importances returns the importance of every scored feature.
func (s *ImportanceSelector) Importances() map[string]float64 {
	out := make(map[string]float64, len(s.importances_))
	for k, v := range s.importances_ {
		out[k] = v
	}
	return out
}

// RankedFeatures returns all scored features sorted by descending
// importance, ties broken by name.
func (s *ImportanceSelector) RankedFeatures() []string {
	names := make([]string, 0, len(s.importances_))
	for name := range s.importances_ {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.importances_[names[i]], s.importances_[names[j]]
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})
	return names
}

// Transform returns a frame holding only the selected features, plus the
// listed passthrough columns (typically the target) when present.
func (s *ImportanceSelector) Transform(f *dataset.Frame, passthrough ...string) (*dataset.Frame, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("ImportanceSelector", "Transform")
	}
	keep := make([]string, 0, len(s.selected_)+len(passthrough))
	keep = append(keep, s.selected_...)
	for _, name := range passthrough {
		if f.Has(name) {
			keep = append(keep, name)
		}
	}
	return f.Select(keep)
}
