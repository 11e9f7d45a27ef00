// Package preprocessing implements the cleaning and encoding stages of the
// homeprice pipeline: missingness-based column dropping, imputation, the
// three categorical encoders, the schema-driven frame encoder, and a
// standard scaler for matrix inputs.
package preprocessing

import (
	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

// DefaultMissingThreshold is the missing-value fraction above which a
// column is dropped outright.
const DefaultMissingThreshold = 0.3

// Cleaner drops overly sparse columns and imputes the rest.
//
// Fit records, per column: whether the column's missing fraction exceeds
// MissingThreshold (drop), and otherwise the imputation value (mean for
// numeric columns, most frequent value for categorical columns). Columns
// listed in DropColumns (the identifier column) are dropped unconditionally.
//
// A column that is 100% missing has missing fraction 1.0 > threshold and is
// therefore always dropped, never imputed.
type Cleaner struct {
	model.BaseEstimator

	// MissingThreshold is the drop threshold on the missing fraction.
	MissingThreshold float64

	// DropColumns are dropped unconditionally, independent of
	// missingness.
	DropColumns []string

	dropped_          []string
	numericFills_     map[string]float64
	categoricalFills_ map[string]string

	logger log.Logger
}

// NewCleaner creates a Cleaner with the given threshold. Columns named in
// dropColumns are removed unconditionally.
func NewCleaner(threshold float64, dropColumns ...string) *Cleaner {
	return &Cleaner{
		MissingThreshold: threshold,
		DropColumns:      dropColumns,
		logger:           log.GetLoggerWithName("preprocessing.cleaner"),
	}
}

// Fit scans the frame and records the drop set and imputation values.
func (c *Cleaner) Fit(f *dataset.Frame) (err error) {
	defer errors.Recover(&err, "Cleaner.Fit")

	if f.NumRows() == 0 || f.NumCols() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "Cleaner.Fit")
	}
	if c.MissingThreshold < 0 || c.MissingThreshold > 1 {
		return errors.NewValidationError("MissingThreshold", "must be in [0, 1]", c.MissingThreshold)
	}

	unconditional := make(map[string]struct{}, len(c.DropColumns))
	for _, name := range c.DropColumns {
		unconditional[name] = struct{}{}
	}

	c.dropped_ = nil
	c.numericFills_ = make(map[string]float64)
	c.categoricalFills_ = make(map[string]string)

	for _, name := range f.Names() {
		if _, skip := unconditional[name]; skip {
			continue
		}
		s, err := f.Column(name)
		if err != nil {
			return err
		}
		if s.MissingFraction() > c.MissingThreshold {
			c.dropped_ = append(c.dropped_, name)
			continue
		}
		if s.MissingCount() == 0 {
			continue
		}
		if s.Kind() == dataset.Numeric {
			mean, err := s.Mean()
			if err != nil {
				return err
			}
			c.numericFills_[name] = mean
		} else {
			mode, err := s.Mode()
			if err != nil {
				return err
			}
			c.categoricalFills_[name] = mode
		}
	}

	c.logger.Info("Fitted cleaner",
		log.OperationKey, "fit",
		log.ColumnsKey, f.NumCols(),
		"dropped", len(c.dropped_)+len(c.DropColumns),
		"imputed", len(c.numericFills_)+len(c.categoricalFills_),
	)
	c.SetFitted()
	return nil
}

// Transform applies the recorded drops and imputations. The result has zero
// missing cells; a column that is missing at transform time without a
// recorded fill is an error.
func (c *Cleaner) Transform(f *dataset.Frame) (out *dataset.Frame, err error) {
	defer errors.Recover(&err, "Cleaner.Transform")

	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("Cleaner", "Transform")
	}

	reduced := f.Drop(c.DropColumns...).Drop(c.dropped_...)
	cleaned := make([]*dataset.Series, 0, reduced.NumCols())
	for _, name := range reduced.Names() {
		s, err := reduced.Column(name)
		if err != nil {
			return nil, err
		}
		if s.MissingCount() == 0 {
			cleaned = append(cleaned, s)
			continue
		}
		if fill, ok := c.numericFills_[name]; ok {
			cleaned = append(cleaned, s.FilledFloat(fill))
			continue
		}
		if fill, ok := c.categoricalFills_[name]; ok {
			cleaned = append(cleaned, s.FilledString(fill))
			continue
		}
		return nil, errors.NewColumnError("Cleaner.Transform", name, "missing cells but no imputation value recorded at fit time")
	}
	return dataset.New(cleaned...)
}

// FitTransform fits on the frame and transforms it.
func (c *Cleaner) FitTransform(f *dataset.Frame) (*dataset.Frame, error) {
	if err := c.Fit(f); err != nil {
		return nil, err
	}
	return c.Transform(f)
}

// DroppedColumns returns the columns dropped for excessive missingness,
// excluding the unconditional DropColumns.
func (c *Cleaner) DroppedColumns() []string {
	out := make([]string, len(c.dropped_))
	copy(out, c.dropped_)
	return out
}
