package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// OrdinalEncoder maps the categories of a single column to integer codes.
//
// Category order is the sorted lexical order of the categories observed at
// fit time, not a hand-ranked domain order ("Po" < "Fa" < "Gd" is NOT
// guaranteed).
type OrdinalEncoder struct {
	model.BaseEstimator

	categories_ []string
	codes_      map[string]int
}

// NewOrdinalEncoder creates an unfitted OrdinalEncoder.
func NewOrdinalEncoder() *OrdinalEncoder {
	return &OrdinalEncoder{}
}

// Fit learns the category set of a categorical series.
func (e *OrdinalEncoder) Fit(s *dataset.Series) error {
	if s.Kind() != dataset.Categorical {
		return errors.NewColumnError("OrdinalEncoder.Fit", s.Name(), "not a categorical column")
	}
	e.categories_ = s.Levels()
	if len(e.categories_) == 0 {
		return errors.Wrapf(errors.ErrAllMissing, "OrdinalEncoder.Fit: column %q", s.Name())
	}
	e.codes_ = make(map[string]int, len(e.categories_))
	for i, c := range e.categories_ {
		e.codes_[c] = i
	}
	e.SetFitted()
	return nil
}

// Transform encodes the series as integer codes. An unseen category or a
// missing cell is an error.
func (e *OrdinalEncoder) Transform(s *dataset.Series) (*dataset.Series, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OrdinalEncoder", "Transform")
	}
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsMissing(i) {
			return nil, errors.NewColumnError("OrdinalEncoder.Transform", s.Name(), "contains missing cells")
		}
		code, ok := e.codes_[s.Value(i)]
		if !ok {
			return nil, errors.NewColumnError("OrdinalEncoder.Transform", s.Name(),
				fmt.Sprintf("unseen category %q", s.Value(i)))
		}
		out[i] = float64(code)
	}
	return dataset.NewNumericSeries(s.Name(), out), nil
}

// FitTransform fits on the series and transforms it.
func (e *OrdinalEncoder) FitTransform(s *dataset.Series) (*dataset.Series, error) {
	if err := e.Fit(s); err != nil {
		return nil, err
	}
	return e.Transform(s)
}

// Categories returns the learned categories in code order.
func (e *OrdinalEncoder) Categories() []string {
	out := make([]string, len(e.categories_))
	copy(out, e.categories_)
	return out
}

// OneHotEncoder expands a categorical column into one 0/1 indicator column
// per category observed at fit time, named `column_category`.
type OneHotEncoder struct {
	model.BaseEstimator

	categories_ []string
}

// NewOneHotEncoder creates an unfitted OneHotEncoder.
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{}
}

// Fit learns the category set of a categorical series.
func (e *OneHotEncoder) Fit(s *dataset.Series) error {
	if s.Kind() != dataset.Categorical {
		return errors.NewColumnError("OneHotEncoder.Fit", s.Name(), "not a categorical column")
	}
	e.categories_ = s.Levels()
	if len(e.categories_) == 0 {
		return errors.Wrapf(errors.ErrAllMissing, "OneHotEncoder.Fit: column %q", s.Name())
	}
	e.SetFitted()
	return nil
}

// Transform expands the series into indicator columns. For every row,
// exactly one indicator is 1. An unseen category is an error.
func (e *OneHotEncoder) Transform(s *dataset.Series) ([]*dataset.Series, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("OneHotEncoder", "Transform")
	}
	n := s.Len()
	columns := make([][]float64, len(e.categories_))
	for j := range columns {
		columns[j] = make([]float64, n)
	}
	index := make(map[string]int, len(e.categories_))
	for j, c := range e.categories_ {
		index[c] = j
	}
	for i := 0; i < n; i++ {
		if s.IsMissing(i) {
			return nil, errors.NewColumnError("OneHotEncoder.Transform", s.Name(), "contains missing cells")
		}
		j, ok := index[s.Value(i)]
		if !ok {
			return nil, errors.NewColumnError("OneHotEncoder.Transform", s.Name(),
				fmt.Sprintf("unseen category %q", s.Value(i)))
		}
		columns[j][i] = 1
	}
	out := make([]*dataset.Series, len(e.categories_))
	for j, c := range e.categories_ {
		out[j] = dataset.NewNumericSeries(s.Name()+"_"+c, columns[j])
	}
	return out, nil
}

// FitTransform fits on the series and transforms it.
func (e *OneHotEncoder) FitTransform(s *dataset.Series) ([]*dataset.Series, error) {
	if err := e.Fit(s); err != nil {
		return nil, err
	}
	return e.Transform(s)
}

// Categories returns the learned categories in indicator-column order.
func (e *OneHotEncoder) Categories() []string {
	out := make([]string, len(e.categories_))
	copy(out, e.categories_)
	return out
}

// LabelBinarizer encodes a two-valued column as a single 0/1 column. The
// lexically first category maps to 0; the assignment carries no semantic
// meaning.
type LabelBinarizer struct {
	model.BaseEstimator

	classes_ []string
}

// NewLabelBinarizer creates an unfitted LabelBinarizer.
func NewLabelBinarizer() *LabelBinarizer {
	return &LabelBinarizer{}
}

// Fit learns the two classes of a binary categorical series.
func (e *LabelBinarizer) Fit(s *dataset.Series) error {
	if s.Kind() != dataset.Categorical {
		return errors.NewColumnError("LabelBinarizer.Fit", s.Name(), "not a categorical column")
	}
	levels := s.Levels()
	if len(levels) != 2 {
		return errors.NewColumnError("LabelBinarizer.Fit", s.Name(),
			fmt.Sprintf("expected exactly 2 categories, got %d", len(levels)))
	}
	e.classes_ = levels
	e.SetFitted()
	return nil
}

// Transform encodes the series as 0/1.
func (e *LabelBinarizer) Transform(s *dataset.Series) (*dataset.Series, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelBinarizer", "Transform")
	}
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.IsMissing(i) {
			return nil, errors.NewColumnError("LabelBinarizer.Transform", s.Name(), "contains missing cells")
		}
		switch s.Value(i) {
		case e.classes_[0]:
			out[i] = 0
		case e.classes_[1]:
			out[i] = 1
		default:
			return nil, errors.NewColumnError("LabelBinarizer.Transform", s.Name(),
				fmt.Sprintf("unseen category %q", s.Value(i)))
		}
	}
	return dataset.NewNumericSeries(s.Name(), out), nil
}

// FitTransform fits on the series and transforms it.
func (e *LabelBinarizer) FitTransform(s *dataset.Series) (*dataset.Series, error) {
	if err := e.Fit(s); err != nil {
		return nil, err
	}
	return e.Transform(s)
}

// Classes returns the learned classes; index in the slice is the assigned
// code.
func (e *LabelBinarizer) Classes() []string {
	out := make([]string, len(e.classes_))
	copy(out, e.classes_)
	return out
}
