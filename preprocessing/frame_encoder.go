package preprocessing

import (
	"math"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

// FrameEncoder applies a Schema to a cleaned frame and produces an
// all-numeric frame. Categorical columns without a schema entry are an
// error: the assignment is hand-curated, never guessed.
//
// When CastInt is true (the default), every value in the output frame is
// truncated to its integer part; fractional numeric columns lose their
// fractional part. The cast is logged as a DataConversionWarning.
type FrameEncoder struct {
	model.BaseEstimator

	Schema  Schema
	CastInt bool

	ordinals_ map[string]*OrdinalEncoder
	onehots_  map[string]*OneHotEncoder
	binaries_ map[string]*LabelBinarizer
	fitNames_ []string
	outNames_ []string

	logger log.Logger
}

// NewFrameEncoder creates a FrameEncoder for the given schema with the
// integer cast enabled.
func NewFrameEncoder(schema Schema) *FrameEncoder {
	return &FrameEncoder{
		Schema:  schema,
		CastInt: true,
		logger:  log.GetLoggerWithName("preprocessing.encoder"),
	}
}

// Fit fits one encoder per categorical column according to the schema.
func (e *FrameEncoder) Fit(f *dataset.Frame) (err error) {
	defer errors.Recover(&err, "FrameEncoder.Fit")

	if f.NumRows() == 0 || f.NumCols() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "FrameEncoder.Fit")
	}

	e.ordinals_ = make(map[string]*OrdinalEncoder)
	e.onehots_ = make(map[string]*OneHotEncoder)
	e.binaries_ = make(map[string]*LabelBinarizer)
	e.fitNames_ = f.Names()

	for _, name := range e.fitNames_ {
		s, err := f.Column(name)
		if err != nil {
			return err
		}
		if s.Kind() == dataset.Numeric {
			continue
		}
		strategy, ok := e.Schema[name]
		if !ok {
			return errors.NewColumnError("FrameEncoder.Fit", name, "categorical column has no encoding strategy in the schema")
		}
		switch strategy {
		case Ordinal:
			enc := NewOrdinalEncoder()
			if err := enc.Fit(s); err != nil {
				return err
			}
			e.ordinals_[name] = enc
		case OneHot:
			enc := NewOneHotEncoder()
			if err := enc.Fit(s); err != nil {
				return err
			}
			e.onehots_[name] = enc
		case Binary:
			enc := NewLabelBinarizer()
			if err := enc.Fit(s); err != nil {
				return err
			}
			e.binaries_[name] = enc
		default:
			return errors.NewValidationError("Schema", "unknown strategy", strategy)
		}
	}

	e.logger.Info("Fitted frame encoder",
		log.OperationKey, "fit",
		log.ColumnsKey, len(e.fitNames_),
		"ordinal", len(e.ordinals_),
		"onehot", len(e.onehots_),
		"binary", len(e.binaries_),
	)
	e.SetFitted()
	return nil
}

// Transform encodes the frame to an all-numeric frame, expanding one-hot
// columns in place, then applies the integer cast when CastInt is set.
func (e *FrameEncoder) Transform(f *dataset.Frame) (out *dataset.Frame, err error) {
	defer errors.Recover(&err, "FrameEncoder.Transform")

	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("FrameEncoder", "Transform")
	}

	encoded := make([]*dataset.Series, 0, f.NumCols())
	for _, name := range f.Names() {
		s, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		switch {
		case s.Kind() == dataset.Numeric:
			encoded = append(encoded, s)
		case e.ordinals_[name] != nil:
			enc, err := e.ordinals_[name].Transform(s)
			if err != nil {
				return nil, err
			}
			encoded = append(encoded, enc)
		case e.onehots_[name] != nil:
			expanded, err := e.onehots_[name].Transform(s)
			if err != nil {
				return nil, err
			}
			encoded = append(encoded, expanded...)
		case e.binaries_[name] != nil:
			enc, err := e.binaries_[name].Transform(s)
			if err != nil {
				return nil, err
			}
			encoded = append(encoded, enc)
		default:
			return nil, errors.NewColumnError("FrameEncoder.Transform", name, "column was not seen at fit time")
		}
	}

	if e.CastInt {
		e.logger.Warn("Casting encoded frame to integers",
			"warning", errors.NewDataConversionWarning("float64", "int", "encoded frame cast, fractional values truncated"),
		)
		for i, s := range encoded {
			encoded[i] = truncateSeries(s)
		}
	}

	result, err := dataset.New(encoded...)
	if err != nil {
		return nil, err
	}
	e.outNames_ = result.Names()
	return result, nil
}

// FitTransform fits on the frame and transforms it.
func (e *FrameEncoder) FitTransform(f *dataset.Frame) (*dataset.Frame, error) {
	if err := e.Fit(f); err != nil {
		return nil, err
	}
	return e.Transform(f)
}

// OutputNames returns the column names produced by the last Transform,
// one-hot indicator columns included.
func (e *FrameEncoder) OutputNames() []string {
	out := make([]string, len(e.outNames_))
	copy(out, e.outNames_)
	return out
}

func truncateSeries(s *dataset.Series) *dataset.Series {
	in := s.Floats()
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = math.Trunc(v)
	}
	return dataset.NewNumericSeries(s.Name(), out)
}
