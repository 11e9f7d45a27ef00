package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// Frame is an ordered collection of equal-length series. Frames are treated
// as immutable: every pipeline stage derives a new frame rather than
// mutating its input.
type Frame struct {
	series []*Series
	index  map[string]int
}

// New creates a frame from the given series. All series must have the same
// length and unique names.
func New(series ...*Series) (*Frame, error) {
	if len(series) == 0 {
		return &Frame{index: make(map[string]int)}, nil
	}
	n := series[0].Len()
	index := make(map[string]int, len(series))
	for i, s := range series {
		if s.Len() != n {
			return nil, errors.NewDimensionError("dataset.New", n, s.Len(), 0)
		}
		if _, dup := index[s.Name()]; dup {
			return nil, errors.NewColumnError("dataset.New", s.Name(), "duplicate column name")
		}
		index[s.Name()] = i
	}
	return &Frame{series: series, index: index}, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	if len(f.series) == 0 {
		return 0
	}
	return f.series[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.series) }

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.series))
	for i, s := range f.series {
		names[i] = s.Name()
	}
	return names
}

// Has reports whether the frame contains a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the series with the given name.
func (f *Frame) Column(name string) (*Series, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, errors.NewColumnError("Frame.Column", name, "no such column")
	}
	return f.series[i], nil
}

// Drop returns a new frame without the named columns. Names that are not
// present are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	dropped := make(map[string]struct{}, len(names))
	for _, n := range names {
		dropped[n] = struct{}{}
	}
	kept := make([]*Series, 0, len(f.series))
	for _, s := range f.series {
		if _, skip := dropped[s.Name()]; !skip {
			kept = append(kept, s)
		}
	}
	out, _ := New(kept...)
	return out
}

// Select returns a new frame containing exactly the named columns, in the
// given order.
func (f *Frame) Select(names []string) (*Frame, error) {
	selected := make([]*Series, 0, len(names))
	for _, n := range names {
		s, err := f.Column(n)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s)
	}
	return New(selected...)
}

// TakeRows returns a new frame containing the rows at idx, in order.
func (f *Frame) TakeRows(idx []int) (*Frame, error) {
	n := f.NumRows()
	for _, i := range idx {
		if i < 0 || i >= n {
			return nil, errors.NewValueError("Frame.TakeRows", "row index out of range")
		}
	}
	taken := make([]*Series, len(f.series))
	for i, s := range f.series {
		taken[i] = s.Take(idx)
	}
	return New(taken...)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	cloned := make([]*Series, len(f.series))
	for i, s := range f.series {
		cloned[i] = s.Clone()
	}
	out, _ := New(cloned...)
	return out
}

// MissingCells returns the total number of missing cells across all columns.
func (f *Frame) MissingCells() int {
	total := 0
	for _, s := range f.series {
		total += s.MissingCount()
	}
	return total
}

// Matrix converts the named columns to a dense matrix. Every column must be
// numeric and free of missing cells; anything else is an error.
func (f *Frame) Matrix(names []string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.NewValueError("Frame.Matrix", "no columns requested")
	}
	rows := f.NumRows()
	out := mat.NewDense(rows, len(names), nil)
	for j, name := range names {
		s, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if s.Kind() != Numeric {
			return nil, errors.NewColumnError("Frame.Matrix", name, "not a numeric column")
		}
		for i := 0; i < rows; i++ {
			if s.IsMissing(i) {
				return nil, errors.NewColumnError("Frame.Matrix", name, "contains missing cells")
			}
			out.Set(i, j, s.Float(i))
		}
	}
	return out, nil
}

// Vector converts a single numeric column to a column vector, with the same
// strictness as Matrix.
func (f *Frame) Vector(name string) (*mat.VecDense, error) {
	m, err := f.Matrix([]string{name})
	if err != nil {
		return nil, err
	}
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

// FeatureNames returns all column names except the target column.
func (f *Frame) FeatureNames(target string) []string {
	names := make([]string, 0, len(f.series))
	for _, s := range f.series {
		if s.Name() != target {
			names = append(names, s.Name())
		}
	}
	return names
}
