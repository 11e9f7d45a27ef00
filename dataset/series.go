// Package dataset provides the tabular data model for the homeprice
// pipeline: typed column series, the immutable Frame they form, a CSV
// loader, and train/test splitting.
package dataset

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/homeprice/pkg/errors"
)

// Kind classifies a column's storage type.
type Kind int

const (
	// Numeric columns store float64 values; NaN marks a missing cell.
	Numeric Kind = iota
	// Categorical columns store strings; the empty string marks a
	// missing cell.
	Categorical
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Series is a single named column. A Series is either numeric or
// categorical; the unused storage slice is nil.
type Series struct {
	name    string
	kind    Kind
	floats  []float64
	strings []string
}

// NewNumericSeries creates a numeric series. NaN cells are missing.
func NewNumericSeries(name string, values []float64) *Series {
	return &Series{name: name, kind: Numeric, floats: values}
}

// NewCategoricalSeries creates a categorical series. Empty-string cells are
// missing.
func NewCategoricalSeries(name string, values []string) *Series {
	return &Series{name: name, kind: Categorical, strings: values}
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// Kind returns the column kind.
func (s *Series) Kind() Kind { return s.kind }

// Len returns the number of cells.
func (s *Series) Len() int {
	if s.kind == Numeric {
		return len(s.floats)
	}
	return len(s.strings)
}

// IsMissing reports whether the cell at i is missing.
func (s *Series) IsMissing(i int) bool {
	if s.kind == Numeric {
		return math.IsNaN(s.floats[i])
	}
	return s.strings[i] == ""
}

// Float returns the numeric value at i. Only valid for numeric series.
func (s *Series) Float(i int) float64 { return s.floats[i] }

// Value returns the categorical value at i. Only valid for categorical
// series.
func (s *Series) Value(i int) string { return s.strings[i] }

// Floats returns the backing numeric slice. Callers must not mutate it.
func (s *Series) Floats() []float64 { return s.floats }

// Strings returns the backing string slice. Callers must not mutate it.
func (s *Series) Strings() []string { return s.strings }

// MissingCount returns the number of missing cells.
func (s *Series) MissingCount() int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if s.IsMissing(i) {
			n++
		}
	}
	return n
}

// MissingFraction returns the fraction of missing cells, in [0, 1].
// An empty series counts as fully missing.
func (s *Series) MissingFraction() float64 {
	if s.Len() == 0 {
		return 1.0
	}
	return float64(s.MissingCount()) / float64(s.Len())
}

// Mean returns the mean of the non-missing cells of a numeric series.
func (s *Series) Mean() (float64, error) {
	if s.kind != Numeric {
		return 0, errors.NewColumnError("Series.Mean", s.name, "not a numeric column")
	}
	sum, n := 0.0, 0
	for _, v := range s.floats {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, errors.Wrapf(errors.ErrAllMissing, "Series.Mean: column %q", s.name)
	}
	return sum / float64(n), nil
}

// Mode returns the most frequent non-missing value of a categorical series.
// Ties break toward the lexically smaller value so the result is stable.
func (s *Series) Mode() (string, error) {
	if s.kind != Categorical {
		return "", errors.NewColumnError("Series.Mode", s.name, "not a categorical column")
	}
	counts := make(map[string]int)
	for _, v := range s.strings {
		if v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", errors.Wrapf(errors.ErrAllMissing, "Series.Mode: column %q", s.name)
	}
	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, nil
}

// Levels returns the sorted distinct non-missing values of a categorical
// series. The sorted order is also the code order used by the encoders.
func (s *Series) Levels() []string {
	seen := make(map[string]struct{})
	for _, v := range s.strings {
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	levels := make([]string, 0, len(seen))
	for v := range seen {
		levels = append(levels, v)
	}
	sort.Strings(levels)
	return levels
}

// FilledFloat returns a copy of a numeric series with every missing cell
// replaced by fill.
func (s *Series) FilledFloat(fill float64) *Series {
	out := make([]float64, len(s.floats))
	for i, v := range s.floats {
		if math.IsNaN(v) {
			out[i] = fill
		} else {
			out[i] = v
		}
	}
	return NewNumericSeries(s.name, out)
}

// FilledString returns a copy of a categorical series with every missing
// cell replaced by fill.
func (s *Series) FilledString(fill string) *Series {
	out := make([]string, len(s.strings))
	for i, v := range s.strings {
		if v == "" {
			out[i] = fill
		} else {
			out[i] = v
		}
	}
	return NewCategoricalSeries(s.name, out)
}

func nan() float64 { return math.NaN() }

// Take returns a copy of the series containing the cells at idx, in order.
func (s *Series) Take(idx []int) *Series {
	if s.kind == Numeric {
		out := make([]float64, len(idx))
		for i, j := range idx {
			out[i] = s.floats[j]
		}
		return NewNumericSeries(s.name, out)
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = s.strings[j]
	}
	return NewCategoricalSeries(s.name, out)
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	if s.kind == Numeric {
		out := make([]float64, len(s.floats))
		copy(out, s.floats)
		return NewNumericSeries(s.name, out)
	}
	out := make([]string, len(s.strings))
	copy(out, s.strings)
	return NewCategoricalSeries(s.name, out)
}
