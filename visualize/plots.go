// Package visualize renders exploratory plots of a data frame to PNG
// files using gonum/plot.
package visualize

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

var logger = log.GetLoggerWithName("visualize")

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// nonMissing returns the observed values of a numeric series.
func nonMissing(s *dataset.Series) []float64 {
	out := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if !s.IsMissing(i) {
			out = append(out, s.Float(i))
		}
	}
	return out
}

func savePlot(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create plot directory")
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	logger.Debug("plot written", log.PathKey, path)
	return nil
}

// Histogram writes a histogram of a numeric column to path.
func Histogram(f *dataset.Frame, column string, bins int, path string) error {
	s, err := f.Column(column)
	if err != nil {
		return err
	}
	if s.Kind() != dataset.Numeric {
		return errors.NewColumnError("visualize.Histogram", column, "not a numeric column")
	}
	values := nonMissing(s)
	if len(values) == 0 {
		return errors.NewColumnError("visualize.Histogram", column, "no observed values")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "Count"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "build histogram")
	}
	h.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(h)
	return savePlot(p, path)
}

// CountBar writes a bar chart of category frequencies for a categorical
// column to path. Categories are drawn in descending count order.
func CountBar(f *dataset.Frame, column string, path string) error {
	s, err := f.Column(column)
	if err != nil {
		return err
	}
	if s.Kind() != dataset.Categorical {
		return errors.NewColumnError("visualize.CountBar", column, "not a categorical column")
	}

	counts := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		if !s.IsMissing(i) {
			counts[s.Value(i)]++
		}
	}
	if len(counts) == 0 {
		return errors.NewColumnError("visualize.CountBar", column, "no observed values")
	}
	levels := make([]string, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Slice(levels, func(i, j int) bool {
		if counts[levels[i]] != counts[levels[j]] {
			return counts[levels[i]] > counts[levels[j]]
		}
		return levels[i] < levels[j]
	})

	values := make(plotter.Values, len(levels))
	for i, level := range levels {
		values[i] = float64(counts[level])
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Counts of %s", column)
	p.Y.Label.Text = "Count"

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	bars.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	p.Add(bars)
	p.NominalX(levels...)
	return savePlot(p, path)
}

// Box writes a box plot of a numeric column to path.
func Box(f *dataset.Frame, column string, path string) error {
	s, err := f.Column(column)
	if err != nil {
		return err
	}
	if s.Kind() != dataset.Numeric {
		return errors.NewColumnError("visualize.Box", column, "not a numeric column")
	}
	values := nonMissing(s)
	if len(values) == 0 {
		return errors.NewColumnError("visualize.Box", column, "no observed values")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Box plot of %s", column)
	p.Y.Label.Text = column

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(values))
	if err != nil {
		return errors.Wrap(err, "build box plot")
	}
	p.Add(box)
	p.NominalX(column)
	return savePlot(p, path)
}

// corrGrid adapts a correlation matrix to plotter.GridXY.
type corrGrid struct {
	m     *mat.SymDense
	names []string
}

func (g corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.m.At(r, c) }

// CorrelationHeatmap writes a Pearson correlation heat map of the
// frame's numeric columns to path.
func CorrelationHeatmap(f *dataset.Frame, path string) error {
	names := make([]string, 0, f.NumCols())
	columns := make([][]float64, 0, f.NumCols())
	for _, name := range f.Names() {
		s, err := f.Column(name)
		if err != nil {
			return err
		}
		if s.Kind() != dataset.Numeric || s.MissingCount() > 0 {
			continue
		}
		names = append(names, name)
		columns = append(columns, s.Floats())
	}
	if len(names) < 2 {
		return errors.NewModelError("CorrelationHeatmap", "needs at least two complete numeric columns", errors.ErrEmptyData)
	}

	n := len(names)
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			corr.SetSym(i, j, stat.Correlation(columns[i], columns[j], nil))
		}
	}

	p := plot.New()
	p.Title.Text = "Correlation matrix"
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(corrGrid{m: corr, names: names}, pal)
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	ticks := make([]plot.Tick, n)
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -0.9
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	return savePlot(p, path)
}

// ImportanceBar writes a horizontal-style bar chart of feature
// importances to path, highest first, at most topN features.
func ImportanceBar(importances map[string]float64, topN int, path string) error {
	if len(importances) == 0 {
		return errors.NewModelError("ImportanceBar", "no importances", errors.ErrEmptyData)
	}
	names := make([]string, 0, len(importances))
	for name := range importances {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if importances[names[i]] != importances[names[j]] {
			return importances[names[i]] > importances[names[j]]
		}
		return names[i] < names[j]
	})
	if topN > 0 && topN < len(names) {
		names = names[:topN]
	}

	values := make(plotter.Values, len(names))
	for i, name := range names {
		values[i] = importances[name]
	}

	p := plot.New()
	p.Title.Text = "Feature importances"
	p.Y.Label.Text = "Importance"

	bars, err := plotter.NewBarChart(values, vg.Points(15))
	if err != nil {
		return errors.Wrap(err, "build bar chart")
	}
	bars.Color = color.RGBA{R: 60, G: 160, B: 90, A: 255}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -0.9
	return savePlot(p, path)
}
