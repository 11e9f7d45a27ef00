package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

// ReadOption configures the CSV reader.
type ReadOption func(*readConfig)

type readConfig struct {
	missingTokens map[string]struct{}
	comma         rune
}

// WithMissingTokens sets the cell values treated as missing. The default is
// the empty string and "NA" (the marker used by the Ames housing file).
func WithMissingTokens(tokens ...string) ReadOption {
	return func(c *readConfig) {
		c.missingTokens = make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			c.missingTokens[t] = struct{}{}
		}
	}
}

// WithComma sets the field delimiter.
func WithComma(comma rune) ReadOption {
	return func(c *readConfig) { c.comma = comma }
}

// ReadCSV reads a header-first CSV stream into a frame. A column is typed
// numeric when every non-missing cell parses as a float; otherwise it is
// categorical.
func ReadCSV(r io.Reader, opts ...ReadOption) (*Frame, error) {
	cfg := &readConfig{
		missingTokens: map[string]struct{}{"": {}, "NA": {}},
		comma:         ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}

	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset.ReadCSV: malformed CSV")
	}
	if len(records) < 1 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset.ReadCSV: no header row")
	}

	header := records[0]
	rows := records[1:]
	nRows := len(rows)

	series := make([]*Series, len(header))
	for j, name := range header {
		cells := make([]string, nRows)
		numeric := true
		allMissing := true
		for i, row := range rows {
			if j >= len(row) {
				return nil, errors.NewValueError("dataset.ReadCSV", "ragged row")
			}
			cell := row[j]
			if _, miss := cfg.missingTokens[cell]; miss {
				cells[i] = ""
				continue
			}
			cells[i] = cell
			allMissing = false
			if numeric {
				if _, perr := strconv.ParseFloat(cell, 64); perr != nil {
					numeric = false
				}
			}
		}

		// A column with no observed values has no evidence either way;
		// treat it as categorical so the cleaner's threshold logic sees it.
		if allMissing {
			numeric = false
		}

		if numeric {
			floats := make([]float64, nRows)
			for i, cell := range cells {
				if cell == "" {
					floats[i] = nan()
					continue
				}
				v, _ := strconv.ParseFloat(cell, 64)
				floats[i] = v
			}
			series[j] = NewNumericSeries(name, floats)
		} else {
			series[j] = NewCategoricalSeries(name, cells)
		}
	}

	frame, err := New(series...)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("dataset.csv").Debug("Loaded CSV",
		log.RowsKey, frame.NumRows(),
		log.ColumnsKey, frame.NumCols(),
	)
	return frame, nil
}

// ReadCSVFile reads a CSV file from disk into a frame.
func ReadCSVFile(path string, opts ...ReadOption) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.ReadCSVFile: open %s", path)
	}
	defer f.Close()
	frame, err := ReadCSV(f, opts...)
	if err != nil {
		return nil, err
	}
	log.GetLoggerWithName("dataset.csv").Info("Loaded dataset",
		log.PathKey, path,
		log.RowsKey, frame.NumRows(),
		log.ColumnsKey, frame.NumCols(),
	)
	return frame, nil
}
