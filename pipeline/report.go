package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/metrics"
)

// ModelMetrics holds the held-out evaluation of one tuned model.
type ModelMetrics struct {
	Name       string
	BestParams map[string]interface{}
	CVScore    float64
	MAE        float64
	MSE        float64
	RMSE       float64
	R2         float64
	Err        error
}

// Report collects every model's outcome plus the features that survived
// selection.
type Report struct {
	SelectedFeatures []string
	Models           []ModelMetrics
}

// evaluate computes the regression metrics of predictions against the
// held-out target.
func evaluate(yTrue, yPred mat.Matrix) (mae, mse, rmse, r2 float64, err error) {
	t, err := metrics.ColVec(yTrue, 0)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	p, err := metrics.ColVec(yPred, 0)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if mae, err = metrics.MAE(t, p); err != nil {
		return 0, 0, 0, 0, err
	}
	if mse, err = metrics.MSE(t, p); err != nil {
		return 0, 0, 0, 0, err
	}
	if rmse, err = metrics.RMSE(t, p); err != nil {
		return 0, 0, 0, 0, err
	}
	if r2, err = metrics.R2Score(t, p); err != nil {
		return 0, 0, 0, 0, err
	}
	return mae, mse, rmse, r2, nil
}

func formatParams(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// String renders the report as a plain-text table.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Selected features (%d): %s\n\n", len(r.SelectedFeatures),
		strings.Join(r.SelectedFeatures, ", "))
	fmt.Fprintf(&b, "%-20s %14s %14s %14s %10s\n", "Model", "MAE", "MSE", "RMSE", "R2")
	for _, m := range r.Models {
		if m.Err != nil {
			fmt.Fprintf(&b, "%-20s failed: %v\n", m.Name, m.Err)
			continue
		}
		fmt.Fprintf(&b, "%-20s %14.2f %14.2f %14.2f %10.4f\n",
			m.Name, m.MAE, m.MSE, m.RMSE, m.R2)
	}
	b.WriteString("\nBest parameters:\n")
	for _, m := range r.Models {
		if m.Err != nil {
			continue
		}
		fmt.Fprintf(&b, "  %-20s cv=%.4f  %s\n", m.Name, m.CVScore, formatParams(m.BestParams))
	}
	return b.String()
}
