// Package linear_model provides linear estimators.
package linear_model

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/core/model"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

// LogisticRegression is a multinomial logistic classifier trained by
// batch gradient descent on the softmax cross-entropy with L2 penalty.
// Classes are the distinct values observed in y during Fit, so it can be
// pointed at an integer-valued target directly.
type LogisticRegression struct {
	state *model.StateManager

	penalty      string
	c            float64
	maxIter      int
	tol          float64
	learningRate float64
	randomState  int64

	weights_ *mat.Dense // (nFeatures+1) x nClasses, last row is intercept
	classes_ []float64

	logger log.Logger
}

// Option configures a LogisticRegression.
type Option func(*LogisticRegression)

// WithPenalty sets the regularization kind ("l2" or "none").
func WithPenalty(p string) Option {
	return func(lr *LogisticRegression) { lr.penalty = p }
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithMaxIter sets the iteration limit.
func WithMaxIter(n int) Option {
	return func(lr *LogisticRegression) { lr.maxIter = n }
}

// WithTol sets the convergence tolerance on the gradient norm.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// WithLearningRate sets the gradient descent step size.
func WithLearningRate(eta float64) Option {
	return func(lr *LogisticRegression) { lr.learningRate = eta }
}

// WithRandomState seeds weight initialization.
func WithRandomState(seed int64) Option {
	return func(lr *LogisticRegression) { lr.randomState = seed }
}

// NewLogisticRegression creates a classifier with scikit-learn-like
// defaults (L2 penalty, C=1, 100 iterations).
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		maxIter:      100,
		tol:          1e-4,
		learningRate: 0.1,
		randomState:  -1,
		logger:       log.GetLoggerWithName("linear_model.LogisticRegression"),
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Classes returns the class values in sorted order.
func (lr *LogisticRegression) Classes() []float64 {
	out := make([]float64, len(lr.classes_))
	copy(out, lr.classes_)
	return out
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Fit trains the classifier. y must be a single column; each distinct
// value becomes a class.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LogisticRegression.Fit")

	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("LogisticRegression.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if lr.penalty != "l2" && lr.penalty != "none" {
		return errors.NewValidationError("penalty", "must be \"l2\" or \"none\"", lr.penalty)
	}
	if lr.c <= 0 {
		return errors.NewValidationError("C", "must be > 0", lr.c)
	}

	seen := make(map[float64]bool)
	for i := 0; i < rows; i++ {
		seen[y.At(i, 0)] = true
	}
	classes := make([]float64, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Float64s(classes)
	if len(classes) < 2 {
		return errors.NewModelError("LogisticRegression.Fit", "needs at least two classes", nil)
	}
	lr.classes_ = classes
	classIndex := make(map[float64]int, len(classes))
	for idx, v := range classes {
		classIndex[v] = idx
	}

	nClasses := len(classes)
	var rng *rand.Rand
	if lr.randomState < 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(uint64(lr.randomState), uint64(lr.randomState)))
	}

	w := mat.NewDense(cols+1, nClasses, nil)
	for i := 0; i < cols+1; i++ {
		for k := 0; k < nClasses; k++ {
			w.Set(i, k, rng.NormFloat64()*0.01)
		}
	}

	lambda := 0.0
	if lr.penalty == "l2" {
		lambda = 1.0 / lr.c
	}

	grad := mat.NewDense(cols+1, nClasses, nil)
	probs := make([]float64, nClasses)
	xi := make([]float64, cols+1)
	xi[cols] = 1.0

	for iter := 0; iter < lr.maxIter; iter++ {
		grad.Zero()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				xi[j] = X.At(i, j)
			}
			softmaxRow(xi, w, probs)
			target := classIndex[y.At(i, 0)]
			for k := 0; k < nClasses; k++ {
				delta := probs[k]
				if k == target {
					delta -= 1.0
				}
				for j := 0; j <= cols; j++ {
					grad.Set(j, k, grad.At(j, k)+delta*xi[j])
				}
			}
		}

		norm := 0.0
		scale := 1.0 / float64(rows)
		for j := 0; j <= cols; j++ {
			for k := 0; k < nClasses; k++ {
				g := grad.At(j, k) * scale
				if lambda > 0 && j < cols {
					g += lambda * w.At(j, k) * scale
				}
				norm += g * g
				w.Set(j, k, w.At(j, k)-lr.learningRate*g)
			}
		}
		if math.Sqrt(norm) < lr.tol {
			lr.logger.Debug("converged",
				log.OperationKey, "LogisticRegression.Fit",
				"iterations", iter+1)
			break
		}
	}

	lr.weights_ = w
	lr.state.SetDimensions(cols, rows)
	lr.state.SetFitted()
	lr.logger.Info("model fitted",
		log.OperationKey, "LogisticRegression.Fit",
		log.RowsKey, rows,
		log.FeaturesKey, cols,
		"classes", nClasses)
	return nil
}

func softmaxRow(xi []float64, w *mat.Dense, out []float64) {
	nClasses := len(out)
	maxLogit := math.Inf(-1)
	for k := 0; k < nClasses; k++ {
		logit := 0.0
		for j, v := range xi {
			logit += v * w.At(j, k)
		}
		out[k] = logit
		if logit > maxLogit {
			maxLogit = logit
		}
	}
	sum := 0.0
	for k := 0; k < nClasses; k++ {
		out[k] = math.Exp(out[k] - maxLogit)
		sum += out[k]
	}
	for k := 0; k < nClasses; k++ {
		out[k] /= sum
	}
}

// PredictProba returns the class probability matrix (rows x nClasses),
// columns ordered as Classes().
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}
	rows, cols := X.Dims()
	nFeatures, _ := lr.state.GetDimensions()
	if cols != nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", nFeatures, cols, 1)
	}

	nClasses := len(lr.classes_)
	out := mat.NewDense(rows, nClasses, nil)
	xi := make([]float64, cols+1)
	xi[cols] = 1.0
	probs := make([]float64, nClasses)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			xi[j] = X.At(i, j)
		}
		softmaxRow(xi, lr.weights_, probs)
		for k := 0; k < nClasses; k++ {
			out.Set(i, k, probs[k])
		}
	}
	return out, nil
}

// Predict returns the most probable class value per row.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	rows, nClasses := proba.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		best, bestP := 0, proba.At(i, 0)
		for k := 1; k < nClasses; k++ {
			if p := proba.At(i, k); p > bestP {
				best, bestP = k, p
			}
		}
		out.Set(i, 0, lr.classes_[best])
	}
	return out, nil
}

// Score returns the mean accuracy of Predict against y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	rows, _ := y.Dims()
	if rows == 0 {
		return 0, errors.NewModelError("LogisticRegression.Score", "empty data", errors.ErrEmptyData)
	}
	correct := 0
	for i := 0; i < rows; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(rows), nil
}

// GetParams returns the classifier's hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.c,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"learning_rate": lr.learningRate,
		"random_state":  lr.randomState,
	}
}

// SetParams sets hyperparameters from a map.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "penalty":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError("penalty", "must be a string", value)
			}
			lr.penalty = s
		case "C":
			lr.c = asFloat(value)
		case "max_iter":
			lr.maxIter = asInt(value)
		case "tol":
			lr.tol = asFloat(value)
		case "learning_rate":
			lr.learningRate = asFloat(value)
		case "random_state":
			lr.randomState = int64(asInt(value))
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

func asInt(v interface{}) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	}
	return 0
}

func asFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return 0
}
