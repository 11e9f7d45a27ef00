package model_selection

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/metrics"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
)

// SearchEstimator is the estimator contract grid search requires: fit,
// predict, and map-based parameter assignment.
type SearchEstimator interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
	SetParams(params map[string]interface{}) error
}

// CVResult records one parameter candidate's cross-validation outcome.
type CVResult struct {
	Params     map[string]interface{}
	MeanScore  float64
	FoldScores []float64
}

// GridSearchCV exhaustively evaluates a hyperparameter grid by k-fold
// cross-validation and refits the best candidate on the full data.
type GridSearchCV struct {
	// NewEstimator constructs a fresh estimator for each fit.
	NewEstimator func() SearchEstimator
	// ParamGrid maps parameter names to candidate values. The search
	// covers the cartesian product.
	ParamGrid map[string][]interface{}
	// CV generates the folds. If nil, a shuffled 5-fold split seeded by
	// RandomState is used.
	CV Splitter
	// Scoring selects the fold metric: "r2" (default, higher is better)
	// or "neg_rmse" (negated RMSE, higher is better).
	Scoring string
	// RandomState seeds the default splitter.
	RandomState int64

	BestParams_    map[string]interface{}
	BestScore_     float64
	BestEstimator_ SearchEstimator
	CVResults_     []CVResult

	fitted bool
	logger log.Logger
}

// NewGridSearchCV creates a search over the given grid.
func NewGridSearchCV(factory func() SearchEstimator, grid map[string][]interface{}) *GridSearchCV {
	return &GridSearchCV{
		NewEstimator: factory,
		ParamGrid:    grid,
		Scoring:      "r2",
		RandomState:  -1,
		logger:       log.GetLoggerWithName("model_selection.GridSearchCV"),
	}
}

// WithCV sets the fold splitter.
func (gs *GridSearchCV) WithCV(cv Splitter) *GridSearchCV {
	gs.CV = cv
	return gs
}

// WithScoring sets the fold metric.
func (gs *GridSearchCV) WithScoring(scoring string) *GridSearchCV {
	gs.Scoring = scoring
	return gs
}

// candidates enumerates the cartesian product of the grid in a stable
// order (parameter names sorted, values in declaration order).
func (gs *GridSearchCV) candidates() []map[string]interface{} {
	names := make([]string, 0, len(gs.ParamGrid))
	for name := range gs.ParamGrid {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []map[string]interface{}{{}}
	for _, name := range names {
		values := gs.ParamGrid[name]
		next := make([]map[string]interface{}, 0, len(out)*len(values))
		for _, partial := range out {
			for _, v := range values {
				candidate := make(map[string]interface{}, len(partial)+1)
				for k, pv := range partial {
					candidate[k] = pv
				}
				candidate[name] = v
				next = append(next, candidate)
			}
		}
		out = next
	}
	return out
}

func (gs *GridSearchCV) foldScore(est SearchEstimator, X, y mat.Matrix) (float64, error) {
	pred, err := est.Predict(X)
	if err != nil {
		return 0, err
	}
	yVec, err := metrics.ColVec(y, 0)
	if err != nil {
		return 0, err
	}
	pVec, err := metrics.ColVec(pred, 0)
	if err != nil {
		return 0, err
	}
	switch gs.Scoring {
	case "r2":
		return metrics.R2Score(yVec, pVec)
	case "neg_rmse":
		rmse, err := metrics.RMSE(yVec, pVec)
		if err != nil {
			return 0, err
		}
		return -rmse, nil
	default:
		return 0, errors.NewValidationError("Scoring", "unknown scoring", gs.Scoring)
	}
}

// Fit runs the search and refits the best candidate on the full data.
func (gs *GridSearchCV) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GridSearchCV.Fit")

	if gs.NewEstimator == nil {
		return errors.NewValidationError("NewEstimator", "must not be nil", nil)
	}
	rows, _ := X.Dims()
	if rows == 0 {
		return errors.NewModelError("GridSearchCV.Fit", "empty data", errors.ErrEmptyData)
	}

	cv := gs.CV
	if cv == nil {
		cv = NewKFold(5, gs.RandomState)
	}
	folds, err := cv.Split(rows)
	if err != nil {
		return err
	}

	candidates := gs.candidates()
	gs.logger.Info("starting grid search",
		log.OperationKey, "GridSearchCV.Fit",
		log.CandidatesKey, len(candidates),
		log.FoldsKey, len(folds),
		"scoring", gs.Scoring)
	start := time.Now()

	gs.CVResults_ = make([]CVResult, 0, len(candidates))
	bestScore := math.Inf(-1)
	var bestParams map[string]interface{}

	for _, params := range candidates {
		foldScores := make([]float64, 0, len(folds))
		for f, fold := range folds {
			est := gs.NewEstimator()
			if err := est.SetParams(params); err != nil {
				return errors.Wrapf(err, "candidate %v", params)
			}
			trainX := takeRows(X, fold.TrainIndices)
			trainY := takeRows(y, fold.TrainIndices)
			if err := est.Fit(trainX, trainY); err != nil {
				return errors.Wrapf(err, "candidate %v fold %d", params, f)
			}
			testX := takeRows(X, fold.TestIndices)
			testY := takeRows(y, fold.TestIndices)
			score, err := gs.foldScore(est, testX, testY)
			if err != nil {
				return errors.Wrapf(err, "candidate %v fold %d", params, f)
			}
			foldScores = append(foldScores, score)
		}

		mean := 0.0
		for _, s := range foldScores {
			mean += s
		}
		mean /= float64(len(foldScores))
		gs.CVResults_ = append(gs.CVResults_, CVResult{
			Params:     params,
			MeanScore:  mean,
			FoldScores: foldScores,
		})
		if mean > bestScore {
			bestScore = mean
			bestParams = params
		}
		gs.logger.Debug("candidate scored",
			"params", fmt.Sprintf("%v", params),
			log.ScoreKey, mean)
	}

	best := gs.NewEstimator()
	if err := best.SetParams(bestParams); err != nil {
		return err
	}
	if err := best.Fit(X, y); err != nil {
		return errors.Wrap(err, "refit best candidate")
	}

	gs.BestParams_ = bestParams
	gs.BestScore_ = bestScore
	gs.BestEstimator_ = best
	gs.fitted = true
	gs.logger.Info("grid search finished",
		log.OperationKey, "GridSearchCV.Fit",
		log.ScoreKey, bestScore,
		log.DurationMsKey, time.Since(start).Milliseconds())
	return nil
}

// Predict delegates to the refitted best estimator.
func (gs *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gs.fitted {
		return nil, errors.NewNotFittedError("GridSearchCV", "Predict")
	}
	return gs.BestEstimator_.Predict(X)
}
