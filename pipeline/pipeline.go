package pipeline

import (
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/ensemble"
	"github.com/YuminosukeSato/homeprice/linear_model"
	"github.com/YuminosukeSato/homeprice/model_selection"
	"github.com/YuminosukeSato/homeprice/pkg/errors"
	"github.com/YuminosukeSato/homeprice/pkg/log"
	"github.com/YuminosukeSato/homeprice/preprocessing"
	"github.com/YuminosukeSato/homeprice/selection"
	"github.com/YuminosukeSato/homeprice/visualize"
)

// Pipeline wires the full workflow together.
type Pipeline struct {
	cfg    Config
	logger log.Logger
}

// New creates a pipeline from the given configuration.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: log.GetLoggerWithName("pipeline"),
	}
}

// Run executes the complete workflow and returns the evaluation report.
// A model that fails to train is reported with its error; the remaining
// models still run.
func (p *Pipeline) Run() (rep *Report, err error) {
	defer errors.Recover(&err, "Pipeline.Run")
	start := time.Now()

	frame, err := p.load()
	if err != nil {
		return nil, err
	}

	if p.cfg.Plots {
		if err := p.explore(frame); err != nil {
			// Plot failures are not fatal to training.
			p.logger.Warn("exploratory plots failed", "error", err.Error())
		}
	}

	encoded, err := p.prepare(frame)
	if err != nil {
		return nil, err
	}

	selector, selected, err := p.selectFeatures(encoded)
	if err != nil {
		return nil, err
	}
	if p.cfg.Plots {
		path := filepath.Join(p.cfg.PlotDir, "feature_importances.png")
		if err := visualize.ImportanceBar(selector.Importances(), 30, path); err != nil {
			p.logger.Warn("importance plot failed", "error", err.Error())
		}
	}

	train, test, err := dataset.TrainTestSplit(selected, p.cfg.TestSize, p.cfg.Seed)
	if err != nil {
		return nil, err
	}
	p.logger.Info("data split",
		log.OperationKey, "Pipeline.Run",
		"train_rows", train.NumRows(),
		"test_rows", test.NumRows())

	rep = &Report{SelectedFeatures: selector.SelectedFeatures()}
	rep.Models = p.trainAll(train, test)

	p.logger.Info("pipeline finished",
		log.OperationKey, "Pipeline.Run",
		log.DurationMsKey, time.Since(start).Milliseconds())
	return rep, nil
}

func (p *Pipeline) load() (*dataset.Frame, error) {
	frame, err := dataset.ReadCSVFile(p.cfg.DataPath)
	if err != nil {
		return nil, err
	}
	if p.cfg.IDColumn != "" {
		frame = frame.Drop(p.cfg.IDColumn)
	}
	if !frame.Has(p.cfg.TargetColumn) {
		return nil, errors.NewColumnError("Pipeline.load", p.cfg.TargetColumn, "target column not in data")
	}
	p.logger.Info("data loaded",
		log.OperationKey, "Pipeline.load",
		log.PathKey, p.cfg.DataPath,
		log.RowsKey, frame.NumRows(),
		log.ColumnsKey, frame.NumCols())
	return frame, nil
}

// explore writes the exploratory plots of the raw frame.
func (p *Pipeline) explore(frame *dataset.Frame) error {
	target := p.cfg.TargetColumn
	if err := visualize.Histogram(frame, target, 50,
		filepath.Join(p.cfg.PlotDir, "target_hist.png")); err != nil {
		return err
	}
	if err := visualize.Box(frame, target,
		filepath.Join(p.cfg.PlotDir, "target_box.png")); err != nil {
		return err
	}
	return visualize.CorrelationHeatmap(frame,
		filepath.Join(p.cfg.PlotDir, "correlation.png"))
}

// prepare cleans and encodes the frame into a fully numeric one.
func (p *Pipeline) prepare(frame *dataset.Frame) (*dataset.Frame, error) {
	cleaner := preprocessing.NewCleaner(p.cfg.MissingThreshold)
	cleaned, err := cleaner.FitTransform(frame)
	if err != nil {
		return nil, err
	}
	if dropped := cleaner.DroppedColumns(); len(dropped) > 0 {
		p.logger.Info("sparse columns dropped",
			log.OperationKey, "Pipeline.prepare",
			"dropped", dropped)
	}

	encoder := preprocessing.NewFrameEncoder(preprocessing.AmesSchema())
	encoded, err := encoder.FitTransform(cleaned)
	if err != nil {
		return nil, err
	}
	p.logger.Info("frame encoded",
		log.OperationKey, "Pipeline.prepare",
		log.ColumnsKey, encoded.NumCols())
	return encoded, nil
}

func (p *Pipeline) selectFeatures(encoded *dataset.Frame) (*selection.ImportanceSelector, *dataset.Frame, error) {
	selector := selection.NewImportanceSelector(p.cfg.ImportanceThreshold, p.cfg.Seed)
	if err := selector.Fit(encoded, p.cfg.TargetColumn); err != nil {
		return nil, nil, err
	}
	selected, err := selector.Transform(encoded, p.cfg.TargetColumn)
	if err != nil {
		return nil, nil, err
	}
	return selector, selected, nil
}

// matrices extracts the feature matrix and target vector of a frame.
func (p *Pipeline) matrices(f *dataset.Frame) (mat.Matrix, mat.Matrix, error) {
	features := f.FeatureNames(p.cfg.TargetColumn)
	X, err := f.Matrix(features)
	if err != nil {
		return nil, nil, err
	}
	y, err := f.Vector(p.cfg.TargetColumn)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

func (p *Pipeline) trainAll(train, test *dataset.Frame) []ModelMetrics {
	trainX, trainY, err := p.matrices(train)
	if err != nil {
		return []ModelMetrics{{Name: "all", Err: err}}
	}
	testX, testY, err := p.matrices(test)
	if err != nil {
		return []ModelMetrics{{Name: "all", Err: err}}
	}

	// Columns that came out of the ordinal or binary encoders hold integer
	// category codes; the categorical booster treats them natively.
	schema := preprocessing.AmesSchema()
	features := train.FeatureNames(p.cfg.TargetColumn)
	var catIndices []int
	for j, name := range features {
		if strategy, ok := schema[name]; ok && strategy != preprocessing.OneHot {
			catIndices = append(catIndices, j)
		}
	}

	seed := p.cfg.Seed
	families := []struct {
		name    string
		grid    map[string][]interface{}
		folds   int
		scoring string
		scale   bool
		factory func() model_selection.SearchEstimator
	}{
		{
			name:  "LogisticRegression",
			grid:  logisticGrid(),
			folds: p.cfg.Folds.Logistic,
			scale: true,
			factory: func() model_selection.SearchEstimator {
				return linear_model.NewLogisticRegression(
					linear_model.WithRandomState(seed))
			},
		},
		{
			name:  "RandomForest",
			grid:  forestGrid(),
			folds: p.cfg.Folds.RandomForest,
			factory: func() model_selection.SearchEstimator {
				return ensemble.NewRandomForestRegressor().WithRandomState(seed)
			},
		},
		{
			name:  "GradientBoosting",
			grid:  gradientBoostingGrid(),
			folds: p.cfg.Folds.GradientBoosting,
			factory: func() model_selection.SearchEstimator {
				return ensemble.NewGradientBoostingRegressor().WithRandomState(seed)
			},
		},
		{
			name:    "CategoricalBoost",
			grid:    categoricalBoostGrid(),
			folds:   p.cfg.Folds.CategoricalBoost,
			scoring: "neg_rmse",
			factory: func() model_selection.SearchEstimator {
				return ensemble.NewCategoricalBoostRegressor().
					WithCategoricalFeatures(catIndices...).
					WithRandomState(seed)
			},
		},
	}

	out := make([]ModelMetrics, 0, len(families))
	for _, fam := range families {
		m := p.trainOne(fam.name, fam.factory, fam.grid, fam.folds,
			fam.scoring, fam.scale, trainX, trainY, testX, testY)
		out = append(out, m)
	}
	return out
}

func (p *Pipeline) trainOne(
	name string,
	factory func() model_selection.SearchEstimator,
	grid map[string][]interface{},
	folds int,
	scoring string,
	scale bool,
	trainX, trainY, testX, testY mat.Matrix,
) ModelMetrics {
	m := ModelMetrics{Name: name}
	logger := p.logger.With(log.ModelNameKey, name)
	start := time.Now()

	fitX, predX := trainX, testX
	if scale {
		scaler := preprocessing.NewStandardScaler()
		scaled, err := scaler.FitTransform(trainX)
		if err != nil {
			m.Err = err
			return m
		}
		fitX = scaled
		if predX, m.Err = scaler.Transform(testX); m.Err != nil {
			return m
		}
	}

	gs := model_selection.NewGridSearchCV(factory, grid).
		WithCV(model_selection.NewKFold(folds, p.cfg.Seed))
	if scoring != "" {
		gs.WithScoring(scoring)
	}
	if err := gs.Fit(fitX, trainY); err != nil {
		logger.Error("training failed", "error", err.Error())
		m.Err = err
		return m
	}

	pred, err := gs.Predict(predX)
	if err != nil {
		m.Err = err
		return m
	}
	m.BestParams = gs.BestParams_
	m.CVScore = gs.BestScore_
	if m.MAE, m.MSE, m.RMSE, m.R2, err = evaluate(testY, pred); err != nil {
		m.Err = err
		return m
	}

	logger.Info("model evaluated",
		log.ScoreKey, m.R2,
		"rmse", m.RMSE,
		log.DurationMsKey, time.Since(start).Milliseconds())
	return m
}
