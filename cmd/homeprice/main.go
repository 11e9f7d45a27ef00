// Command homeprice trains and evaluates house price models from a CSV
// of property records.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/homeprice/dataset"
	"github.com/YuminosukeSato/homeprice/pipeline"
	"github.com/YuminosukeSato/homeprice/pkg/log"
	"github.com/YuminosukeSato/homeprice/visualize"
)

const envPrefix = "HOMEPRICE_"

var (
	configPath string
	dataPath   string
	plotDir    string
	withPlots  bool
	seed       int64
)

// loadConfig resolves the effective configuration: defaults, then the
// config file if given, then HOMEPRICE_* environment variables, then
// command-line flags.
func loadConfig(cmd *cobra.Command) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"data_path":               cfg.DataPath,
		"target_column":           cfg.TargetColumn,
		"id_column":               cfg.IDColumn,
		"missing_threshold":       cfg.MissingThreshold,
		"importance_threshold":    cfg.ImportanceThreshold,
		"test_size":               cfg.TestSize,
		"seed":                    cfg.Seed,
		"folds.logistic":          cfg.Folds.Logistic,
		"folds.random_forest":     cfg.Folds.RandomForest,
		"folds.gradient_boosting": cfg.Folds.GradientBoosting,
		"folds.categorical_boost": cfg.Folds.CategoricalBoost,
		"plots":                   cfg.Plots,
		"plot_dir":                cfg.PlotDir,
		"log_level":               cfg.LogLevel,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	// Flags win over everything else.
	if cmd.Flags().Changed("data") {
		cfg.DataPath = dataPath
	}
	if cmd.Flags().Changed("plot-dir") {
		cfg.PlotDir = plotDir
	}
	if cmd.Flags().Changed("plots") {
		cfg.Plots = withPlots
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func setupLogging(cfg pipeline.Config) {
	log.SetProvider(log.NewZerologProvider(log.ToLevel(cfg.LogLevel)))
}

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Run the full pipeline and print the evaluation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			report, err := pipeline.New(cfg).Run()
			if err != nil {
				return err
			}
			fmt.Print(report.String())
			return nil
		},
	}
}

func newPlotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plot",
		Short: "Write the exploratory plots without training",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			frame, err := dataset.ReadCSVFile(cfg.DataPath)
			if err != nil {
				return err
			}
			if cfg.IDColumn != "" {
				frame = frame.Drop(cfg.IDColumn)
			}
			target := cfg.TargetColumn
			if err := visualize.Histogram(frame, target, 50,
				filepath.Join(cfg.PlotDir, "target_hist.png")); err != nil {
				return err
			}
			if err := visualize.Box(frame, target,
				filepath.Join(cfg.PlotDir, "target_box.png")); err != nil {
				return err
			}
			if err := visualize.CorrelationHeatmap(frame,
				filepath.Join(cfg.PlotDir, "correlation.png")); err != nil {
				return err
			}
			fmt.Printf("plots written to %s\n", cfg.PlotDir)
			return nil
		},
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "homeprice",
		Short:         "House price model training pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&dataPath, "data", "", "path to the training CSV")
	root.PersistentFlags().StringVar(&plotDir, "plot-dir", "", "directory for plot output")
	root.PersistentFlags().BoolVar(&withPlots, "plots", false, "write exploratory plots during training")
	root.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (negative for time-based)")

	root.AddCommand(newTrainCmd())
	root.AddCommand(newPlotCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
