package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/efficacy-score/config"
	"github.com/uyouii/efficacy-score/tes"
	"github.com/uyouii/efficacy-score/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Cohorts is the input document: raw biomarker values of both groups.
type Cohorts struct {
	Exp  []float64 `yaml:"exp"`
	Ctrl []float64 `yaml:"ctrl"`
}

type scoreOptions struct {
	inputPath   string
	configPath  string
	seed        uint64
	fold        int
	workers     int
	digits      int32
	diagnostics bool
	verbose     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tes",
		Short:        "Treatment efficacy score of an experimental cohort against a control cohort",
		SilenceUsage: true,
	}

	opts := &scoreOptions{}
	score := &cobra.Command{
		Use:   "score",
		Short: "Compute the treatment efficacy score from a cohorts yaml file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, opts)
		},
	}
	score.Flags().StringVarP(&opts.inputPath, "input", "i", "", "yaml file with exp and ctrl sample lists")
	score.Flags().StringVarP(&opts.configPath, "config", "c", "", "yaml config overriding the defaults")
	score.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed, a fresh seed is drawn when unset")
	score.Flags().IntVar(&opts.fold, "fold", 0, "number of cross validation folds")
	score.Flags().IntVar(&opts.workers, "workers", 0, "parallel bandwidth workers, 0 uses every CPU")
	score.Flags().Int32Var(&opts.digits, "digits", -1, "round the score to this many decimals")
	score.Flags().BoolVar(&opts.diagnostics, "diagnostics", false, "include the fitted curve and score surface")
	score.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	_ = score.MarkFlagRequired("input")

	root.AddCommand(score)
	return root
}

func runScore(cmd *cobra.Command, opts *scoreOptions) error {
	ctx := context.Background()
	if opts.verbose {
		ctx = utils.WithLogger(ctx, zap.Must(zap.NewDevelopment()))
	}
	logger := utils.GetLogger(ctx)

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			logger.Error("load config failed", zap.String("path", opts.configPath), zap.Error(err))
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.WithSeed(opts.seed)
	}
	if cmd.Flags().Changed("fold") {
		cfg.Fold = opts.fold
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.workers
	}
	if opts.diagnostics {
		cfg.Diagnostics = true
	}

	cohorts, err := loadCohorts(opts.inputPath)
	if err != nil {
		logger.Error("load cohorts failed", zap.String("path", opts.inputPath), zap.Error(err))
		return err
	}

	res, err := tes.Calculate(ctx, cohorts.Exp, cohorts.Ctrl, cfg)
	if err != nil {
		return err
	}
	res.Tes = utils.FormatFloat(res.Tes, opts.digits)

	out := yaml.NewEncoder(cmd.OutOrStdout())
	if err := out.Encode(res); err != nil {
		return err
	}
	return out.Close()
}

func loadCohorts(path string) (*Cohorts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cohorts Cohorts
	if err := yaml.Unmarshal(data, &cohorts); err != nil {
		return nil, fmt.Errorf("parse cohorts %s: %w", path, err)
	}
	return &cohorts, nil
}
