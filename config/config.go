package config

import (
	"fmt"
	"os"

	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/kde"
	"github.com/uyouii/efficacy-score/lsdd"
	"github.com/uyouii/efficacy-score/model"
	"gopkg.in/yaml.v3"
)

const (
	SolverConjugateGradient = "cg"
	SolverCholesky          = "cholesky"
)

type Config struct {
	Fold   int                 `yaml:"fold"`
	Sigma  model.BandwidthSpec `yaml:"sigma"`
	Lambda []float64           `yaml:"lambda"`

	// Seed makes a run reproducible, nil draws a fresh seed per calculation.
	Seed    *uint64 `yaml:"seed,omitempty"`
	Workers int     `yaml:"workers"`

	Solver        string  `yaml:"solver"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`

	EvalPoints int `yaml:"eval_points"`
	MaxKernels int `yaml:"max_kernels"`

	Diagnostics bool   `yaml:"diagnostics"`
	ExpLabel    string `yaml:"exp_label"`
	CtrlLabel   string `yaml:"ctrl_label"`
}

func Default() *Config {
	return &Config{
		Fold:       kde.DefaultFold,
		Sigma:      model.GridBandwidth(kde.DefaultSigmaGrid()...),
		Lambda:     kde.DefaultLambdaGrid(),
		Solver:     SolverConjugateGradient,
		Tolerance:  lsdd.DefaultTolerance,
		EvalPoints: kde.EvalPointCnt,
		MaxKernels: kde.MaxKernelNum,
		ExpLabel:   "exp",
		CtrlLabel:  "ctrl",
	}
}

// Parse overlays the yaml document on the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

func (c *Config) WithSeed(seed uint64) *Config {
	c.Seed = &seed
	return c
}

func (c *Config) Validate() error {
	if c.Fold < 2 {
		return fmt.Errorf("fold must be at least 2, got %d: %w", c.Fold, common.ErrorInvalidFold)
	}
	if !c.Sigma.FromRule() {
		if err := kde.ValidateGrid(c.Sigma.Values); err != nil {
			return fmt.Errorf("sigma grid: %w", err)
		}
	}
	if err := kde.ValidateGrid(c.Lambda); err != nil {
		return fmt.Errorf("lambda grid: %w", err)
	}
	switch c.Solver {
	case "", SolverConjugateGradient, SolverCholesky:
	default:
		return fmt.Errorf("unknown solver %q: %w", c.Solver, common.ErrorInvalidValue)
	}
	if c.Tolerance < 0 || c.MaxIterations < 0 || c.Workers < 0 {
		return fmt.Errorf("tolerance, max_iterations and workers must not be negative: %w",
			common.ErrorInvalidValue)
	}
	if c.EvalPoints < 2 {
		return fmt.Errorf("eval_points must be at least 2, got %d: %w", c.EvalPoints, common.ErrorInvalidValue)
	}
	if c.MaxKernels < 1 {
		return fmt.Errorf("max_kernels must be positive, got %d: %w", c.MaxKernels, common.ErrorInvalidValue)
	}
	return nil
}

func (c *Config) NewSolver() lsdd.Solver {
	if c.Solver == SolverCholesky {
		return lsdd.Cholesky{}
	}
	return lsdd.NewConjugateGradient(c.Tolerance, c.MaxIterations)
}
