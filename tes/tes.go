// Package tes computes the treatment efficacy score of an experimental cohort
// against a control cohort from the least squares estimate of the difference
// of their densities.
package tes

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/config"
	"github.com/uyouii/efficacy-score/kde"
	"github.com/uyouii/efficacy-score/lsdd"
	"github.com/uyouii/efficacy-score/model"
	"github.com/uyouii/efficacy-score/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// second PCG word, derived from the seed so a single uint64 replays a run
const pcgStreamMask = 0x9e3779b97f4a7c15

// Score is Calculate without the diagnostics.
func Score(ctx context.Context, exp, ctrl []float64, cfg *config.Config) (float64, error) {
	res, err := Calculate(ctx, exp, ctrl, cfg)
	if err != nil {
		return 0, err
	}
	return res.Tes, nil
}

// Calculate estimates p_exp - p_ctrl, picking bandwidth and regularization
// by k-fold cross validation, and integrates its positive part into the
// efficacy score. A nil cfg uses config.Default().
func Calculate(ctx context.Context, exp, ctrl []float64, cfg *config.Config) (res *model.TesResult, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Calculate recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, fmt.Errorf("panic: %v: %w", r, common.ErrorComputation)
		}
	}()

	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", zap.Error(err))
		return nil, err
	}
	if err := validateSamples(exp, cfg.Fold); err != nil {
		return nil, fmt.Errorf("%s samples: %w", cfg.ExpLabel, err)
	}
	if err := validateSamples(ctrl, cfg.Fold); err != nil {
		return nil, fmt.Errorf("%s samples: %w", cfg.CtrlLabel, err)
	}

	n := len(exp) + len(ctrl)
	pooled := make([]float64, 0, n)
	pooled = append(pooled, exp...)
	pooled = append(pooled, ctrl...)

	upper := floats.Max(pooled)
	if !(upper > 0) {
		return nil, fmt.Errorf("largest sample is %v: %w", upper, common.ErrorInvalidRange)
	}

	sigmas, err := kde.ResolveBandwidth(cfg.Sigma, pooled)
	if err != nil {
		return nil, err
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^pcgStreamMask))

	kernelNum := min(cfg.MaxKernels, n)
	centerIdx := rng.Perm(n)[:kernelNum]

	expFolds, err := lsdd.AssignFolds(len(exp), cfg.Fold, rng)
	if err != nil {
		return nil, err
	}
	ctrlFolds, err := lsdd.AssignFolds(len(ctrl), cfg.Fold, rng)
	if err != nil {
		return nil, err
	}

	grid := kde.LinSpace(0, upper, cfg.EvalPoints)
	engine := kde.NewDistanceEngine(pooled, len(exp), centerIdx, grid)
	solver := cfg.NewSolver()

	logger.Debug("begin calculate tes", zap.String("exp", cfg.ExpLabel), zap.String("ctrl", cfg.CtrlLabel),
		zap.Int("expCnt", len(exp)), zap.Int("ctrlCnt", len(ctrl)), zap.Int("kernelNum", kernelNum),
		zap.Uint64("seed", seed), zap.String("sigma", cfg.Sigma.Kind.String()))

	search, err := lsdd.GridSearch(ctx, engine, expFolds, ctrlFolds, sigmas, cfg.Lambda, lsdd.SearchOptions{
		Workers: cfg.Workers,
		Solver:  solver,
	})
	if err != nil {
		return nil, err
	}

	curve, err := lsdd.Estimate(ctx, engine, search.Best, solver)
	if err != nil {
		return nil, err
	}

	score, cdf, err := Integrate(curve)
	if err != nil {
		logger.Error("integrate density difference failed", zap.Error(err))
		return nil, err
	}

	res = &model.TesResult{
		Tes:         score,
		Hyperparams: search.Best,
		Seed:        seed,
		KernelNum:   kernelNum,
		ExpLabel:    cfg.ExpLabel,
		CtrlLabel:   cfg.CtrlLabel,
	}
	if cfg.Diagnostics {
		res.Curve = curve
		res.PseudoCdf = cdf
		res.Scores = search.Score
	}

	logger.Debug("calculate tes done", zap.String("result", res.DebugString()))
	return res, nil
}

func validateSamples(x []float64, fold int) error {
	if len(x) == 0 {
		return common.ErrorEmptySample
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value %v at index %d: %w", v, i, common.ErrorNonFinite)
		}
	}
	if len(x) < fold {
		return fmt.Errorf("%d samples can not fill %d folds: %w", len(x), fold, common.ErrorInvalidFold)
	}
	return nil
}
