package lsdd

import (
	"context"
	"fmt"

	"github.com/uyouii/efficacy-score/kde"
	"github.com/uyouii/efficacy-score/model"
	"github.com/uyouii/efficacy-score/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Estimate fits the density difference p_exp - p_ctrl on all samples with
// the given hyperparameters and samples it on the engine's evaluation grid.
func Estimate(ctx context.Context, engine *kde.DistanceEngine, hp model.Hyperparams,
	solver Solver) ([]model.Density, error) {
	logger := utils.GetLogger(ctx)

	if solver == nil {
		solver = NewConjugateGradient(DefaultTolerance, 0)
	}
	kernel := kde.NewGuassianKernel()

	gram := kernel.GramMatrix(engine.CentersToCenters(), hp.Sigma)

	h := meanKernel(kernel, engine.Exp(), hp.Sigma)
	h.SubVec(h, meanKernel(kernel, engine.Ctrl(), hp.Sigma))

	theta, err := solver.Solve(RegularizedSystem(gram, hp.Lambda), h)
	if err != nil {
		logger.Error("solve density difference coefficients failed", zap.Error(err),
			zap.Float64("sigma", hp.Sigma), zap.Float64("lambda", hp.Lambda))
		return nil, fmt.Errorf("final fit: %w", err)
	}

	grid := engine.Grid()
	basis := kernel.EvaluateMatrix(engine.CentersToGrid(), hp.Sigma)
	wHat := mat.NewVecDense(len(grid), nil)
	wHat.MulVec(basis.T(), theta)

	res := make([]model.Density, len(grid))
	for i, x := range grid {
		res[i] = model.Density{
			X:     x,
			Value: wHat.AtVec(i),
		}
	}
	return res, nil
}
