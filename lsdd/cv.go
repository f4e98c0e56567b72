package lsdd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/kde"
	"github.com/uyouii/efficacy-score/model"
	"github.com/uyouii/efficacy-score/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

type SearchOptions struct {
	// Workers bounds how many bandwidths are cross validated at once,
	// 0 means runtime.GOMAXPROCS(0).
	Workers int
	Solver  Solver
}

type SearchResult struct {
	Best model.Hyperparams
	// Folds[i][j][k] is the score of Sigmas[i], Lambdas[j] with fold k held out.
	Folds [][][]float64
	Score *model.GridScore
}

// GridSearch cross validates every (sigma, lambda) pair and picks the pair
// with the smallest held out score summed over folds.
func GridSearch(ctx context.Context, engine *kde.DistanceEngine, expFolds, ctrlFolds *FoldAssignment,
	sigmas, lambdas []float64, opts SearchOptions) (*SearchResult, error) {
	logger := utils.GetLogger(ctx)

	if err := kde.ValidateGrid(sigmas); err != nil {
		return nil, fmt.Errorf("sigma grid: %w", err)
	}
	if err := kde.ValidateGrid(lambdas); err != nil {
		return nil, fmt.Errorf("lambda grid: %w", err)
	}
	if expFolds == nil || ctrlFolds == nil || expFolds.Fold != ctrlFolds.Fold {
		return nil, fmt.Errorf("fold assignments of both groups must share a fold count: %w",
			common.ErrorInvalidFold)
	}

	solver := opts.Solver
	if solver == nil {
		solver = NewConjugateGradient(DefaultTolerance, 0)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	fold := expFolds.Fold
	scores := make([][][]float64, len(sigmas))
	for i := range scores {
		scores[i] = make([][]float64, len(lambdas))
		for j := range scores[i] {
			scores[i][j] = make([]float64, fold)
		}
	}

	logger.Debug("begin grid search", zap.Int("sigmaCnt", len(sigmas)), zap.Int("lambdaCnt", len(lambdas)),
		zap.Int("fold", fold), zap.Int("kernelNum", engine.KernelNum()), zap.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sigma := range sigmas {
		g.Go(func() error {
			return searchSigma(gctx, engine, expFolds, ctrlFolds, sigma, lambdas, solver, scores[i])
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("grid search failed", zap.Error(err))
		return nil, err
	}

	surface := &model.GridScore{
		Sigmas:  sigmas,
		Lambdas: lambdas,
		Values:  make([][]float64, len(sigmas)),
	}
	for i := range sigmas {
		surface.Values[i] = make([]float64, len(lambdas))
		for j := range lambdas {
			for k := 0; k < fold; k++ {
				surface.Values[i][j] += scores[i][j][k]
			}
		}
	}

	bestI, bestJ, ok := surface.ArgMin()
	if !ok {
		return nil, fmt.Errorf("no finite cross validation score: %w", common.ErrorComputation)
	}
	best := model.Hyperparams{Sigma: sigmas[bestI], Lambda: lambdas[bestJ]}

	logger.Debug("grid search done", zap.Float64("sigma", best.Sigma), zap.Float64("lambda", best.Lambda),
		zap.Float64("score", surface.Values[bestI][bestJ]))

	return &SearchResult{
		Best:  best,
		Folds: scores,
		Score: surface,
	}, nil
}

// searchSigma fills dst[lambda][fold] for a single bandwidth.
func searchSigma(ctx context.Context, engine *kde.DistanceEngine, expFolds, ctrlFolds *FoldAssignment,
	sigma float64, lambdas []float64, solver Solver, dst [][]float64) error {
	kernel := kde.NewGuassianKernel()

	gram := kernel.GramMatrix(engine.CentersToCenters(), sigma)
	hExp := foldKernelSums(kernel, engine.Exp(), expFolds, sigma)
	hCtrl := foldKernelSums(kernel, engine.Ctrl(), ctrlFolds, sigma)

	trains := make([]*mat.VecDense, expFolds.Fold)
	tests := make([]*mat.VecDense, expFolds.Fold)
	for k := range trains {
		trains[k], tests[k] = splitFold(hExp, hCtrl, expFolds, ctrlFolds, k)
	}

	for j, lambda := range lambdas {
		system := RegularizedSystem(gram, lambda)
		for k := range trains {
			if err := ctx.Err(); err != nil {
				return err
			}
			theta, err := solver.Solve(system, trains[k])
			if err != nil {
				return fmt.Errorf("sigma %v lambda %v fold %d: %w", sigma, lambda, k, err)
			}
			dst[j][k] = holdOutScore(gram, theta, tests[k])
		}
	}
	return nil
}
