package lsdd

import (
	"github.com/uyouii/efficacy-score/kde"
	"gonum.org/v1/gonum/mat"
)

// foldKernelSums returns a kernelNum x fold matrix whose column f holds,
// for every center, the sum of basis weights over the samples in fold f.
func foldKernelSums(kernel *kde.GuassianKernel, dist mat.Matrix, folds *FoldAssignment, sigma float64) *mat.Dense {
	rows, cols := dist.Dims()
	sums := mat.NewDense(rows, folds.Fold, nil)
	for c := 0; c < rows; c++ {
		for j := 0; j < cols; j++ {
			f := folds.Labels[j]
			sums.Set(c, f, sums.At(c, f)+kernel.Weight(dist.At(c, j), sigma))
		}
	}
	return sums
}

// meanKernel returns, for every center, the mean basis weight over all columns of dist.
func meanKernel(kernel *kde.GuassianKernel, dist mat.Matrix, sigma float64) *mat.VecDense {
	rows, cols := dist.Dims()
	res := mat.NewVecDense(rows, nil)
	for c := 0; c < rows; c++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += kernel.Weight(dist.At(c, j), sigma)
		}
		res.SetVec(c, sum/float64(cols))
	}
	return res
}

// splitFold combines the per-fold kernel sums of both groups into the
// training and held out estimates of the basis weighted density difference.
func splitFold(hExp, hCtrl *mat.Dense, expFolds, ctrlFolds *FoldAssignment, k int) (*mat.VecDense, *mat.VecDense) {
	kernelNum, _ := hExp.Dims()
	train := mat.NewVecDense(kernelNum, nil)
	test := mat.NewVecDense(kernelNum, nil)

	nTrainExp, nTrainCtrl := float64(expFolds.TrainCount(k)), float64(ctrlFolds.TrainCount(k))
	nTestExp, nTestCtrl := float64(expFolds.Counts[k]), float64(ctrlFolds.Counts[k])

	for c := 0; c < kernelNum; c++ {
		trainExp, trainCtrl := 0.0, 0.0
		for f := 0; f < expFolds.Fold; f++ {
			if f == k {
				continue
			}
			trainExp += hExp.At(c, f)
			trainCtrl += hCtrl.At(c, f)
		}
		train.SetVec(c, trainExp/nTrainExp-trainCtrl/nTrainCtrl)
		test.SetVec(c, hExp.At(c, k)/nTestExp-hCtrl.At(c, k)/nTestCtrl)
	}
	return train, test
}

// holdOutScore is θᵀHθ - 2θᵀh_test, the held out squared L2 error up to a constant.
func holdOutScore(gram mat.Symmetric, theta, hTest *mat.VecDense) float64 {
	return mat.Inner(theta, gram, theta) - 2*mat.Dot(theta, hTest)
}
