package lsdd

import (
	"errors"
	"fmt"
	"math"

	"github.com/uyouii/efficacy-score/common"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultTolerance      = 1e-8
	minIterationBudget    = 200
	iterationBudgetPerDim = 10
)

// Solver solves a A x = b for symmetric positive definite A.
type Solver interface {
	Solve(a mat.Symmetric, b *mat.VecDense) (*mat.VecDense, error)
}

// RegularizedSystem returns H + λI.
func RegularizedSystem(h mat.Symmetric, lambda float64) *mat.SymDense {
	n := h.SymmetricDim()
	a := mat.NewSymDense(n, nil)
	a.CopySym(h)
	for i := 0; i < n; i++ {
		a.SetSym(i, i, a.At(i, i)+lambda)
	}
	return a
}

// ConjugateGradient stops once ||r|| <= Tolerance * ||b||. A zero
// MaxIterations means max(200, 10 * dim).
type ConjugateGradient struct {
	Tolerance     float64
	MaxIterations int
}

func NewConjugateGradient(tolerance float64, maxIterations int) *ConjugateGradient {
	return &ConjugateGradient{
		Tolerance:     tolerance,
		MaxIterations: maxIterations,
	}
}

func (cg *ConjugateGradient) tolerance() float64 {
	if cg.Tolerance <= 0 {
		return DefaultTolerance
	}
	return cg.Tolerance
}

func (cg *ConjugateGradient) maxIterations(n int) int {
	if cg.MaxIterations > 0 {
		return cg.MaxIterations
	}
	return max(minIterationBudget, iterationBudgetPerDim*n)
}

func (cg *ConjugateGradient) Solve(a mat.Symmetric, b *mat.VecDense) (*mat.VecDense, error) {
	n := b.Len()
	if a.SymmetricDim() != n {
		return nil, fmt.Errorf("system of size %d with rhs of size %d: %w",
			a.SymmetricDim(), n, common.ErrorInvalidValue)
	}

	x := mat.NewVecDense(n, nil)
	bNorm := mat.Norm(b, 2)
	if bNorm == 0 {
		return x, nil
	}
	threshold := cg.tolerance() * bNorm

	r := mat.VecDenseCopyOf(b)
	p := mat.VecDenseCopyOf(b)
	ap := mat.NewVecDense(n, nil)
	rr := mat.Dot(r, r)

	maxIter := cg.maxIterations(n)
	for iter := 0; iter < maxIter; iter++ {
		ap.MulVec(a, p)
		pap := mat.Dot(p, ap)
		if !(pap > 0) {
			return nil, fmt.Errorf("curvature %v at iteration %d, matrix is not positive definite: %w",
				pap, iter, common.ErrorNotConverged)
		}
		alpha := rr / pap
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, ap)

		rrNext := mat.Dot(r, r)
		if math.Sqrt(rrNext) <= threshold {
			return x, nil
		}

		p.ScaleVec(rrNext/rr, p)
		p.AddVec(p, r)
		rr = rrNext
	}

	return nil, fmt.Errorf("residual %v above %v after %d iterations: %w",
		math.Sqrt(rr), threshold, maxIter, common.ErrorNotConverged)
}

// Cholesky solves the system directly through a Cholesky factorization.
type Cholesky struct{}

func (Cholesky) Solve(a mat.Symmetric, b *mat.VecDense) (*mat.VecDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, fmt.Errorf("cholesky factorization failed, matrix is not positive definite: %w",
			common.ErrorNotConverged)
	}

	x := mat.NewVecDense(b.Len(), nil)
	if err := chol.SolveVecTo(x, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("cholesky solve is ill conditioned, condition number %g: %w",
				float64(cond), common.ErrorNotConverged)
		}
		return nil, fmt.Errorf("cholesky solve: %v: %w", err, common.ErrorNotConverged)
	}
	return x, nil
}
