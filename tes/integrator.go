package tes

import (
	"fmt"
	"math"

	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/model"
	"gonum.org/v1/gonum/floats"
)

// Integrate turns the estimated density difference into the efficacy score.
//
// The positive part of the curve is accumulated into a pseudo CDF normalized
// to end at 1, which is then integrated with a left Riemann sum over the grid
// and divided by the grid's upper bound. A curve without positive mass
// scores 0 and yields an all zero pseudo CDF.
func Integrate(curve []model.Density) (float64, []model.Cdf, error) {
	n := len(curve)
	if n < 2 {
		return 0, nil, fmt.Errorf("need at least 2 grid points, got %d: %w", n, common.ErrorInvalidValue)
	}
	upper := curve[n-1].X
	if !(upper > 0) {
		return 0, nil, fmt.Errorf("grid upper bound %v: %w", upper, common.ErrorInvalidRange)
	}

	positive := make([]float64, n)
	for i, d := range curve {
		if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
			return 0, nil, fmt.Errorf("density difference %v at x=%v: %w", d.Value, d.X, common.ErrorComputation)
		}
		if d.Value > 0 {
			positive[i] = d.Value
		}
	}
	cumSum := floats.CumSum(make([]float64, n), positive)

	cdf := make([]model.Cdf, n)
	for i, d := range curve {
		cdf[i].X = d.X
	}

	total := cumSum[n-1]
	if math.IsInf(total, 0) {
		return 0, nil, fmt.Errorf("positive mass is %v: %w", total, common.ErrorComputation)
	}
	if total == 0 {
		return 0, cdf, nil
	}

	var area float64
	for i := 0; i < n; i++ {
		cdf[i].Value = cumSum[i] / total
		if i < n-1 {
			area += cdf[i].Value * (curve[i+1].X - curve[i].X)
		}
	}
	return area / upper, cdf, nil
}
