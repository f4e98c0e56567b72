package model

import (
	"fmt"
	"math"
)

// Hyperparams is the (bandwidth, regularization) pair picked by cross validation.
type Hyperparams struct {
	Sigma  float64 `yaml:"sigma"`
	Lambda float64 `yaml:"lambda"`
}

func (h Hyperparams) String() string {
	return fmt.Sprintf("sigma=%v lambda=%v", h.Sigma, h.Lambda)
}

// GridScore is the cross validation score surface, summed over folds.
// Values[i][j] belongs to Sigmas[i] and Lambdas[j].
type GridScore struct {
	Sigmas  []float64   `yaml:"sigmas"`
	Lambdas []float64   `yaml:"lambdas"`
	Values  [][]float64 `yaml:"values"`
}

// ArgMin returns the indexes of the smallest score, the first one in
// row-major order when there are ties. NaN scores are skipped.
func (g *GridScore) ArgMin() (int, int, bool) {
	if g == nil {
		return 0, 0, false
	}
	bestI, bestJ, found := 0, 0, false
	for i := range g.Values {
		for j, v := range g.Values[i] {
			if math.IsNaN(v) {
				continue
			}
			if !found || v < g.Values[bestI][bestJ] {
				bestI, bestJ, found = i, j, true
			}
		}
	}
	return bestI, bestJ, found
}

type TesResult struct {
	Tes         float64 `yaml:"tes"`
	Hyperparams `yaml:",inline"`
	Seed        uint64 `yaml:"seed"`
	KernelNum   int    `yaml:"kernel_num"`

	ExpLabel  string `yaml:"exp_label,omitempty"`
	CtrlLabel string `yaml:"ctrl_label,omitempty"`

	// only filled when diagnostics are requested
	Curve     []Density  `yaml:"curve,omitempty"`
	PseudoCdf []Cdf      `yaml:"pseudo_cdf,omitempty"`
	Scores    *GridScore `yaml:"scores,omitempty"`
}

func (r *TesResult) DebugString() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("tes: %v, %v, kernelNum: %v, seed: %v, curvePoints: %v",
		r.Tes, r.Hyperparams, r.KernelNum, r.Seed, len(r.Curve))
}
