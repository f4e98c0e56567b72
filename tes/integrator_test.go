package tes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/model"
)

func curveOf(xs, values []float64) []model.Density {
	res := make([]model.Density, len(xs))
	for i := range xs {
		res[i] = model.Density{X: xs[i], Value: values[i]}
	}
	return res
}

func TestIntegrate(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}

	for _, tc := range []struct {
		name   string
		values []float64
		tes    float64
		cdf    []float64
	}{
		{
			name:   "mixed signs",
			values: []float64{1, -1, 1, 0, -2},
			tes:    0.75,
			cdf:    []float64{0.5, 0.5, 1, 1, 1},
		},
		{
			name:   "all mass at the lower bound",
			values: []float64{3, 0, -1, 0, 0},
			tes:    1,
			cdf:    []float64{1, 1, 1, 1, 1},
		},
		{
			name:   "all mass at the upper bound",
			values: []float64{-1, -1, 0, 0, 2},
			tes:    0,
			cdf:    []float64{0, 0, 0, 0, 1},
		},
		{
			name:   "uniform",
			values: []float64{1, 1, 1, 1, 1},
			tes:    (0.2 + 0.4 + 0.6 + 0.8) / 4,
			cdf:    []float64{0.2, 0.4, 0.6, 0.8, 1},
		},
		{
			name:   "no positive mass",
			values: []float64{-1, -2, 0, -0.5, 0},
			tes:    0,
			cdf:    []float64{0, 0, 0, 0, 0},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tes, cdf, err := Integrate(curveOf(xs, tc.values))
			require.NoError(t, err)
			assert.InDelta(t, tc.tes, tes, 1e-12)
			require.Len(t, cdf, len(xs))
			for i := range cdf {
				assert.Equal(t, xs[i], cdf[i].X)
				assert.InDelta(t, tc.cdf[i], cdf[i].Value, 1e-12)
			}
		})
	}
}

func TestIntegrateUnevenGrid(t *testing.T) {
	tes, _, err := Integrate(curveOf([]float64{0, 1, 4}, []float64{1, 1, 0}))
	require.NoError(t, err)
	// cdf is 0.5, 1, 1
	assert.InDelta(t, (0.5*1+1*3)/4.0, tes, 1e-12)
}

func TestIntegrateErrors(t *testing.T) {
	_, _, err := Integrate(curveOf([]float64{1}, []float64{1}))
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	_, _, err = Integrate(curveOf([]float64{-2, -1, 0}, []float64{1, 1, 1}))
	assert.ErrorIs(t, err, common.ErrorInvalidRange)

	_, _, err = Integrate(curveOf([]float64{0, 1, 2}, []float64{1, math.Inf(1), 1}))
	assert.ErrorIs(t, err, common.ErrorComputation)

	_, _, err = Integrate(curveOf([]float64{0, 1, 2}, []float64{1, math.NaN(), 0}))
	assert.ErrorIs(t, err, common.ErrorComputation)

	// negative values are clamped away, but an infinite one is still a failed estimate
	_, _, err = Integrate(curveOf([]float64{0, 1, 2}, []float64{1, math.Inf(-1), 1}))
	assert.ErrorIs(t, err, common.ErrorComputation)

	// finite values whose sum overflows
	_, _, err = Integrate(curveOf([]float64{0, 1, 2}, []float64{math.MaxFloat64, math.MaxFloat64, 0}))
	assert.ErrorIs(t, err, common.ErrorComputation)
}
