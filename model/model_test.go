package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestGridScoreArgMin(t *testing.T) {
	g := &GridScore{Values: [][]float64{
		{3, 1, 2},
		{1, 5, 1},
	}}
	i, j, ok := g.ArgMin()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, j)

	g = &GridScore{Values: [][]float64{
		{math.NaN(), 2},
		{-1, math.NaN()},
	}}
	i, j, ok = g.ArgMin()
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, 0, j)

	_, _, ok = (&GridScore{Values: [][]float64{{math.NaN()}}}).ArgMin()
	assert.False(t, ok)

	var empty *GridScore
	_, _, ok = empty.ArgMin()
	assert.False(t, ok)
}

func TestBandwidthSpecYaml(t *testing.T) {
	for _, tc := range []struct {
		doc  string
		want BandwidthSpec
	}{
		{"sigma: auto", AutoBandwidth()},
		{"sigma: AUTO", AutoBandwidth()},
		{"sigma: normal_reference", NormalReferenceBandwidth()},
		{"sigma: 0.5", FixedBandwidth(0.5)},
		{"sigma: [0.1, 0.2]", GridBandwidth(0.1, 0.2)},
	} {
		var doc struct {
			Sigma BandwidthSpec `yaml:"sigma"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(tc.doc), &doc), tc.doc)
		assert.Equal(t, tc.want, doc.Sigma, tc.doc)

		out, err := yaml.Marshal(doc)
		require.NoError(t, err)
		var back struct {
			Sigma BandwidthSpec `yaml:"sigma"`
		}
		require.NoError(t, yaml.Unmarshal(out, &back))
		assert.Equal(t, tc.want, back.Sigma, string(out))
	}

	var doc struct {
		Sigma BandwidthSpec `yaml:"sigma"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("sigma: {a: 1}"), &doc))
	assert.Error(t, yaml.Unmarshal([]byte("sigma: [a, b]"), &doc))
}

func TestTesResultDebugString(t *testing.T) {
	r := &TesResult{Tes: 0.5, Hyperparams: Hyperparams{Sigma: 0.1, Lambda: 0.01}, Seed: 3, KernelNum: 10}
	assert.Equal(t, "tes: 0.5, sigma=0.1 lambda=0.01, kernelNum: 10, seed: 3, curvePoints: 0", r.DebugString())

	var nilResult *TesResult
	assert.Equal(t, "<nil>", nilResult.DebugString())
}

func TestBandwidthSpecFromRule(t *testing.T) {
	assert.True(t, AutoBandwidth().FromRule())
	assert.True(t, NormalReferenceBandwidth().FromRule())
	assert.False(t, FixedBandwidth(0.1).FromRule())
	assert.False(t, GridBandwidth(0.1, 0.2).FromRule())
	assert.Equal(t, "normal_reference", BandwidthNormalReference.String())
}
