package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/kde"
	"github.com/uyouii/efficacy-score/lsdd"
	"github.com/uyouii/efficacy-score/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Fold)
	assert.Equal(t, model.BandwidthGrid, cfg.Sigma.Kind)
	assert.Len(t, cfg.Sigma.Values, 50)
	assert.Len(t, cfg.Lambda, 50)
	assert.Nil(t, cfg.Seed)
	assert.Equal(t, 1000, cfg.EvalPoints)
	assert.Equal(t, 1000, cfg.MaxKernels)
	assert.IsType(t, &lsdd.ConjugateGradient{}, cfg.NewSolver())
}

func TestParse(t *testing.T) {
	t.Run("auto bandwidth", func(t *testing.T) {
		cfg, err := Parse([]byte(`
fold: 4
sigma: auto
seed: 42
solver: cholesky
diagnostics: true
exp_label: treated
`))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Fold)
		assert.Equal(t, model.AutoBandwidth(), cfg.Sigma)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, uint64(42), *cfg.Seed)
		assert.Equal(t, lsdd.Cholesky{}, cfg.NewSolver())
		assert.True(t, cfg.Diagnostics)
		assert.Equal(t, "treated", cfg.ExpLabel)
		assert.Equal(t, "ctrl", cfg.CtrlLabel)
		// untouched keys keep their defaults
		assert.Equal(t, kde.DefaultLambdaGrid(), cfg.Lambda)
	})

	t.Run("normal reference bandwidth", func(t *testing.T) {
		cfg, err := Parse([]byte("sigma: normal_reference\n"))
		require.NoError(t, err)
		assert.Equal(t, model.NormalReferenceBandwidth(), cfg.Sigma)
	})

	t.Run("fixed bandwidth", func(t *testing.T) {
		cfg, err := Parse([]byte("sigma: 0.25\nlambda: [0.01, 0.1]\n"))
		require.NoError(t, err)
		assert.Equal(t, model.FixedBandwidth(0.25), cfg.Sigma)
		assert.Equal(t, []float64{0.01, 0.1}, cfg.Lambda)
	})

	t.Run("bandwidth grid", func(t *testing.T) {
		cfg, err := Parse([]byte("sigma:\n  - 0.1\n  - 0.5\n  - 1\n"))
		require.NoError(t, err)
		assert.Equal(t, model.GridBandwidth(0.1, 0.5, 1), cfg.Sigma)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, tc := range []struct {
			doc  string
			want error
		}{
			{"fold: 1", common.ErrorInvalidFold},
			{"lambda: []", common.ErrorEmptyGrid},
			{"sigma: [0.1, -0.1]", common.ErrorInvalidGrid},
			{"solver: qr", common.ErrorInvalidValue},
			{"eval_points: 1", common.ErrorInvalidValue},
			{"max_kernels: 0", common.ErrorInvalidValue},
			{"workers: -2", common.ErrorInvalidValue},
		} {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.want, tc.doc)
		}

		_, err := Parse([]byte("sigma: wide"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fold: 3\nworkers: 2\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Fold)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWithSeed(t *testing.T) {
	cfg := Default().WithSeed(7)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
}
