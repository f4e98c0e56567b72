package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/efficacy-score/model"
	"gopkg.in/yaml.v3"
)

const cohortsDoc = `
exp: [0.1, 0.3, 0.2, 0.5, 0.4, 0.6, 0.2, 0.3, 0.1, 0.4]
ctrl: [1.1, 1.5, 0.9, 1.3, 1.8, 1.2, 1.6, 1.0, 1.4, 1.7]
`

const configDoc = `
sigma: [0.1, 0.3]
lambda: [0.01, 0.1]
exp_label: treated
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	input := writeFile(t, "cohorts.yaml", cohortsDoc)
	cfg := writeFile(t, "tes.yaml", configDoc)

	out, err := runCmd(t, "score", "-i", input, "-c", cfg, "--seed", "42", "--fold", "2", "--diagnostics", "--digits", "4")
	require.NoError(t, err)

	var res model.TesResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, uint64(42), res.Seed)
	assert.Equal(t, "treated", res.ExpLabel)
	assert.Equal(t, 20, res.KernelNum)
	assert.Contains(t, []float64{0.1, 0.3}, res.Sigma)
	assert.Contains(t, []float64{0.01, 0.1}, res.Lambda)
	assert.Len(t, res.Curve, 1000)
	assert.Greater(t, res.Tes, 0.5)
	assert.LessOrEqual(t, res.Tes, 1.0)

	again, err := runCmd(t, "score", "-i", input, "-c", cfg, "--seed", "42", "--fold", "2", "--diagnostics", "--digits", "4")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestScoreCommandErrors(t *testing.T) {
	_, err := runCmd(t, "score")
	assert.Error(t, err)

	_, err = runCmd(t, "score", "-i", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	input := writeFile(t, "cohorts.yaml", cohortsDoc)
	_, err = runCmd(t, "score", "-i", input, "--fold", "1")
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "fold: [1")
	_, err = runCmd(t, "score", "-i", input, "-c", bad)
	assert.Error(t, err)
}
