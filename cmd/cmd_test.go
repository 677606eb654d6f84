package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dla/export"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, Execute(), out.String())
	return out.String()
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `[simulation]
grid_size = 10
eta = 1
omega = 1.6
growth_steps = 4
diffusion_tolerance = 1e-7
max_solver_iterations = 20000
rng_seed = 3

[batch]
runs = 3
workers = 2

[log]
level = error
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	path := writeConfig(t)
	dir := t.TempDir()
	gridOut := filepath.Join(dir, "grid.csv")
	historyOut := filepath.Join(dir, "history.jsonl")

	out := execute(t, "run", "--config", path, "--grid-out", gridOut, "--history-out", historyOut)
	assert.Contains(t, out, "status:            step_limit_reached")
	assert.Contains(t, out, "steps:             4")
	assert.Contains(t, out, "cells:             5")

	f, err := os.Open(gridOut)
	require.NoError(t, err)
	defer f.Close()
	grid, err := export.ReadFieldCSV(f)
	require.NoError(t, err)
	assert.Equal(t, 10, grid.N)

	h, err := os.Open(historyOut)
	require.NoError(t, err)
	defer h.Close()
	records, err := export.ReadHistory(h)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestRunCommand_FlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t)
	out := execute(t, "run", "--config", path, "--steps", "2", "--grid-size", "12", "--grid-out=", "--history-out=")
	assert.Contains(t, out, "steps:             2")
	assert.Equal(t, 12, conf.GridSize)
	assert.Equal(t, 2, conf.GrowthSteps)
}

func TestBatchCommand(t *testing.T) {
	path := writeConfig(t)
	occ := filepath.Join(t.TempDir(), "occupancy.csv")
	out := execute(t, "batch", "--config", path, "--steps", "4", "--grid-size", "10", "--occupancy-out", occ)
	assert.Contains(t, out, "runs:               3")
	assert.Contains(t, out, "failed:             0")
	_, err := os.Stat(occ)
	assert.NoError(t, err)
}

func TestBatchCommand_Sweep(t *testing.T) {
	path := writeConfig(t)
	out := execute(t, "batch", "--config", path, "--steps", "4", "--grid-size", "10", "--sweep", "--omegas", "1.5,1.7", "--runs", "2")
	assert.Contains(t, out, "omega")
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "1.7")
}
