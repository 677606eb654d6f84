package calculator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `
[simulation]
grid_size = 64
eta = 2.5
omega = 1.7
adaptive_omega = false
rng_seed = 7

[server]
addr = :9100

[batch]
workers = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.GridSize)
	assert.Equal(t, 2.5, cfg.Eta)
	assert.Equal(t, 1.7, cfg.Omega)
	assert.False(t, cfg.AdaptiveOmega)
	assert.Equal(t, uint64(7), cfg.RngSeed)
	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, 2, cfg.Workers)

	// 未设置的键取默认值
	assert.Equal(t, 10000, cfg.GrowthSteps)
	assert.Equal(t, 1e-9, cfg.DiffusionTolerance)
	assert.Equal(t, 10, cfg.Runs)

	p := cfg.SolverParams()
	assert.Equal(t, 1.7, p.Omega)
	assert.Equal(t, 100000, p.MaxIterations)
	assert.NoError(t, p.Validate())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 100, cfg.GridSize)
	assert.Equal(t, 1.85, cfg.Omega)
	assert.True(t, cfg.AdaptiveOmega)
	assert.Equal(t, ":9000", cfg.Addr)
}
