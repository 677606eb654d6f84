package growth

import (
	"errors"
	"math"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dla/calculator"
	"dla/model"
	"dla/seed"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.ErrorLevel)
	os.Exit(m.Run())
}

func testConfig(n int) Config {
	return Config{
		GridSize:            n,
		Eta:                 1,
		Omega:               1.5,
		GrowthSteps:         50,
		DiffusionTolerance:  1e-9,
		MaxSolverIterations: 100000,
		AdaptiveOmega:       true,
		RngSeed:             42,
	}
}

// 5×5 网格，种子在 (3,2)：一定会在 50 步之内长到第 0 行
func TestRun_ReachesTop(t *testing.T) {
	cfg := testConfig(5)
	g, err := seed.Point(5, 3, 2)
	require.NoError(t, err)
	cfg.Seed = g

	h, err := Run(cfg, NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, StatusTopReached, h.Status)
	assert.LessOrEqual(t, h.Steps, 50)
	assert.Equal(t, h.Steps, h.TerminationStep)
	assert.Equal(t, h.Steps, h.CellsAdded())
	assert.Equal(t, h.Steps, h.Snapshots.Size())
	assert.Greater(t, h.TotalSolverIterations, 0)

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 0, last.Cell.Row)
	assert.True(t, h.Aggregate.Has(last.Cell.Row, last.Cell.Col))

	// 种子本身没有被修改
	assert.Equal(t, 1, g.Count())
}

func TestDriver_OneCellPerStepAndFrontierConsistent(t *testing.T) {
	cfg := testConfig(30)
	cfg.Eta = 2
	cfg.Omega = 1.7
	cfg.GrowthSteps = 120

	d, err := NewDriver(cfg, nil)
	require.NoError(t, err)

	prev := d.Aggregate().Clone()
	for d.Status() == StatusRunning {
		snap, err := d.Step()
		require.NoError(t, err)

		agg := d.Aggregate()
		require.Equal(t, prev.Count()+1, agg.Count(), "step %d", snap.Step)
		for k, v := range prev.Cells {
			if v {
				require.True(t, agg.Cells[k], "stuck cell %d was lost at step %d", k, snap.Step)
			}
		}
		require.False(t, prev.Has(snap.Cell.Row, snap.Cell.Col))
		require.True(t, agg.Has(snap.Cell.Row, snap.Cell.Col))

		fresh := NewFrontier(agg)
		require.True(t, fresh.Grid().Equal(d.Frontier().Grid()), "frontier drifted at step %d", snap.Step)

		// 聚集体格子上的浓度为 0
		for k, v := range agg.Cells {
			if v && k/cfg.GridSize < cfg.GridSize-1 && !(k == snap.Cell.Row*cfg.GridSize+snap.Cell.Col) {
				require.Equal(t, 0.0, snap.Field.Data[k])
			}
		}
		prev = agg.Clone()
	}

	h := d.History()
	assert.Contains(t, []Status{StatusTopReached, StatusStepLimitReached}, h.Status)
	assert.Equal(t, h.Steps, h.CellsAdded())

	_, err = d.Step()
	assert.True(t, errors.Is(err, ErrFinished))
}

func TestRun_StepLimit(t *testing.T) {
	cfg := testConfig(40)
	cfg.Omega = 1.8
	cfg.GrowthSteps = 5

	h, err := Run(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusStepLimitReached, h.Status)
	assert.Equal(t, 5, h.Steps)
	assert.Equal(t, 5, h.TerminationStep)
	assert.Equal(t, 6, h.Aggregate.Count())
}

func TestRun_Deterministic(t *testing.T) {
	cfg := testConfig(15)
	cfg.GrowthSteps = 30

	a, err := Run(cfg, NewRand(99))
	require.NoError(t, err)
	b, err := Run(cfg, NewRand(99))
	require.NoError(t, err)

	require.Equal(t, a.Steps, b.Steps)
	a.Snapshots.Traverse(func(i int, s Snapshot) {
		assert.Equal(t, s.Cell, b.Snapshots.Get(i).Cell)
	})
	assert.True(t, a.Aggregate.Equal(b.Aggregate))
	assert.Equal(t, a.TotalSolverIterations, b.TotalSolverIterations)
}

func TestRun_HistoryLimit(t *testing.T) {
	cfg := testConfig(15)
	cfg.GrowthSteps = 12
	cfg.HistoryLimit = 3

	h, err := Run(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 3, h.Snapshots.Size())
	last, _ := h.Last()
	assert.Equal(t, h.Steps, last.Step)
	assert.Equal(t, h.Steps-2, h.Snapshots.Get(0).Step)
}

// ω=1.99 不自适应、大面积汇：求解发散，运行失败且不暴露非有限值
func TestRun_SolverInstabilityFailsRun(t *testing.T) {
	const n = 40
	g := model.NewGrid(n)
	for i := n / 2; i < n-1; i++ {
		for j := 0; j < n; j++ {
			if j%4 != 0 {
				g.Set(i, j, true)
			}
		}
	}
	cfg := testConfig(n)
	cfg.Omega = 1.99
	cfg.AdaptiveOmega = false
	cfg.DiffusionTolerance = 1e-5
	cfg.Seed = g

	h, err := Run(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, calculator.ErrInstability))
	assert.True(t, IsSolverFailure(err))

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Step)

	assert.Equal(t, StatusFailed, h.Status)
	assert.NotEqual(t, StatusTopReached, h.Status)
	assert.Equal(t, 0, h.Steps)
	assert.Equal(t, g.Count(), h.Aggregate.Count())
	for _, v := range h.Field.Data {
		require.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestRun_ConvergenceFailureFailsRun(t *testing.T) {
	cfg := testConfig(30)
	cfg.MaxSolverIterations = 2

	h, err := Run(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, calculator.ErrConvergenceFailure))
	assert.Equal(t, StatusFailed, h.Status)
	assert.Equal(t, 2, h.TotalSolverIterations)
}

func TestNewDriver_InvalidConfig(t *testing.T) {
	bad := []func(c *Config){
		func(c *Config) { c.GridSize = 2 },
		func(c *Config) { c.Eta = -1 },
		func(c *Config) { c.Eta = math.NaN() },
		func(c *Config) { c.Omega = 2 },
		func(c *Config) { c.GrowthSteps = 0 },
		func(c *Config) { c.DiffusionTolerance = 0 },
		func(c *Config) { c.HistoryLimit = -1 },
		func(c *Config) { c.Seed = model.NewGrid(10) },
		func(c *Config) { c.Seed = model.NewGrid(5) },
	}
	for i, mutate := range bad {
		cfg := testConfig(5)
		mutate(&cfg)
		_, err := NewDriver(cfg, nil)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "case %d: %v", i, err)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "top_reached", StatusTopReached.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
