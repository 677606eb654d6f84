package growth

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"

	"dla/calculator"
	"dla/model"
	"dla/seed"
)

type Status int

const (
	StatusRunning Status = iota
	StatusTopReached
	StatusStepLimitReached
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusTopReached:
		return "top_reached"
	case StatusStepLimitReached:
		return "step_limit_reached"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Config is the run configuration.
type Config struct {
	GridSize            int
	Eta                 float64
	Omega               float64
	GrowthSteps         int
	DiffusionTolerance  float64
	MaxSolverIterations int
	AdaptiveOmega       bool
	OmegaStep           float64
	RngSeed             uint64

	// Seed 初始聚集体，nil 时使用 seed.Default
	Seed *model.Grid
	// HistoryLimit 只保留最近的若干快照，0 表示全部保留
	HistoryLimit int
}

func (c Config) solverParams() calculator.SolverParams {
	return calculator.SolverParams{
		Omega:         c.Omega,
		Tolerance:     c.DiffusionTolerance,
		MaxIterations: c.MaxSolverIterations,
		AdaptiveOmega: c.AdaptiveOmega,
		OmegaStep:     c.OmegaStep,
	}
}

func (c Config) Validate() error {
	if c.GridSize < 3 {
		return fmt.Errorf("%w: grid size %d must be at least 3", ErrInvalidConfig, c.GridSize)
	}
	if !(c.Eta >= 0) || math.IsInf(c.Eta, 0) {
		return fmt.Errorf("%w: eta %v must be a finite non-negative number", ErrInvalidConfig, c.Eta)
	}
	if c.GrowthSteps <= 0 {
		return fmt.Errorf("%w: growth steps %d must be positive", ErrInvalidConfig, c.GrowthSteps)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: history limit %d must not be negative", ErrInvalidConfig, c.HistoryLimit)
	}
	if err := c.solverParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Seed != nil {
		if c.Seed.N != c.GridSize {
			return fmt.Errorf("%w: seed size %d does not match grid size %d", ErrInvalidConfig, c.Seed.N, c.GridSize)
		}
		if err := seed.Validate(c.Seed); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// NewRand 每次运行独立持有的随机数生成器
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Driver runs the solve → select → grow cycle. It is not safe for
// concurrent use; independent runs use independent drivers.
type Driver struct {
	cfg    Config
	params calculator.SolverParams
	rng    *rand.Rand

	aggregate *model.Grid
	frontier  *Frontier
	// field 为最近一次成功求解的浓度场，work 为求解时使用的工作区
	field   *model.Field
	work    *model.Field
	weights []float64

	status  Status
	history *History
	logger  *log.Entry
}

// NewDriver validates cfg and prepares a run. A nil rng is replaced by
// NewRand(cfg.RngSeed).
func NewDriver(cfg Config, rng *rand.Rand) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	aggregate := cfg.Seed
	if aggregate == nil {
		var err error
		if aggregate, err = seed.Default(cfg.GridSize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	aggregate = aggregate.Clone()
	if rng == nil {
		rng = NewRand(cfg.RngSeed)
	}

	d := &Driver{
		cfg:       cfg,
		params:    cfg.solverParams(),
		rng:       rng,
		aggregate: aggregate,
		frontier:  NewFrontier(aggregate),
		field:     model.NewField(cfg.GridSize),
		work:      model.NewField(cfg.GridSize),
		status:    StatusRunning,
		history:   newHistory(cfg.HistoryLimit, aggregate),
		logger: log.WithFields(log.Fields{
			"grid_size": cfg.GridSize,
			"eta":       cfg.Eta,
			"omega":     cfg.Omega,
		}),
	}
	d.history.Aggregate = d.aggregate
	d.history.Field = d.field
	return d, nil
}

func (d *Driver) Status() Status         { return d.status }
func (d *Driver) History() *History      { return d.history }
func (d *Driver) Aggregate() *model.Grid { return d.aggregate }
func (d *Driver) Field() *model.Field    { return d.field }
func (d *Driver) Frontier() *Frontier    { return d.frontier }

// Step performs one growth step and returns its snapshot. After a terminal
// state every call returns ErrFinished.
func (d *Driver) Step() (Snapshot, error) {
	if d.status != StatusRunning {
		return Snapshot{}, ErrFinished
	}
	step := d.history.Steps + 1

	// 1. 以当前聚集体为汇求解浓度场，上一步的场作为初值
	copy(d.work.Data, d.field.Data)
	res, err := calculator.Solve(d.work, d.aggregate, d.params)
	d.history.TotalSolverIterations += res.Iterations
	if err != nil {
		return Snapshot{}, d.fail(step, err)
	}
	if res.Reductions > 0 {
		d.logger.WithFields(log.Fields{
			"step":       step,
			"reductions": res.Reductions,
			"final":      res.Omega,
		}).Warn("omega reduced to keep the solver stable")
	}
	d.field, d.work = d.work, d.field
	d.history.Field = d.field

	// 2. 求解过冲产生的负值置零
	clampNegative(d.field)

	// 3. 计算权重并选择生长位置
	d.weights = Weights(d.weights, d.field, d.frontier.Grid(), d.cfg.Eta)
	sel, err := pick(d.weights, d.cfg.GridSize, d.rng)
	if err != nil {
		return Snapshot{}, d.fail(step, err)
	}

	// 4. 生长并增量更新前沿
	d.aggregate.Set(sel.Cell.Row, sel.Cell.Col, true)
	d.frontier.Grow(d.aggregate, sel.Cell)
	d.history.Steps = step

	// 5. 记录快照
	snap := Snapshot{
		Step:             step,
		Cell:             sel.Cell,
		Aggregate:        d.aggregate.Clone(),
		Field:            d.field.Clone(),
		SolverIterations: res.Iterations,
		Residual:         res.Residual,
		Omega:            res.Omega,
		Reductions:       res.Reductions,
	}
	d.history.record(snap)

	d.logger.WithFields(log.Fields{
		"step":       step,
		"row":        sel.Cell.Row,
		"col":        sel.Cell.Col,
		"iterations": res.Iterations,
	}).Debug("grown")

	// 6. 终止判断
	switch {
	case sel.ReachedTop:
		d.finish(StatusTopReached, step)
	case step >= d.cfg.GrowthSteps:
		d.finish(StatusStepLimitReached, step)
	}
	return snap, nil
}

// Run steps until a terminal state. The returned error is the failure cause
// when the run ends in StatusFailed.
func (d *Driver) Run() (*History, error) {
	for d.status == StatusRunning {
		if _, err := d.Step(); err != nil {
			return d.history, err
		}
	}
	return d.history, d.history.Err
}

func (d *Driver) finish(status Status, step int) {
	d.status = status
	d.history.Status = status
	d.history.TerminationStep = step
	d.logger.WithFields(log.Fields{
		"status":            status.String(),
		"steps":             step,
		"solver_iterations": d.history.TotalSolverIterations,
	}).Info("run finished")
}

func (d *Driver) fail(step int, err error) error {
	err = &StepError{Step: step, Err: err}
	d.history.Err = err
	d.finish(StatusFailed, step)
	d.logger.WithError(err).Error("run failed")
	return err
}

func clampNegative(f *model.Field) {
	for k, v := range f.Data {
		if v < 0 {
			f.Data[k] = 0
		}
	}
}

// Run is the single entry point for one simulation.
func Run(cfg Config, rng *rand.Rand) (*History, error) {
	d, err := NewDriver(cfg, rng)
	if err != nil {
		return nil, err
	}
	return d.Run()
}

// IsSolverFailure reports whether err came from the field solver.
func IsSolverFailure(err error) bool {
	return errors.Is(err, calculator.ErrConvergenceFailure) || errors.Is(err, calculator.ErrInstability)
}
