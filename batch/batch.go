// Package batch runs many independent simulations of one configuration in
// parallel and summarizes them.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"dla/analysis"
	"dla/growth"
	"dla/model"
)

var ErrInvalidOptions = errors.New("batch: invalid options")

// Options controls how many runs are made and how many execute at once.
type Options struct {
	Runs    int
	Workers int
	// HistoryLimit overrides the per-run snapshot limit; 0 keeps only the
	// last snapshot, batch results never need the whole history.
	HistoryLimit int
}

func (o Options) validate() error {
	if o.Runs <= 0 {
		return fmt.Errorf("%w: runs %d must be positive", ErrInvalidOptions, o.Runs)
	}
	if o.Workers <= 0 {
		return fmt.Errorf("%w: workers %d must be positive", ErrInvalidOptions, o.Workers)
	}
	if o.HistoryLimit < 0 {
		return fmt.Errorf("%w: history limit %d must not be negative", ErrInvalidOptions, o.HistoryLimit)
	}
	return nil
}

// Result is the outcome of one run of a batch.
type Result struct {
	ID    string
	Index int
	Seed  uint64

	Status                growth.Status
	Steps                 int
	TotalSolverIterations int
	Aggregate             *model.Grid
	Err                   error
	Elapsed               time.Duration
}

// Summary aggregates the results of one batch.
type Summary struct {
	Runs             int
	TopReached       int
	StepLimitReached int
	Failed           int
	// NonConverged 因求解失败（不收敛或数值发散）而失败的运行数
	NonConverged int

	// 成功运行的累计求解迭代次数的均值与总体标准差
	MeanSolverIterations float64
	StdSolverIterations  float64

	// Occupancy 所有未失败运行的最终聚集体的平均占据率，没有成功运行时为 nil
	Occupancy *model.Field
	Profile   *analysis.Profile
}

// Seeds derives one RNG seed per run from base. The sequence only depends on
// base, not on scheduling.
func Seeds(base uint64, runs int) []uint64 {
	rng := growth.NewRand(base)
	seeds := make([]uint64, runs)
	for i := range seeds {
		seeds[i] = rng.Uint64()
	}
	return seeds
}

// Execute runs opts.Runs independent simulations of cfg with at most
// opts.Workers at a time. A failing simulation is recorded in its Result and
// does not stop the batch; only a cancelled context does.
func Execute(ctx context.Context, cfg growth.Config, opts Options) ([]Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.HistoryLimit == 0 {
		opts.HistoryLimit = 1
	}
	cfg.HistoryLimit = opts.HistoryLimit
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seeds := Seeds(cfg.RngSeed, opts.Runs)
	results := make([]Result, opts.Runs)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Runs; i++ {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = runOne(cfg, i, seeds[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(cfg growth.Config, index int, seed uint64) Result {
	cfg.RngSeed = seed
	res := Result{
		ID:    uuid.NewString(),
		Index: index,
		Seed:  seed,
	}
	start := time.Now()
	h, err := growth.Run(cfg, nil)
	res.Elapsed = time.Since(start)
	if h == nil {
		res.Status = growth.StatusFailed
		res.Err = err
		return res
	}
	res.Status = h.Status
	res.Steps = h.Steps
	res.TotalSolverIterations = h.TotalSolverIterations
	res.Aggregate = h.Aggregate
	res.Err = err

	log.WithFields(log.Fields{
		"run":     res.ID,
		"index":   index,
		"status":  res.Status.String(),
		"steps":   res.Steps,
		"elapsed": res.Elapsed,
	}).Debug("batch run finished")
	return res
}

// Summarize counts the results per status and averages the successful ones.
func Summarize(results []Result) Summary {
	s := Summary{Runs: len(results)}
	iterations := make([]float64, 0, len(results))
	grids := make([]*model.Grid, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case growth.StatusTopReached:
			s.TopReached++
		case growth.StatusStepLimitReached:
			s.StepLimitReached++
		default:
			s.Failed++
			if growth.IsSolverFailure(r.Err) {
				s.NonConverged++
			}
			continue
		}
		iterations = append(iterations, float64(r.TotalSolverIterations))
		grids = append(grids, r.Aggregate)
	}
	if len(iterations) > 0 {
		s.MeanSolverIterations, s.StdSolverIterations = stat.PopMeanStdDev(iterations, nil)
	}
	if len(grids) > 0 {
		if occ, err := analysis.Occupancy(grids); err == nil {
			s.Occupancy = occ
		}
		if p, err := analysis.Analyze(grids); err == nil {
			s.Profile = &p
		}
	}
	return s
}

// Successful is the number of runs that did not fail.
func (s Summary) Successful() int {
	return s.Runs - s.Failed
}
