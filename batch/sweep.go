package batch

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"dla/growth"
)

// DefaultOmegas 扫描的松弛因子，ω 必须在开区间 (1,2) 内
var DefaultOmegas = []float64{1.5, 1.55, 1.6, 1.65, 1.7, 1.75, 1.8, 1.85, 1.9, 1.95}

// SweepPoint is the outcome of one batch at one ω with or without adaptive
// reduction.
type SweepPoint struct {
	Omega                float64
	Adaptive             bool
	Runs                 int
	Failed               int
	NonConverged         int
	MeanSolverIterations float64
	StdSolverIterations  float64
}

// Sweep runs one batch per ω and adaptive setting, all batches starting from
// the same base seed, and reports how many runs failed and how many solver
// sweeps the successful ones needed.
func Sweep(ctx context.Context, cfg growth.Config, omegas []float64, opts Options) ([]SweepPoint, error) {
	if len(omegas) == 0 {
		omegas = DefaultOmegas
	}
	points := make([]SweepPoint, 0, 2*len(omegas))
	for _, omega := range omegas {
		for _, adaptive := range []bool{true, false} {
			c := cfg
			c.Omega = omega
			c.AdaptiveOmega = adaptive
			results, err := Execute(ctx, c, opts)
			if err != nil {
				return points, fmt.Errorf("omega %v: %w", omega, err)
			}
			s := Summarize(results)
			p := SweepPoint{
				Omega:                omega,
				Adaptive:             adaptive,
				Runs:                 s.Runs,
				Failed:               s.Failed,
				NonConverged:         s.NonConverged,
				MeanSolverIterations: s.MeanSolverIterations,
				StdSolverIterations:  s.StdSolverIterations,
			}
			log.WithFields(log.Fields{
				"omega":          omega,
				"adaptive":       adaptive,
				"failed":         p.Failed,
				"mean_iteration": p.MeanSolverIterations,
			}).Info("sweep point done")
			points = append(points, p)
		}
	}
	return points, nil
}
