package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dla_runs_total",
		Help: "Finished simulation runs by final status",
	}, []string{"status"})

	growthStepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dla_growth_steps_total",
		Help: "Completed growth steps over all runs",
	})

	solverSweeps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dla_solver_sweeps",
		Help:    "Relaxation sweeps needed per growth step",
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	})

	omegaReductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dla_omega_reductions_total",
		Help: "Times the relaxation factor was lowered to keep the solver stable",
	})

	activeRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dla_active_runs",
		Help: "Runs currently in progress",
	})
)
