package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"dla/batch"
	"dla/export"
)

var (
	batchRuns         int
	batchWorkers      int
	batchSweep        bool
	batchOmegas       []float64
	batchOccupancyOut string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run many independent simulations in parallel",
	Long: `batch runs the configured simulation several times with seeds derived from
the base seed and prints counts per final status, the solver effort of the
successful runs and optionally the averaged occupancy. With --sweep it
repeats the batch for every omega, with and without adaptive reduction.`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.IntVar(&batchRuns, "runs", 0, "number of runs, overrides [batch] runs")
	f.IntVar(&batchWorkers, "workers", 0, "runs executed at once, overrides [batch] workers")
	f.BoolVar(&batchSweep, "sweep", false, "sweep omega, adaptive and non-adaptive")
	f.Float64SliceVar(&batchOmegas, "omegas", nil, "omegas for --sweep")
	f.StringVar(&batchOccupancyOut, "occupancy-out", "", "write the averaged occupancy as CSV to this file")
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := growthConfig(conf)
	if err != nil {
		return err
	}
	opts := batch.Options{Runs: conf.Runs, Workers: conf.Workers}
	if cmd.Flags().Changed("runs") {
		opts.Runs = batchRuns
	}
	if cmd.Flags().Changed("workers") {
		opts.Workers = batchWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	out := cmd.OutOrStdout()

	if batchSweep {
		points, err := batch.Sweep(ctx, cfg, batchOmegas, opts)
		if err != nil {
			return err
		}
		printSweep(out, points)
		return nil
	}

	results, err := batch.Execute(ctx, cfg, opts)
	if err != nil {
		return err
	}
	s := batch.Summarize(results)
	printSummary(out, s)
	if batchOccupancyOut != "" && s.Occupancy != nil {
		return export.SaveFieldCSV(batchOccupancyOut, s.Occupancy)
	}
	return nil
}

func printSummary(w io.Writer, s batch.Summary) {
	fmt.Fprintf(w, "runs:               %d\n", s.Runs)
	fmt.Fprintf(w, "top reached:        %d\n", s.TopReached)
	fmt.Fprintf(w, "step limit reached: %d\n", s.StepLimitReached)
	fmt.Fprintf(w, "failed:             %d (solver %d)\n", s.Failed, s.NonConverged)
	if s.Successful() > 0 {
		fmt.Fprintf(w, "solver iterations:  %.1f ± %.1f\n", s.MeanSolverIterations, s.StdSolverIterations)
	}
	if s.Profile != nil {
		fmt.Fprintf(w, "mean height:        %.2f\n", s.Profile.MeanHeight)
	}
}

func printSweep(w io.Writer, points []batch.SweepPoint) {
	fmt.Fprintf(w, "%-6s %-9s %5s %7s %12s %10s\n", "omega", "adaptive", "runs", "failed", "iterations", "std")
	for _, p := range points {
		fmt.Fprintf(w, "%-6.3g %-9t %5d %7d %12.1f %10.1f\n",
			p.Omega, p.Adaptive, p.Runs, p.Failed, p.MeanSolverIterations, p.StdSolverIterations)
	}
}
