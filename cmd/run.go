package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dla/analysis"
	"dla/export"
	"dla/growth"
)

var (
	runHistoryOut string
	runGridOut    string
	runFieldOut   string
	runWithField  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print its summary",
	RunE:  runSingle,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runHistoryOut, "history-out", "", "write the history as JSON lines to this file")
	f.StringVar(&runGridOut, "grid-out", "", "write the final aggregate as CSV to this file")
	f.StringVar(&runFieldOut, "field-out", "", "write the final concentration field as CSV to this file")
	f.BoolVar(&runWithField, "with-field", false, "include the concentration field in every history line")
}

func runSingle(cmd *cobra.Command, _ []string) error {
	cfg, err := growthConfig(conf)
	if err != nil {
		return err
	}
	h, runErr := growth.Run(cfg, nil)
	if h == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status:            %s\n", h.Status)
	fmt.Fprintf(out, "steps:             %d\n", h.Steps)
	fmt.Fprintf(out, "cells:             %d\n", h.Aggregate.Count())
	fmt.Fprintf(out, "height:            %d\n", analysis.Height(h.Aggregate))
	fmt.Fprintf(out, "solver iterations: %d\n", h.TotalSolverIterations)
	if runErr != nil {
		fmt.Fprintf(out, "error:             %v\n", runErr)
	}

	if runHistoryOut != "" {
		if err := export.SaveHistory(runHistoryOut, h, runWithField); err != nil {
			return err
		}
	}
	if runGridOut != "" {
		if err := export.SaveGridCSV(runGridOut, h.Aggregate); err != nil {
			return err
		}
	}
	if runFieldOut != "" {
		if err := export.SaveFieldCSV(runFieldOut, h.Field); err != nil {
			return err
		}
	}
	return runErr
}
