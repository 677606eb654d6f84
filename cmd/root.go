// Package cmd holds the dla command line: run, batch and serve.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"dla/calculator"
	"dla/growth"
	"dla/seed"
)

var (
	configPath string
	// 读取配置文件并应用命令行覆盖之后的配置
	conf calculator.Config

	flagGridSize      int
	flagEta           float64
	flagOmega         float64
	flagSteps         int
	flagTolerance     float64
	flagMaxIterations int
	flagAdaptive      bool
	flagRngSeed       uint64
	flagHistoryLimit  int
	flagLogLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "dla",
	Short: "Diffusion-limited aggregation driven by a relaxed Laplace field",
	Long: `dla grows an aggregate on a square lattice. Every step solves the steady
concentration field with SOR, picks a frontier cell with probability
proportional to concentration^eta and attaches it.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConf,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&configPath, "config", "c", calculator.DefaultConfigPath, "ini configuration file")
	f.IntVar(&flagGridSize, "grid-size", 0, "lattice size N")
	f.Float64Var(&flagEta, "eta", 0, "growth exponent")
	f.Float64Var(&flagOmega, "omega", 0, "SOR relaxation factor in (1,2)")
	f.IntVar(&flagSteps, "steps", 0, "maximum growth steps")
	f.Float64Var(&flagTolerance, "tolerance", 0, "solver convergence tolerance")
	f.IntVar(&flagMaxIterations, "max-iterations", 0, "solver sweep cap per step")
	f.BoolVar(&flagAdaptive, "adaptive", true, "lower omega when the residual grows")
	f.Uint64Var(&flagRngSeed, "seed", 0, "random seed")
	f.IntVar(&flagHistoryLimit, "history-limit", 0, "keep only the most recent snapshots, 0 keeps all")
	f.StringVar(&flagLogLevel, "log-level", "", "log level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
}

func loadConf(cmd *cobra.Command, _ []string) error {
	c, err := calculator.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), &c)
	c.SetupLogger()
	conf = c
	return nil
}

// applyFlags 只有显式给出的参数才覆盖配置文件
func applyFlags(f *pflag.FlagSet, c *calculator.Config) {
	if f.Changed("grid-size") {
		c.GridSize = flagGridSize
	}
	if f.Changed("eta") {
		c.Eta = flagEta
	}
	if f.Changed("omega") {
		c.Omega = flagOmega
	}
	if f.Changed("steps") {
		c.GrowthSteps = flagSteps
	}
	if f.Changed("tolerance") {
		c.DiffusionTolerance = flagTolerance
	}
	if f.Changed("max-iterations") {
		c.MaxSolverIterations = flagMaxIterations
	}
	if f.Changed("adaptive") {
		c.AdaptiveOmega = flagAdaptive
	}
	if f.Changed("seed") {
		c.RngSeed = flagRngSeed
	}
	if f.Changed("history-limit") {
		c.HistoryLimit = flagHistoryLimit
	}
	if f.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
}

// growthConfig builds the run configuration with the configured point seed.
func growthConfig(c calculator.Config) (growth.Config, error) {
	g, err := seed.Point(c.GridSize, c.SeedRow, c.SeedCol)
	if err != nil {
		return growth.Config{}, err
	}
	return growth.Config{
		GridSize:            c.GridSize,
		Eta:                 c.Eta,
		Omega:               c.Omega,
		GrowthSteps:         c.GrowthSteps,
		DiffusionTolerance:  c.DiffusionTolerance,
		MaxSolverIterations: c.MaxSolverIterations,
		AdaptiveOmega:       c.AdaptiveOmega,
		OmegaStep:           c.OmegaStep,
		RngSeed:             c.RngSeed,
		Seed:                g,
		HistoryLimit:        c.HistoryLimit,
	}, nil
}
