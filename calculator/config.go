package calculator

import (
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const DefaultConfigPath = "conf/config.ini"

type Config struct {
	// [simulation]
	GridSize            int
	Eta                 float64
	Omega               float64
	GrowthSteps         int
	DiffusionTolerance  float64
	MaxSolverIterations int
	AdaptiveOmega       bool
	OmegaStep           float64
	RngSeed             uint64
	HistoryLimit        int
	SeedRow             int // 负数表示从底部倒数
	SeedCol             int // 负数表示中间列

	// [server]
	Addr      string
	PushEvery int

	// [batch]
	Runs    int
	Workers int

	// [log]
	LogLevel string
	LogJSON  bool
}

// LoadConfig reads an ini file. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
		log.WithField("path", path).Warn("config file not found, using defaults")
		file = ini.Empty()
	}
	return loadCfg(file), nil
}

func DefaultConfig() Config {
	return loadCfg(ini.Empty())
}

func loadCfg(file *ini.File) Config {
	sim := file.Section("simulation")
	srv := file.Section("server")
	batch := file.Section("batch")
	logSec := file.Section("log")
	return Config{
		GridSize:            sim.Key("grid_size").MustInt(100),
		Eta:                 sim.Key("eta").MustFloat64(1),
		Omega:               sim.Key("omega").MustFloat64(1.85),
		GrowthSteps:         sim.Key("growth_steps").MustInt(10000),
		DiffusionTolerance:  sim.Key("diffusion_tolerance").MustFloat64(1e-9),
		MaxSolverIterations: sim.Key("max_solver_iterations").MustInt(100000),
		AdaptiveOmega:       sim.Key("adaptive_omega").MustBool(true),
		OmegaStep:           sim.Key("omega_step").MustFloat64(DefaultOmegaStep),
		RngSeed:             sim.Key("rng_seed").MustUint64(42),
		HistoryLimit:        sim.Key("history_limit").MustInt(0),
		SeedRow:             sim.Key("seed_row").MustInt(-2),
		SeedCol:             sim.Key("seed_col").MustInt(-1),

		Addr:      srv.Key("addr").MustString(":9000"),
		PushEvery: srv.Key("push_every").MustInt(1),

		Runs:    batch.Key("runs").MustInt(10),
		Workers: batch.Key("workers").MustInt(4),

		LogLevel: logSec.Key("level").MustString("info"),
		LogJSON:  logSec.Key("json").MustBool(false),
	}
}

// SolverParams 由配置生成求解参数
func (c Config) SolverParams() SolverParams {
	return SolverParams{
		Omega:         c.Omega,
		Tolerance:     c.DiffusionTolerance,
		MaxIterations: c.MaxSolverIterations,
		AdaptiveOmega: c.AdaptiveOmega,
		OmegaStep:     c.OmegaStep,
	}
}

// SetupLogger applies the [log] section to the standard logrus logger.
func (c Config) SetupLogger() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
