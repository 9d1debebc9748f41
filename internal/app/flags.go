package app

import "flag"

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	ConfigPath string

	NoCache     bool
	SerialBuild bool
	Workers     int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "sand", Scale: 3, TPS: 60, Seed: 42}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file for the simulation")
	fs.BoolVar(&c.NoCache, "nocache", c.NoCache, "re-derive neighborhood queries from the raw grid")
	fs.BoolVar(&c.SerialBuild, "serial", c.SerialBuild, "build the neighborhood cache single-threaded")
	fs.IntVar(&c.Workers, "workers", c.Workers, "worker count for parallel cache builds (0 = all CPUs)")
}
