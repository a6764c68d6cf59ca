// Package config holds the tunable parameters of the analytics tools.
// Library packages take these values explicitly; only the CLIs and batch
// runner read them from a file.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/meenmo/bondlib/solver"
)

// Config holds solver and batch parameters.
type Config struct {
	// Tolerance is the residual tolerance for every root-finding solve.
	Tolerance float64

	// MaxIterations bounds each solve's iteration count.
	MaxIterations int

	// CurveShiftBP is the parallel shift used by effective duration and
	// convexity.
	CurveShiftBP float64

	// Workers is the batch fan-out width. Zero means GOMAXPROCS.
	Workers int
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	Tolerance:     1e-10,
	MaxIterations: 100,
	CurveShiftBP:  10,
	Workers:       0,
}

// SolverConfig converts to the solver package's value object.
func (c Config) SolverConfig() solver.Config {
	return solver.Config{Tolerance: c.Tolerance, MaxIterations: c.MaxIterations}
}

// Load reads a config file (YAML, TOML or JSON by extension), applying
// defaults for any key not present. An empty path returns DefaultConfig.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig, nil
	}

	v := viper.New()
	v.SetDefault("tolerance", DefaultConfig.Tolerance)
	v.SetDefault("max_iterations", DefaultConfig.MaxIterations)
	v.SetDefault("curve_shift_bp", DefaultConfig.CurveShiftBP)
	v.SetDefault("workers", DefaultConfig.Workers)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	c := Config{
		Tolerance:     v.GetFloat64("tolerance"),
		MaxIterations: v.GetInt("max_iterations"),
		CurveShiftBP:  v.GetFloat64("curve_shift_bp"),
		Workers:       v.GetInt("workers"),
	}
	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.CurveShiftBP <= 0 {
		return fmt.Errorf("curve_shift_bp must be positive, got %g", c.CurveShiftBP)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
