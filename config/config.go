// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads solver settings from YAML and converts them into the
// options records of the solver packages.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/curioloop/interior/barrier"
	"github.com/curioloop/interior/krylov"
	"github.com/curioloop/interior/linesearch"
	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/newton"
	"github.com/curioloop/interior/objective"
)

// ErrInvalid reports a configuration value outside of its range.
var ErrInvalid = errors.New("config: invalid value")

// Barrier centering methods.
const (
	MethodNewton     = "newton"
	MethodLineSearch = "linesearch"
)

// Config holds the settings of every solver.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Trace      string           `yaml:"trace"`
	Krylov     KrylovConfig     `yaml:"krylov"`
	LineSearch LineSearchConfig `yaml:"line_search"`
	Newton     NewtonConfig     `yaml:"newton"`
	Barrier    BarrierConfig    `yaml:"barrier"`
}

// KrylovConfig holds conjugate gradient settings.
type KrylovConfig struct {
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
}

// LineSearchConfig holds nonlinear conjugate gradient settings.
type LineSearchConfig struct {
	GradientTolerance float64 `yaml:"gradient_tolerance"`
	MaxIterations     int     `yaml:"max_iterations"`
	Threshold         float64 `yaml:"threshold"`
	RestartInterval   int     `yaml:"restart_interval"`
}

// NewtonConfig holds truncated Newton settings.
type NewtonConfig struct {
	GradientTolerance float64 `yaml:"gradient_tolerance"`
	MaxIterations     int     `yaml:"max_iterations"`
	KrylovIterations  int     `yaml:"krylov_iterations"`
}

// BarrierConfig holds the barrier schedule and the centering method.
type BarrierConfig struct {
	DualityGap   float64 `yaml:"duality_gap"`
	InitialScale float64 `yaml:"initial_scale"`
	ScaleFactor  float64 `yaml:"scale_factor"`
	MaxStages    int     `yaml:"max_stages"`
	Method       string  `yaml:"method"`
	Jacobi       *bool   `yaml:"jacobi"`
}

// JacobiOrDefault returns whether to precondition with the Jacobi preconditioner;
// defaults to true when unset.
func (b *BarrierConfig) JacobiOrDefault() bool {
	if b.Jacobi != nil {
		return *b.Jacobi
	}
	return true
}

// Load reads, parses and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every value against the range accepted by its solver.
func (c *Config) Validate() error {
	bad := func(key string, v any) error {
		return fmt.Errorf("%s = %v: %w", key, v, ErrInvalid)
	}
	positive := func(v float64) bool { return v > 0 && !math.IsInf(v, 0) }
	switch {
	case !positive(c.Krylov.Tolerance):
		return bad("krylov.tolerance", c.Krylov.Tolerance)
	case c.Krylov.MaxIterations < 0:
		return bad("krylov.max_iterations", c.Krylov.MaxIterations)
	case !positive(c.LineSearch.GradientTolerance):
		return bad("line_search.gradient_tolerance", c.LineSearch.GradientTolerance)
	case c.LineSearch.MaxIterations < 0:
		return bad("line_search.max_iterations", c.LineSearch.MaxIterations)
	case !(c.LineSearch.Threshold > 0 && c.LineSearch.Threshold < 1):
		return bad("line_search.threshold", c.LineSearch.Threshold)
	case c.LineSearch.RestartInterval < 0:
		return bad("line_search.restart_interval", c.LineSearch.RestartInterval)
	case !positive(c.Newton.GradientTolerance):
		return bad("newton.gradient_tolerance", c.Newton.GradientTolerance)
	case c.Newton.MaxIterations < 0:
		return bad("newton.max_iterations", c.Newton.MaxIterations)
	case c.Newton.KrylovIterations < 0:
		return bad("newton.krylov_iterations", c.Newton.KrylovIterations)
	case !positive(c.Barrier.DualityGap):
		return bad("barrier.duality_gap", c.Barrier.DualityGap)
	case !positive(c.Barrier.InitialScale):
		return bad("barrier.initial_scale", c.Barrier.InitialScale)
	case !(c.Barrier.ScaleFactor > 1) || math.IsInf(c.Barrier.ScaleFactor, 0):
		return bad("barrier.scale_factor", c.Barrier.ScaleFactor)
	case c.Barrier.MaxStages <= 0:
		return bad("barrier.max_stages", c.Barrier.MaxStages)
	case c.Barrier.Method != MethodNewton && c.Barrier.Method != MethodLineSearch:
		return bad("barrier.method", c.Barrier.Method)
	}
	if _, ok := traceLevels[c.Trace]; !ok {
		return bad("trace", c.Trace)
	}
	return nil
}

var traceLevels = map[string]logging.Level{
	"none":  logging.LogNoop,
	"last":  logging.LogLast,
	"eval":  logging.LogEval,
	"trace": logging.LogTrace,
}

// Level returns the solver log level named by Trace.
func (c *Config) Level() logging.Level {
	if lvl, ok := traceLevels[c.Trace]; ok {
		return lvl
	}
	return logging.LogNoop
}

// KrylovOptions returns the options of krylov.Solve.
func (c *Config) KrylovOptions() *krylov.Options {
	return &krylov.Options{
		Tolerance:     c.Krylov.Tolerance,
		MaxIterations: c.Krylov.MaxIterations,
	}
}

// LineSearchOptions returns the options of linesearch.Minimize.
func (c *Config) LineSearchOptions() *linesearch.Options {
	return &linesearch.Options{
		StopCriterion:       objective.GradientNorm(c.LineSearch.GradientTolerance),
		MaxIterations:       c.LineSearch.MaxIterations,
		LineSearchThreshold: c.LineSearch.Threshold,
		RestartInterval:     c.LineSearch.RestartInterval,
	}
}

// NewtonOptions returns the options of newton.Minimize.
func (c *Config) NewtonOptions() *newton.Options {
	return &newton.Options{
		StopCriterion:    objective.GradientNorm(c.Newton.GradientTolerance),
		MaxIterations:    c.Newton.MaxIterations,
		KrylovIterations: c.Newton.KrylovIterations,
	}
}

func (c *Config) barrierOptions() barrier.Options {
	return barrier.Options{
		DualityGap:          c.Barrier.DualityGap,
		BarrierInitialScale: c.Barrier.InitialScale,
		BarrierScaleFactor:  c.Barrier.ScaleFactor,
		MaxStages:           c.Barrier.MaxStages,
	}
}

// BarrierLineSearchOptions returns the options of barrier.LineSearchMinimize.
func (c *Config) BarrierLineSearchOptions() *barrier.LineSearchOptions {
	return &barrier.LineSearchOptions{Options: c.barrierOptions(), Inner: *c.LineSearchOptions()}
}

// BarrierNewtonOptions returns the options of barrier.NewtonMinimize.
func (c *Config) BarrierNewtonOptions() *barrier.NewtonOptions {
	return &barrier.NewtonOptions{Options: c.barrierOptions(), Inner: *c.NewtonOptions()}
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
