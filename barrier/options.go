// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package barrier solves inequality constrained problems
//
//	minimize 𝒇(𝐱) subject to 𝒇𝒄ᵢ(𝐱) ≤ 0, i = 1…m
//
// by the logarithmic barrier interior point method.
//
// For an increasing barrier scale t = t₀, t₀μ, t₀μ², … the centering problem
//
//	minimize 𝒇(𝐱) + φ(𝐱)/t,  φ(𝐱) = −Σ log(−𝒇𝒄ᵢ(𝐱))
//
// is solved from the previous center, either by nonlinear conjugate gradient
// (package linesearch) or by truncated Newton (package newton). Each center
// yields dual feasible multipliers λᵢ = −1/(t·𝒇𝒄ᵢ(𝐱)) with a duality gap of m/t,
// and the path is followed until the gap falls below the requested target.
//
// Every iterate stays strictly feasible, so the initial point must be too.
//
// # Reference:
//
//   - Boyd & Vandenberghe, Convex Optimization, §11.3 (the barrier method)
//   - Nocedal & Wright, Numerical Optimization, §19.6 (barrier methods)
package barrier

import (
	"errors"
	"math"

	"github.com/curioloop/interior/linesearch"
	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/newton"
	"github.com/curioloop/interior/vector"
)

var (
	// ErrInfeasibleStart reports an initial point that is not strictly feasible.
	ErrInfeasibleStart = errors.New("barrier: initial point is not strictly feasible")
	// ErrNoConstraints reports a missing or empty constraint family.
	ErrNoConstraints = errors.New("barrier: no constraints")
	// ErrBadSchedule reports an invalid duality gap target or barrier schedule.
	ErrBadSchedule = errors.New("barrier: invalid barrier schedule")
	// ErrIncompleteBarrier reports a manual barrier without a required callable.
	ErrIncompleteBarrier = errors.New("barrier: incomplete manual barrier")
)

const (
	defaultDualityGap   = 1e-8
	defaultInitialScale = 1.0
	defaultScaleFactor  = 10.0
	defaultMaxStages    = 64
)

// Options configures the barrier schedule. The zero value selects the defaults.
type Options struct {
	// The path following stop when the duality gap m/t falls below DualityGap (default 1e-8).
	DualityGap float64
	// Barrier scale t of the first stage (default 1).
	BarrierInitialScale float64
	// Growth μ > 1 of the barrier scale between stages (default 10).
	BarrierScaleFactor float64
	// The path following stop when the number of stages reaches limit (default 64).
	MaxStages int
	// Optional tracing of the stages.
	Logger *logging.Logger
}

// LineSearchOptions configures LineSearchMinimize.
// Inner is applied to every centering problem.
type LineSearchOptions struct {
	Options
	Inner linesearch.Options
}

// NewtonOptions configures NewtonMinimize.
// Inner is applied to every centering problem.
type NewtonOptions struct {
	Options
	Inner newton.Options
}

func (o *Options) normalize() error {
	switch {
	case o.DualityGap < 0 || math.IsNaN(o.DualityGap):
		return ErrBadSchedule
	case o.BarrierInitialScale < 0 || math.IsNaN(o.BarrierInitialScale) || math.IsInf(o.BarrierInitialScale, 0):
		return ErrBadSchedule
	case o.BarrierScaleFactor != 0 && !(o.BarrierScaleFactor > 1):
		return ErrBadSchedule
	case o.MaxStages < 0:
		return ErrBadSchedule
	}
	if o.DualityGap == 0 {
		o.DualityGap = defaultDualityGap
	}
	if o.BarrierInitialScale == 0 {
		o.BarrierInitialScale = defaultInitialScale
	}
	if o.BarrierScaleFactor == 0 {
		o.BarrierScaleFactor = defaultScaleFactor
	}
	if o.MaxStages == 0 {
		o.MaxStages = defaultMaxStages
	}
	return nil
}

// Certificate is the outcome of a constrained minimization.
//
// Optimum is primal feasible and Lambda dual feasible, so 𝒇(Optimum) − g(Lambda)
// is bounded by Gap, where g is the Lagrange dual function.
type Certificate struct {
	OK      bool          // Whether the duality gap target was reached.
	Optimum vector.Vector // Last center of the path.
	Lambda  vector.Vector // Lagrange multipliers at Optimum.
	Gap     float64       // Duality gap m/t of the last stage.
	Stages  []Stage       // Every stage of the path, in order.
}

// Stage summarizes one centering problem.
type Stage struct {
	T         float64 // Barrier scale.
	Gap       float64 // Duality gap m/t.
	Converged bool    // Whether the inner minimizer converged.
	Status    string  // Termination status of the inner minimizer.
	NumIter   int     // Inner iterations.
}
