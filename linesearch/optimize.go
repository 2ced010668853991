// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linesearch minimizes smooth functions by the nonlinear conjugate
// gradient method with a Moré–Thuente line search.
//
// Search directions follow the Polak–Ribière+ rule on the (optionally
// preconditioned) gradient. The method falls back to steepest descent when
// the update coefficient is negative, every RestartInterval iterations, when
// successive gradients lose orthogonality (Powell) or when the direction is
// not a descent direction.
//
// The line search never leaves the domain of the objective: a trial step that
// is out of domain, or on which the objective is not finite, halves the upper
// bound of the step and restarts the search.
//
// # Reference:
//
//   - Polak & Ribière, Note sur la convergence de méthodes de directions conjuguées (1969)
//   - Powell, Restart procedures for the conjugate gradient method (1977)
//   - Nocedal & Wright, Numerical Optimization, §5.2 (nonlinear conjugate gradient)
package linesearch

import (
	"errors"
	"math"

	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

var (
	// ErrNilObjective reports a missing objective or gradient.
	ErrNilObjective = errors.New("linesearch: nil objective or gradient")
	// ErrInfeasibleStart reports an initial point that is out of domain
	// or where the objective or its gradient is not finite.
	ErrInfeasibleStart = errors.New("linesearch: initial point out of domain")
	// ErrBadOptions reports an option outside of its valid range.
	ErrBadOptions = errors.New("linesearch: invalid options")
)

const (
	defaultGradientTolerance = 1e-8
	defaultThreshold         = 0.1
)

const (
	searchAlpha   = 1e-4
	searchEps     = 1e-12
	searchNoBnd   = 1e10
	searchMaxEval = 100
	powellRatio   = 0.2
)

// Status describes why the iteration stopped.
type Status int

const (
	// Converged the stopping criterion holds at the final iterate.
	Converged Status = iota
	// IterationLimit the iteration budget was exhausted.
	IterationLimit
	// LineSearchFailed no decrease was found along the steepest descent direction.
	LineSearchFailed
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit"
	case LineSearchFailed:
		return "line search failed"
	}
	return "unknown"
}

// Options configures a minimization. The zero value selects the defaults.
type Options struct {
	// Convergence test on the gradient (default ‖g‖₂ < 1e-8).
	StopCriterion objective.StoppingCriterion
	// The iteration stop when the number of iteration reaches limit (default max(10n, 1000)).
	MaxIterations int
	// Curvature tolerance β of the strong Wolfe condition |φ′(λ)| ≤ β·|φ′(0)|
	// (default 0.1). Smaller values ask for a more exact line search.
	LineSearchThreshold float64
	// Number of iterations between steepest descent restarts (default n).
	RestartInterval int
	// Optional approximation of the inverse Hessian evaluated at each iterate.
	Preconditioner objective.TensorFunc
	// Optional domain of the objective. Iterates never leave it.
	OutOfDomain objective.FeasibilityPredicate
	// Optional tracing.
	Logger *logging.Logger
}

// Result contains the final result of a minimization.
type Result struct {
	OK      bool          // Whether the minimization converged.
	F       float64       // Final function value.
	X, G    vector.Vector // Final solution and gradient.
	Summary               // Minimization summary.
}

// Summary contains a summary of a minimization.
type Summary struct {
	Status  Status // Reason of termination.
	NumIter int    // Number of iterations performed.
	NumEval int    // Number of function and gradient evaluations performed.
}

// Minimize searches a local minimum of f starting from w0, where df is the gradient of f.
// The initial point must lie in the domain given by Options.OutOfDomain.
func Minimize(f objective.ScalarFunc, df objective.VectorFunc, w0 vector.Vector, opts *Options) (*Result, error) {

	var o Options
	if opts != nil {
		o = *opts
	}

	n := len(w0)
	switch {
	case f == nil || df == nil:
		return nil, ErrNilObjective
	case o.MaxIterations < 0 || o.RestartInterval < 0:
		return nil, ErrBadOptions
	case o.LineSearchThreshold < 0 || o.LineSearchThreshold >= 1 || math.IsNaN(o.LineSearchThreshold):
		return nil, ErrBadOptions
	}

	if o.StopCriterion == nil {
		o.StopCriterion = objective.GradientNorm(defaultGradientTolerance)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = max(10*n, 1000)
	}
	if o.LineSearchThreshold == 0 {
		o.LineSearchThreshold = defaultThreshold
	}
	if o.RestartInterval == 0 {
		o.RestartInterval = max(n, 1)
	}
	if o.OutOfDomain == nil {
		o.OutOfDomain = objective.Unbounded
	}

	d := &driver{
		f: f, df: df, opts: o,
		tol: Tolerance{
			// keep the sufficient decrease tolerance below the curvature one
			Alpha: math.Min(searchAlpha, o.LineSearchThreshold/2),
			Beta:  o.LineSearchThreshold,
			Eps:   searchEps,
			Lower: 0,
			Upper: searchNoBnd,
		},
	}

	start, ok := d.eval(w0.Clone())
	if !ok {
		return nil, ErrInfeasibleStart
	}
	if err := vector.CheckDim("gradient", start.g, n); err != nil {
		return nil, err
	}
	return d.run(start), nil
}
