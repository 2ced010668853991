// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package newton minimizes smooth functions by the truncated Newton method.
//
// Each outer iteration solves the Newton system 𝒇″(𝐱)·d = −g approximately by
// preconditioned conjugate gradient, stopping the inner solve early on a
// relative residual min(0.5, √‖g‖)·‖g‖ (Eisenstat–Walker forcing) or on
// negative curvature. Only gradients and Hessian-vector products are used, so
// no objective value is needed: the step is damped by halving until it stays
// in the domain and the directional derivative at the trial point drops below
// 0.9·|gᵀd|, which for a quadratic model guarantees a decrease.
//
// # Reference:
//
//   - Dembo & Steihaug, Truncated-Newton algorithms for large-scale unconstrained optimization (1983)
//   - Eisenstat & Walker, Choosing the forcing terms in an inexact Newton method (1996)
//   - Nocedal & Wright, Numerical Optimization, Algorithm 7.1 (line search Newton-CG)
package newton

import (
	"errors"

	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/numdiff"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

var (
	// ErrNilGradient reports a missing gradient.
	ErrNilGradient = errors.New("newton: nil gradient")
	// ErrInfeasibleStart reports an initial point that is out of domain
	// or where the gradient is not finite.
	ErrInfeasibleStart = errors.New("newton: initial point out of domain")
	// ErrBadOptions reports an option outside of its valid range.
	ErrBadOptions = errors.New("newton: invalid options")
)

const (
	defaultGradientTolerance = 1e-8
	maxHalving               = 60
	curvatureRatio           = 0.9
)

// Status describes why the iteration stopped.
type Status int

const (
	// Converged the stopping criterion holds at the final iterate.
	Converged Status = iota
	// IterationLimit the iteration budget was exhausted.
	IterationLimit
	// StepFailed no acceptable step was found by halving.
	StepFailed
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit"
	case StepFailed:
		return "step failed"
	}
	return "unknown"
}

// Options configures a minimization. The zero value selects the defaults.
type Options struct {
	// Convergence test on the gradient (default ‖g‖₂ < 1e-8).
	StopCriterion objective.StoppingCriterion
	// The iteration stop when the number of outer iteration reaches limit (default max(2n, 200)).
	MaxIterations int
	// Iteration budget of every inner Krylov solve (default max(2n, 10)).
	KrylovIterations int
	// Optional approximation of the inverse Hessian evaluated at each iterate.
	Preconditioner objective.TensorFunc
	// Optional tracing. Inner solves are traced at LogTrace.
	Logger *logging.Logger
}

// Result contains the final result of a minimization.
type Result struct {
	OK      bool          // Whether the minimization converged.
	X, G    vector.Vector // Final solution and gradient.
	Summary               // Minimization summary.
}

// Summary contains a summary of a minimization.
type Summary struct {
	Status    Status // Reason of termination.
	NumIter   int    // Number of outer iterations performed.
	NumEval   int    // Number of gradient evaluations performed.
	NumKrylov int    // Total number of inner Krylov iterations.
}

// Minimize searches a stationary point of the function whose gradient is df,
// starting from w0 inside domain.
//
// d2f yields the Hessian as an operator; when nil it is approximated by
// finite differences of df. A nil domain stands for ℝⁿ.
func Minimize(df objective.VectorFunc, d2f objective.TensorFunc, w0 vector.Vector,
	domain objective.FeasibilityPredicate, opts *Options) (*Result, error) {

	var o Options
	if opts != nil {
		o = *opts
	}

	n := len(w0)
	switch {
	case df == nil:
		return nil, ErrNilGradient
	case o.MaxIterations < 0 || o.KrylovIterations < 0:
		return nil, ErrBadOptions
	}

	if d2f == nil {
		d2f = numdiff.Spec{Method: numdiff.Central}.Hessian(df)
	}
	if domain == nil {
		domain = objective.Unbounded
	}
	if o.StopCriterion == nil {
		o.StopCriterion = objective.GradientNorm(defaultGradientTolerance)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = max(2*n, 200)
	}
	if o.KrylovIterations == 0 {
		o.KrylovIterations = max(2*n, 10)
	}

	d := &driver{df: df, d2f: d2f, domain: domain, opts: o}

	x := w0.Clone()
	if domain.OutOfDomain(x) {
		return nil, ErrInfeasibleStart
	}
	g := d.gradient(x)
	if err := vector.CheckDim("gradient", g, n); err != nil {
		return nil, err
	}
	if !g.IsFinite() {
		return nil, ErrInfeasibleStart
	}
	return d.run(x, g), nil
}
