// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package krylov solves symmetric linear systems A·x = b by the preconditioned
// conjugate gradient method.
//
// The solver is also the inner step solver of truncated Newton: a small
// iteration budget deliberately truncates the solve, and a direction of
// non-positive curvature ends it early with the current iterate.
//
// # Reference:
//
//   - Hestenes & Stiefel, Methods of conjugate gradients for solving linear systems (1952)
//   - Nocedal & Wright, Numerical Optimization, Algorithm 5.3 (preconditioned CG)
package krylov

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/vector"
)

var (
	// ErrNilOperator reports a missing system operator.
	ErrNilOperator = errors.New("krylov: nil operator")
	// ErrEmptySystem reports a zero dimensional right-hand side.
	ErrEmptySystem = errors.New("krylov: empty system")
	// ErrBadOptions reports a negative tolerance or iteration budget.
	ErrBadOptions = errors.New("krylov: invalid options")
)

const (
	defaultTolerance = 1e-10
	// true residual is recomputed every residualRefresh iterations
	residualRefresh = 50
)

// Status describes why the iteration stopped.
type Status int

const (
	// Converged ‖A·x − b‖₂ < tolerance.
	Converged Status = iota
	// IterationLimit the iteration budget was exhausted.
	IterationLimit
	// NegativeCurvature a search direction p with pᵀAp ≤ 0 was met.
	NegativeCurvature
	// Breakdown the preconditioned residual product rᵀMr was not positive.
	Breakdown
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit"
	case NegativeCurvature:
		return "negative curvature"
	case Breakdown:
		return "breakdown"
	}
	return "unknown"
}

// Options configures a solve. The zero value selects the defaults.
type Options struct {
	// The iteration stop when ‖A·x − b‖₂ < Tolerance (default 1e-10).
	Tolerance float64
	// The iteration stop when the number of iteration reaches limit
	// (default max(2n, 10)). A limit below n truncates the solve.
	MaxIterations int
	// Optional approximation of A⁻¹ (identity when nil).
	Preconditioner vector.Operator
	// Optional tracing.
	Logger *logging.Logger
}

// Result contains the final result of a solve.
type Result struct {
	OK      bool          // Whether the solve converged.
	X       vector.Vector // Final iterate.
	Summary               // Solve summary.
}

// Summary contains a summary of a solve.
type Summary struct {
	Status   Status  // Reason of termination.
	NumIter  int     // Number of iterations performed.
	Residual float64 // Final residual norm ‖A·x − b‖₂.
}

// Solve approximately solves A·x = b from the initial guess x0.
// A is assumed symmetric; the result is unspecified otherwise.
func Solve(a vector.Operator, b, x0 vector.Vector, opts *Options) (*Result, error) {

	var o Options
	if opts != nil {
		o = *opts
	}

	n := len(b)
	switch {
	case a == nil:
		return nil, ErrNilOperator
	case n == 0:
		return nil, ErrEmptySystem
	case o.Tolerance < 0 || math.IsNaN(o.Tolerance):
		return nil, ErrBadOptions
	case o.MaxIterations < 0:
		return nil, ErrBadOptions
	}
	if err := vector.CheckDim("initial guess", x0, n); err != nil {
		return nil, err
	}

	if o.Tolerance == 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = max(2*n, 10)
	}

	s := solver{a: a, b: b, opts: o}
	return s.run(x0.Clone()), nil
}

type solver struct {
	a    vector.Operator
	b    vector.Vector
	opts Options
}

func (s *solver) precondition(r vector.Vector) vector.Vector {
	if s.opts.Preconditioner == nil {
		return r.Clone()
	}
	return s.opts.Preconditioner.Apply(r)
}

func (s *solver) run(x vector.Vector) *Result {

	log := s.opts.Logger
	tol := s.opts.Tolerance

	r := s.b.Sub(s.a.Apply(x)) // r = b - Ax
	rNorm := r.Norm2()

	res := &Result{X: x}
	finish := func(status Status) *Result {
		res.X = x
		res.Status = status
		res.Residual = rNorm
		res.OK = status == Converged
		if log.Enabled(logging.LogLast) {
			log.Log(logging.LogLast, "krylov solve finished",
				zap.Stringer("status", status),
				zap.Int("iter", res.NumIter),
				zap.Float64("residual", rNorm))
		}
		return res
	}

	if rNorm < tol {
		return finish(Converged)
	}

	z := s.precondition(r) // z = Mr
	rz := r.Dot(z)
	if !(rz > 0) {
		return finish(Breakdown)
	}
	p := z

	for res.NumIter < s.opts.MaxIterations {

		ap := s.a.Apply(p)
		pAp := p.Dot(ap)
		if !(pAp > 0) {
			// The quadratic is not bounded below along p.
			return finish(NegativeCurvature)
		}

		alpha := rz / pAp
		x = x.AddScaled(alpha, p) // x = x + αp
		res.NumIter++

		if res.NumIter%residualRefresh == 0 {
			r = s.b.Sub(s.a.Apply(x))
		} else {
			r = r.AddScaled(-alpha, ap) // r = r - αAp
		}
		rNorm = r.Norm2()

		if log.Enabled(logging.LogTrace) {
			log.Log(logging.LogTrace, "krylov iteration",
				zap.Int("iter", res.NumIter),
				zap.Float64("alpha", alpha),
				zap.Float64("residual", rNorm))
		}

		if rNorm < tol {
			return finish(Converged)
		}

		z = s.precondition(r)
		rzNext := r.Dot(z)
		if !(rzNext > 0) {
			return finish(Breakdown)
		}
		beta := rzNext / rz
		p = z.AddScaled(beta, p) // p = z + βp
		rz = rzNext
	}

	return finish(IterationLimit)
}
