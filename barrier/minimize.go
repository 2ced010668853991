// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"github.com/curioloop/interior/linesearch"
	"github.com/curioloop/interior/newton"
	"github.com/curioloop/interior/numdiff"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

// Manual is a barrier supplied by the caller instead of being derived from
// a constraint family. It must describe φ(𝐱) = −Σ log(−𝒇𝒄ᵢ(𝐱)) for some
// constraints 𝒇𝒄ᵢ(𝐱) ≤ 0, possibly in a cheaper closed form.
type Manual struct {
	// φ; required by LineSearchMinimizeManual only.
	Phi objective.ScalarFunc
	// ∇φ.
	DPhi objective.VectorFunc
	// ∇²φ for NewtonMinimizeManual; finite differences of DPhi when nil.
	D2Phi objective.TensorFunc
	// Multipliers λ(t)(𝐱), one per constraint. Their count is the m of the gap m/t.
	Lambda func(t float64) objective.VectorFunc
	// Complement of the strictly feasible set.
	OutOfDomain objective.FeasibilityPredicate
}

func (b *Manual) check(needPhi bool) error {
	if b == nil || b.DPhi == nil || b.Lambda == nil || b.OutOfDomain == nil || needPhi && b.Phi == nil {
		return ErrIncompleteBarrier
	}
	return nil
}

func automatic(cons Constraints, w0 vector.Vector) (logBarrier, error) {
	if cons == nil || cons.Len() == 0 {
		return logBarrier{}, ErrNoConstraints
	}
	b := logBarrier{cons}
	if b.OutOfDomain(w0) {
		return logBarrier{}, ErrInfeasibleStart
	}
	return b, nil
}

// stagePreconditioner returns m(t), or the inner preconditioner when m is nil.
func stagePreconditioner(m Preconditioner, t float64, inner objective.TensorFunc) objective.TensorFunc {
	if m == nil {
		return inner
	}
	return m(t)
}

// LineSearchMinimize minimizes f subject to cons by following the central path
// with the nonlinear conjugate gradient minimizer. df is the gradient of f.
// w0 must be strictly feasible. m optionally preconditions every centering problem.
func LineSearchMinimize(f objective.ScalarFunc, df objective.VectorFunc, w0 vector.Vector,
	cons Constraints, opts *LineSearchOptions, m Preconditioner) (*Certificate, error) {

	b, err := automatic(cons, w0)
	if err != nil {
		return nil, err
	}
	return LineSearchMinimizeManual(f, df, w0, &Manual{
		Phi:         b.value,
		DPhi:        b.gradient,
		Lambda:      b.lambda,
		OutOfDomain: b,
	}, opts, m)
}

// LineSearchMinimizeManual is LineSearchMinimize with a caller supplied barrier.
func LineSearchMinimizeManual(f objective.ScalarFunc, df objective.VectorFunc, w0 vector.Vector,
	b *Manual, opts *LineSearchOptions, m Preconditioner) (*Certificate, error) {

	var o LineSearchOptions
	if opts != nil {
		o = *opts
	}
	if err := o.normalize(); err != nil {
		return nil, err
	}
	if err := b.check(true); err != nil {
		return nil, err
	}
	if f == nil || df == nil {
		return nil, linesearch.ErrNilObjective
	}
	if b.OutOfDomain.OutOfDomain(w0) {
		return nil, ErrInfeasibleStart
	}

	inner := o.Inner
	inner.OutOfDomain = b.OutOfDomain
	inner.Logger = innerLogger(inner.Logger, o.Logger)

	p := path{
		opts:   o.Options,
		lambda: b.Lambda,
		solve: func(t float64, x vector.Vector) (center, error) {
			stage := inner
			stage.Preconditioner = stagePreconditioner(m, t, inner.Preconditioner)
			r, err := linesearch.Minimize(scaled(f, b.Phi, t), scaledGradient(df, b.DPhi, t), x, &stage)
			if err != nil {
				return center{}, err
			}
			return center{r.X, r.OK, r.Status, r.NumIter}, nil
		},
	}
	return p.follow(w0)
}

// NewtonMinimize minimizes the function whose gradient is df subject to cons by
// following the central path with the truncated Newton minimizer. d2f is the
// Hessian of the objective; finite differences of df are used when nil.
// w0 must be strictly feasible. m optionally preconditions every centering problem.
func NewtonMinimize(df objective.VectorFunc, d2f objective.TensorFunc, w0 vector.Vector,
	cons Constraints, opts *NewtonOptions, m Preconditioner) (*Certificate, error) {

	b, err := automatic(cons, w0)
	if err != nil {
		return nil, err
	}
	return NewtonMinimizeManual(df, d2f, w0, &Manual{
		DPhi:        b.gradient,
		D2Phi:       b.hessian,
		Lambda:      b.lambda,
		OutOfDomain: b,
	}, opts, m)
}

// NewtonMinimizeManual is NewtonMinimize with a caller supplied barrier.
func NewtonMinimizeManual(df objective.VectorFunc, d2f objective.TensorFunc, w0 vector.Vector,
	b *Manual, opts *NewtonOptions, m Preconditioner) (*Certificate, error) {

	var o NewtonOptions
	if opts != nil {
		o = *opts
	}
	if err := o.normalize(); err != nil {
		return nil, err
	}
	if err := b.check(false); err != nil {
		return nil, err
	}
	if df == nil {
		return nil, newton.ErrNilGradient
	}
	if b.OutOfDomain.OutOfDomain(w0) {
		return nil, ErrInfeasibleStart
	}

	spec := numdiff.Spec{Method: numdiff.Central}
	if d2f == nil {
		d2f = spec.Hessian(df)
	}
	d2phi := b.D2Phi
	if d2phi == nil {
		d2phi = spec.Hessian(b.DPhi)
	}

	inner := o.Inner
	inner.Logger = innerLogger(inner.Logger, o.Logger)

	p := path{
		opts:   o.Options,
		lambda: b.Lambda,
		solve: func(t float64, x vector.Vector) (center, error) {
			stage := inner
			stage.Preconditioner = stagePreconditioner(m, t, inner.Preconditioner)
			r, err := newton.Minimize(scaledGradient(df, b.DPhi, t), scaledHessian(d2f, d2phi, t), x, b.OutOfDomain, &stage)
			if err != nil {
				return center{}, err
			}
			return center{r.X, r.OK, r.Status, r.NumIter}, nil
		},
	}
	return p.follow(w0)
}
