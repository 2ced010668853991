// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"math"

	"go.uber.org/zap"

	"github.com/curioloop/interior/krylov"
	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

type driver struct {
	df      objective.VectorFunc
	d2f     objective.TensorFunc
	domain  objective.FeasibilityPredicate
	opts    Options
	numEval int
}

func (d *driver) gradient(x vector.Vector) vector.Vector {
	d.numEval++
	return d.df(x)
}

// direction solves 𝒇″(x)·p = −g inexactly and falls back to the
// (preconditioned) steepest descent direction when the solve does not
// produce a descent direction.
func (d *driver) direction(x, g vector.Vector, m vector.Operator) (p vector.Vector, gp float64, inner int) {

	gn := g.Norm2()
	kopts := &krylov.Options{
		Tolerance:      math.Min(0.5, math.Sqrt(gn)) * gn,
		MaxIterations:  d.opts.KrylovIterations,
		Preconditioner: m,
	}
	if d.opts.Logger.Enabled(logging.LogTrace) {
		kopts.Logger = d.opts.Logger.Named("krylov")
	}

	r, err := krylov.Solve(d.d2f(x), g.Neg(), vector.New(len(g)), kopts)
	if err == nil {
		inner = r.NumIter
		p = r.X
		if gp = g.Dot(p); gp < 0 && p.IsFinite() {
			return
		}
	}

	// Zero step (negative curvature at the first Krylov step) or non-descent.
	if m != nil {
		p = m.Apply(g).Neg()
		if gp = g.Dot(p); gp < 0 && p.IsFinite() {
			return
		}
	}
	p = g.Neg()
	return p, -g.Dot(g), inner
}

// step damps p by halving until the trial point is in domain and the
// directional derivative there is below curvatureRatio·|gᵀp|.
func (d *driver) step(x, p vector.Vector, gp float64) (vector.Vector, vector.Vector, float64, bool) {
	alpha := 1.0
	for k := 0; k < maxHalving; k, alpha = k+1, alpha/2 {
		xt := x.AddScaled(alpha, p)
		if d.domain.OutOfDomain(xt) {
			continue
		}
		gt := d.gradient(xt)
		if !gt.IsFinite() {
			continue
		}
		if gt.Dot(p) <= curvatureRatio*math.Abs(gp) {
			return xt, gt, alpha, true
		}
	}
	return nil, nil, 0, false
}

func (d *driver) run(x, g vector.Vector) *Result {

	log := d.opts.Logger
	stop := d.opts.StopCriterion

	res := &Result{}
	finish := func(status Status) *Result {
		res.OK = status == Converged
		res.X, res.G = x, g
		res.Status = status
		res.NumEval = d.numEval
		if log.Enabled(logging.LogLast) {
			log.Log(logging.LogLast, "truncated newton finished",
				zap.Stringer("status", status),
				zap.Int("iter", res.NumIter),
				zap.Int("eval", res.NumEval),
				zap.Int("krylov", res.NumKrylov),
				zap.Float64("gnorm", g.Norm2()))
		}
		return res
	}

	for {
		if stop.Stop(g) {
			return finish(Converged)
		}
		if res.NumIter >= d.opts.MaxIterations {
			return finish(IterationLimit)
		}
		res.NumIter++

		var m vector.Operator
		if d.opts.Preconditioner != nil {
			m = d.opts.Preconditioner(x)
		}

		p, gp, inner := d.direction(x, g, m)
		res.NumKrylov += inner

		xt, gt, alpha, ok := d.step(x, p, gp)
		if !ok {
			return finish(StepFailed)
		}
		x, g = xt, gt

		if log.Enabled(logging.LogEval) {
			log.Log(logging.LogEval, "truncated newton iteration",
				zap.Int("iter", res.NumIter),
				zap.Int("krylov", inner),
				zap.Float64("step", alpha),
				zap.Float64("gnorm", g.Norm2()))
		}
	}
}
