// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"go.uber.org/zap"

	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

type driver struct {
	f       objective.ScalarFunc
	df      objective.VectorFunc
	opts    Options
	tol     Tolerance
	numEval int
}

// precondition returns s = M(x)·g, or g itself when M is absent or
// fails to be positive along g.
func (d *driver) precondition(x, g vector.Vector) (s vector.Vector, gs float64) {
	if d.opts.Preconditioner != nil {
		s = d.opts.Preconditioner(x).Apply(g)
		if gs = g.Dot(s); gs > 0 && s.IsFinite() {
			return
		}
	}
	return g.Clone(), g.Dot(g)
}

func (d *driver) run(cur iterate) *Result {

	log := d.opts.Logger
	stop := d.opts.StopCriterion

	var (
		prev     iterate
		s, dir   vector.Vector // preconditioned gradient and search direction
		gs       float64       // gᵀs at prev
		steepest bool          // dir is the steepest descent direction
		restart  = true
		numSince int // iterations since the last restart
	)

	res := &Result{}
	finish := func(status Status) *Result {
		res.OK = status == Converged
		res.X, res.F, res.G = cur.x, cur.f, cur.g
		res.Status = status
		res.NumEval = d.numEval
		if log.Enabled(logging.LogLast) {
			log.Log(logging.LogLast, "line search minimize finished",
				zap.Stringer("status", status),
				zap.Int("iter", res.NumIter),
				zap.Int("eval", res.NumEval),
				zap.Float64("f", cur.f),
				zap.Float64("gnorm", cur.g.Norm2()))
		}
		return res
	}

	for {
		if stop.Stop(cur.g) {
			return finish(Converged)
		}
		if res.NumIter >= d.opts.MaxIterations {
			return finish(IterationLimit)
		}
		res.NumIter++

		sNext, gsNext := d.precondition(cur.x, cur.g)

		restart = restart || numSince >= d.opts.RestartInterval ||
			math.Abs(cur.g.Dot(prev.g)) >= powellRatio*cur.g.Dot(cur.g)

		steepest = true
		if !restart {
			// Polak–Ribière+ : β = max(0, g₊ᵀ(s₊ − s) / gᵀs)
			if beta := cur.g.Dot(sNext.Sub(s)) / gs; beta > 0 {
				dir = sNext.Neg().AddScaled(beta, dir)
				steepest = false
			}
		}
		if steepest {
			dir = sNext.Neg()
		}

		gd := cur.g.Dot(dir)
		if !steepest && !(gd < 0) {
			dir, gd, steepest = sNext.Neg(), -gsNext, true
		}
		if steepest {
			numSince = 0
		}

		stp := 1.0
		if res.NumIter == 1 {
			stp = math.Min(1, 1/dir.Norm2())
		} else if a := 1.01 * 2 * (cur.f - prev.f) / gd; a > 0 {
			stp = math.Min(1, a)
		}

		next, ok := d.along(cur, dir, gd, stp)
		if !ok {
			if steepest {
				return finish(LineSearchFailed)
			}
			restart = true
			continue
		}

		prev, cur = cur, next
		s, gs = sNext, gsNext
		restart = false
		numSince++

		if log.Enabled(logging.LogEval) {
			log.Log(logging.LogEval, "line search iteration",
				zap.Int("iter", res.NumIter),
				zap.Int("eval", d.numEval),
				zap.Bool("restart", steepest),
				zap.Float64("f", cur.f),
				zap.Float64("gnorm", cur.g.Norm2()))
		}
	}
}
