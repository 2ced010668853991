// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/interior/vector"
)

// iterate is a point with its function value and gradient.
type iterate struct {
	x vector.Vector
	f float64
	g vector.Vector
}

// eval evaluates f and df at x. It reports false when x is out of domain
// or either value is not finite.
func (d *driver) eval(x vector.Vector) (iterate, bool) {
	if d.opts.OutOfDomain.OutOfDomain(x) {
		return iterate{}, false
	}
	d.numEval++
	f := d.f(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return iterate{}, false
	}
	g := d.df(x)
	if !g.IsFinite() {
		return iterate{}, false
	}
	return iterate{x, f, g}, true
}

// along performs a line search from cur along the descent direction dir, where
// gd = gᵀdir < 0 and stp is the initial step.
//
// The returned iterate satisfies the strong Wolfe conditions when the search
// converges. Otherwise it is the best point found, and false is reported when
// no point with a lower value than cur was found.
func (d *driver) along(cur iterate, dir vector.Vector, gd, stp float64) (iterate, bool) {

	tol := d.tol
	best := cur

	var s Search
	stp = math.Min(stp, tol.Upper)
	stp, task := s.Next(cur.f, gd, stp, Start, &tol)

	for k := 0; !task.Done() && k < searchMaxEval; k++ {
		trial, ok := d.eval(cur.x.AddScaled(stp, dir))
		if !ok {
			// Shrink the step interval below the rejected step.
			tol.Upper = stp / 2
			if tol.Upper == 0 {
				break
			}
			s = Search{}
			stp, task = s.Next(cur.f, gd, tol.Upper, Start, &tol)
			continue
		}
		if trial.f < best.f {
			best = trial
		}
		stp, task = s.Next(trial.f, trial.g.Dot(dir), stp, Evaluate, &tol)
		if task == Satisfied {
			return trial, true
		}
	}

	return best, best.f < cur.f
}
