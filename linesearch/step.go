// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import "math"

// step computes a safeguarded trial step (MINPACK-2 dcstep) and updates the
// interval [x, y] that contains a step satisfying the sufficient decrease and
// curvature conditions.
//
// x holds the step with the least function value and y the other endpoint.
// p is the current trial. If bracket is true then p.stp lies strictly between
// x.stp and y.stp, and the derivative at x is negative in the direction of p.
// On return bracket reports whether a minimizer has been bracketed.
func step(x, y *point, p point, bracket *bool, bound [2]float64) float64 {

	lo, hi := bound[0], bound[1]
	sgnd := p.g * (x.g / math.Abs(x.g))

	var next float64
	switch {
	case p.f > x.f:
		// A higher function value brackets the minimum.
		// Take the cubic step when it is closer to x than the quadratic step,
		// otherwise the average of both.
		gamma, theta := cubic(*x, p)
		if p.stp < x.stp {
			gamma = -gamma
		}
		r := ((gamma - x.g) + theta) / (((gamma - x.g) + gamma) + p.g)
		stpc := x.stp + r*(p.stp-x.stp)
		stpq := x.stp + ((x.g/((x.f-p.f)/(p.stp-x.stp)+x.g))/2)*(p.stp-x.stp)
		if math.Abs(stpc-x.stp) < math.Abs(stpq-x.stp) {
			next = stpc
		} else {
			next = stpc + (stpq-stpc)/2
		}
		*bracket = true

	case sgnd < 0:
		// A lower function value and derivatives of opposite sign bracket the minimum.
		// Take the cubic step when it is farther from p than the secant step.
		gamma, theta := cubic(*x, p)
		if p.stp > x.stp {
			gamma = -gamma
		}
		r := ((gamma - p.g) + theta) / (((gamma - p.g) + gamma) + x.g)
		stpc := p.stp + r*(x.stp-p.stp)
		stpq := p.stp + (p.g/(p.g-x.g))*(x.stp-p.stp)
		if math.Abs(stpc-p.stp) > math.Abs(stpq-p.stp) {
			next = stpc
		} else {
			next = stpq
		}
		*bracket = true

	case math.Abs(p.g) < math.Abs(x.g):
		// A lower function value and a derivative of the same sign whose magnitude decreases.
		// The cubic step is used only if the cubic tends to infinity in the direction
		// of the step or its minimum lies beyond p; otherwise the secant step is used.
		gamma, theta := cubic(*x, p)
		if p.stp > x.stp {
			gamma = -gamma
		}
		r := ((gamma - p.g) + theta) / ((gamma + (x.g - p.g)) + gamma)
		var stpc float64
		switch {
		case r < 0 && gamma != 0:
			stpc = p.stp + r*(x.stp-p.stp)
		case p.stp > x.stp:
			stpc = hi
		default:
			stpc = lo
		}
		stpq := p.stp + (p.g/(p.g-x.g))*(x.stp-p.stp)
		if *bracket {
			if math.Abs(stpc-p.stp) < math.Abs(stpq-p.stp) {
				next = stpc
			} else {
				next = stpq
			}
			if p.stp > x.stp {
				next = math.Min(p.stp+p66*(y.stp-p.stp), next)
			} else {
				next = math.Max(p.stp+p66*(y.stp-p.stp), next)
			}
		} else {
			if math.Abs(stpc-p.stp) > math.Abs(stpq-p.stp) {
				next = stpc
			} else {
				next = stpq
			}
			next = math.Max(lo, math.Min(hi, next))
		}

	default:
		// A lower function value and a derivative of the same sign that does not decrease.
		// Unbracketed, the step goes to a bound; otherwise the cubic step of p and y is taken.
		switch {
		case *bracket:
			gamma, theta := cubic(*y, p)
			if p.stp > y.stp {
				gamma = -gamma
			}
			r := ((gamma - p.g) + theta) / (((gamma - p.g) + gamma) + y.g)
			next = p.stp + r*(y.stp-p.stp)
		case p.stp > x.stp:
			next = hi
		default:
			next = lo
		}
	}

	// Update the interval which contains a minimizer.
	if p.f > x.f {
		*y = p
	} else {
		if sgnd < 0 {
			*y = *x
		}
		*x = p
	}

	return next
}

// cubic returns the γ and θ terms of the cubic interpolating a and b.
func cubic(a, b point) (gamma, theta float64) {
	theta = 3*(a.f-b.f)/(b.stp-a.stp) + a.g + b.g
	s := math.Max(math.Max(math.Abs(theta), math.Abs(a.g)), math.Abs(b.g))
	gamma = s * math.Sqrt(math.Max(0, (theta/s)*(theta/s)-(a.g/s)*(b.g/s)))
	return
}
