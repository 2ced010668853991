// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"
)

const (
	p5         = 0.5
	p66        = 0.66
	xTrapLower = 1.1
	xTrapUpper = 4.0
)

const (
	stageArmijo = 1
	stageWolfe  = 2
)

// Task is the reverse communication state of a Search.
type Task int

const (
	// Start begins a new search; φ(0) and φ′(0) must be passed.
	Start Task = 0
	// Satisfied the step satisfies both the sufficient decrease and the curvature condition.
	Satisfied Task = 1 << (4 + iota)
	// Evaluate the caller must evaluate φ and φ′ at the returned step.
	Evaluate
	// Error the arguments of the search are inconsistent.
	Error
	// Warning the search stopped without satisfying the curvature condition.
	Warning
)

const (
	BadStepLower = Error | (1 + iota)
	BadStepUpper
	BadDerivative
	BadAlpha
	BadBeta
	BadEps
	BadLower
	BadUpper
	WarnRounding = Warning | (1 + iota)
	WarnInterval
	WarnAtUpper
	WarnAtLower
)

// Done reports whether the search has finished.
func (t Task) Done() bool {
	return t&(Satisfied|Warning|Error) > 0
}

// Tolerance configures a Search.
type Tolerance struct {
	// Alpha is a non-negative tolerance for the sufficient decrease condition.
	Alpha float64
	// Beta is a non-negative tolerance for the curvature condition.
	Beta float64
	// Eps is a non-negative relative tolerance for an acceptable step.
	// The search exits with a warning if the relative width of the bracket is less than Eps.
	Eps float64
	// Lower is a non-negative lower bound for the step.
	Lower float64
	// Upper is a non-negative upper bound for the step.
	Upper float64
}

// point is a step with its function value and derivative.
type point struct {
	stp, f, g float64
}

// Search is the state of a Moré–Thuente line search (MINPACK-2 dcsrch).
//
// It finds a step λ of the univariate function φ that satisfies:
//   - sufficient decrease condition: φ(λ) ≤ φ(0) + ɑ·λ·φ′(0)
//   - curvature condition: |φ′(λ)| ≤ β·|φ′(0)|
//
// The search maintains an interval with endpoints x and y. Initially the
// interval is chosen to contain a minimizer of the modified function
//
//	ψ(λ) = φ(λ) - φ(0) - ɑ·λ·φ′(0)
//
// and once ψ(λ) ≤ 0 and φ′(λ) ≥ 0 for some step, to contain a minimizer of φ.
// If no step satisfies both conditions the search stops with a warning and the
// step only satisfies the sufficient decrease condition.
//
// # Reference:
//
//   - Moré & Thuente, Line search algorithms with guaranteed sufficient decrease (1994)
type Search struct {
	bracket bool
	stage   int
	origin  point
	x, y    point
	width   [2]float64
	bound   [2]float64
}

// Next advances the search.
//
// On the first call task must be Start, f and g must hold φ(0) and φ′(0) and stp
// a positive initial estimate. On later calls f and g hold φ(stp) and φ′(stp) for
// the step returned by the previous call. While the returned task is Evaluate the
// caller evaluates φ at the returned step and calls Next again.
func (s *Search) Next(f, g, stp float64, task Task, tol *Tolerance) (float64, Task) {

	if task == Start {
		switch {
		case stp < tol.Lower:
			task = BadStepLower
		case stp > tol.Upper:
			task = BadStepUpper
		case g >= 0:
			task = BadDerivative
		case tol.Alpha < 0:
			task = BadAlpha
		case tol.Beta < 0:
			task = BadBeta
		case tol.Eps < 0:
			task = BadEps
		case tol.Lower < 0:
			task = BadLower
		case tol.Upper < tol.Lower:
			task = BadUpper
		}
		if task&Error > 0 {
			return stp, task
		}

		s.bracket = false
		s.stage = stageArmijo
		s.origin = point{0, f, g}
		s.width[0] = tol.Upper - tol.Lower
		s.width[1] = s.width[0] / p5
		s.x = s.origin
		s.y = s.origin
		s.bound = [2]float64{0, stp + xTrapUpper*stp}
		return stp, Evaluate
	}

	// Test for convergence or warnings
	gTest := tol.Alpha * s.origin.g
	fTest := s.origin.f + stp*gTest

	lo, hi := s.bound[0], s.bound[1]
	switch {
	case s.bracket && (stp <= lo || stp >= hi):
		return stp, WarnRounding
	case s.bracket && hi-lo <= tol.Eps*hi:
		return stp, WarnInterval
	case stp == tol.Upper && f <= fTest && g <= gTest:
		return stp, WarnAtUpper
	case stp == tol.Lower && (f > fTest || g >= gTest):
		return stp, WarnAtLower
	case f <= fTest && math.Abs(g) <= tol.Beta*(-s.origin.g):
		return stp, Satisfied
	}

	if s.stage == stageArmijo && f <= fTest && g >= 0 {
		s.stage = stageWolfe
	}

	trial := point{stp, f, g}
	if s.stage == stageArmijo && f <= s.x.f && f > fTest {
		// Work on ψ while a lower value than the best one is found but the
		// sufficient decrease condition does not hold yet.
		x, y, p := s.x.shift(gTest), s.y.shift(gTest), trial.shift(gTest)
		stp = step(&x, &y, p, &s.bracket, s.bound)
		s.x, s.y = x.shift(-gTest), y.shift(-gTest)
	} else {
		stp = step(&s.x, &s.y, trial, &s.bracket, s.bound)
	}

	// Decide if a bisection step is needed.
	if s.bracket {
		if math.Abs(s.y.stp-s.x.stp) >= p66*s.width[1] {
			stp = s.x.stp + p5*(s.y.stp-s.x.stp)
		}
		s.width[1] = s.width[0]
		s.width[0] = math.Abs(s.y.stp - s.x.stp)
	}

	if s.bracket {
		lo = math.Min(s.x.stp, s.y.stp)
		hi = math.Max(s.x.stp, s.y.stp)
	} else {
		lo = stp + xTrapLower*(stp-s.x.stp)
		hi = stp + xTrapUpper*(stp-s.x.stp)
	}
	s.bound = [2]float64{lo, hi}

	stp = math.Min(math.Max(stp, tol.Lower), tol.Upper)

	// Fall back to the best step when no further progress is possible.
	if s.bracket && (stp <= lo || stp >= hi || hi-lo <= tol.Eps*hi) {
		stp = s.x.stp
	}

	return stp, Evaluate
}

// Best returns the step with the least function value seen so far.
func (s *Search) Best() (stp, f, g float64) {
	return s.x.stp, s.x.f, s.x.g
}

// shift maps a point of φ to the modified function ψ (gTest > 0 direction)
// and back (negative gTest).
func (p point) shift(gTest float64) point {
	return point{p.stp, p.f - p.stp*gTest, p.g - gTest}
}
