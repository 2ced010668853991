// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type scalarProblem struct {
	phi, der func(float64) float64
}

// wolfe1 drives a Search the way scipy's scalar_search_wolfe1 drives dcsrch.
func (p scalarProblem) wolfe1(oldPhi0 float64, maxIter int) (stp float64, task Task) {

	phi0, der0 := p.phi(0), p.der(0)

	stp = 1.0
	if der0 != 0 {
		stp = math.Min(1, 1.01*2*(phi0-oldPhi0)/der0)
		if stp < 0 {
			stp = 1
		}
	}

	tol := Tolerance{Alpha: 1e-4, Beta: 0.9, Eps: 1e-14, Lower: 1e-8, Upper: 50}

	var s Search
	f, g := phi0, der0
	task = Start
	for ; maxIter > 0; maxIter-- {
		stp, task = s.Next(f, g, stp, task, &tol)
		if task != Evaluate {
			return
		}
		f, g = p.phi(stp), p.der(stp)
	}
	return math.NaN(), task
}

func wolfeConditionHold(s float64, phi, der func(float64) float64) bool {
	const c1, c2 = 1e-4, 0.9
	phi0, der0 := phi(0), der(0)
	if phi(s) > phi0+c1*s*der0 {
		return false
	}
	return math.Abs(der(s)) <= math.Abs(c2*der0)
}

func TestScalarSearch(t *testing.T) {

	problems := []scalarProblem{
		{
			func(s float64) float64 { return -s - math.Pow(s, 3) + math.Pow(s, 4) },
			func(s float64) float64 { return -1 - 3*math.Pow(s, 2) + 4*math.Pow(s, 3) },
		},
		{
			func(s float64) float64 { return math.Exp(-4*s) + math.Pow(s, 2) },
			func(s float64) float64 { return -4*math.Exp(-4*s) + 2*s },
		},
		{
			func(s float64) float64 { return -math.Sin(10 * s) },
			func(s float64) float64 { return -10 * math.Cos(10*s) },
		},
	}

	for _, p := range problems {
		for _, oldPhi0 := range []float64{0.1, 0.5, 0.9} {
			s, task := p.wolfe1(oldPhi0, 100)
			require.Equal(t, Satisfied, task)
			require.True(t, task.Done())
			require.True(t, wolfeConditionHold(s, p.phi, p.der), "step %g", s)
		}
	}
}

func TestScalarSearchQuadratic(t *testing.T) {
	// φ(λ) = (λ - 3)² has its minimizer at 3; a tight curvature tolerance finds it.
	phi := func(s float64) float64 { return (s - 3) * (s - 3) }
	der := func(s float64) float64 { return 2 * (s - 3) }

	tol := Tolerance{Alpha: 1e-4, Beta: 1e-6, Eps: 1e-12, Upper: 1e10}
	var s Search
	stp, task := s.Next(phi(0), der(0), 0.5, Start, &tol)
	for k := 0; task == Evaluate && k < 50; k++ {
		stp, task = s.Next(phi(stp), der(stp), stp, task, &tol)
	}
	require.Equal(t, Satisfied, task)
	require.InDelta(t, 3, stp, 1e-5)

	best, f, _ := s.Best()
	require.LessOrEqual(t, f, phi(0))
	require.GreaterOrEqual(t, best, 0.0)
}

func TestScalarSearchErrors(t *testing.T) {
	valid := Tolerance{Alpha: 1e-4, Beta: 0.9, Eps: 0.1, Lower: 0, Upper: 10}

	cases := []struct {
		name   string
		stp, g float64
		edit   func(*Tolerance)
		want   Task
	}{
		{"below lower", 0.5, -1, func(t *Tolerance) { t.Lower = 1 }, BadStepLower},
		{"above upper", 20, -1, func(*Tolerance) {}, BadStepUpper},
		{"ascent", 1, 1, func(*Tolerance) {}, BadDerivative},
		{"alpha", 1, -1, func(t *Tolerance) { t.Alpha = -1 }, BadAlpha},
		{"beta", 1, -1, func(t *Tolerance) { t.Beta = -1 }, BadBeta},
		{"eps", 1, -1, func(t *Tolerance) { t.Eps = -1 }, BadEps},
		{"lower", 1, -1, func(t *Tolerance) { t.Lower = -1 }, BadLower},
		{"inverted", 1, -1, func(t *Tolerance) { t.Upper = 0.5; t.Lower = 0.6 }, BadStepUpper},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tol := valid
			c.edit(&tol)
			var s Search
			_, task := s.Next(0, c.g, c.stp, Start, &tol)
			require.Equal(t, c.want, task)
			require.NotZero(t, task&Error)
			require.True(t, task.Done())
		})
	}
}

func TestScalarSearchAtUpper(t *testing.T) {
	// A linear function keeps decreasing until the upper bound.
	tol := Tolerance{Alpha: 1e-4, Beta: 0.9, Eps: 0.1, Upper: 4}
	var s Search
	stp, task := s.Next(0, -1, 1, Start, &tol)
	for k := 0; task == Evaluate && k < 20; k++ {
		stp, task = s.Next(-stp, -1, stp, task, &tol)
	}
	require.Equal(t, WarnAtUpper, task)
	require.Equal(t, 4.0, stp)
	require.NotZero(t, task&Warning)
}
