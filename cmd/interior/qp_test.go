// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/interior/barrier"
	"github.com/curioloop/interior/config"
	"github.com/curioloop/interior/vector"
)

// The unconstrained minimizer (1, 2, 3) of ½xᵀAx − (14, 16, 18)ᵀx lies inside the box.
const interiorQP = `
matrix: [[4, 2, 2], [2, 4, 2], [2, 2, 4]]
rhs: [-14, -16, -18]
lower: [0, 0, 0]
upper: [10, 10, 10]
start: [0.5, 0.5, 0.5]
`

// With a positive linear term every lower bound is active at the optimum 0,
// where the lower bound multipliers equal the linear term.
const activeQP = `
matrix: [[4, 2, 2], [2, 4, 2], [2, 2, 4]]
rhs: [14, 16, 18]
lower: [0, 0, 0]
upper: [10, 10, 10]
`

func TestQPInterior(t *testing.T) {
	problem := writeFile(t, "problem.yaml", interiorQP)
	cases := []struct {
		name   string
		config string
	}{
		{"newton", ""},
		{"newton without jacobi", "barrier: {jacobi: false}"},
		{"linesearch", "barrier: {method: linesearch}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, "qp", "-p", problem, "--json", "--config", quietConfig(t, tc.config))
			require.NoError(t, err)

			res := decode[qpOutput](t, out)
			require.True(t, res.OK)
			require.LessOrEqual(t, res.Gap, 1e-8)
			require.Greater(t, res.Stages, 1)
			require.Len(t, res.Lambda, 6)
			require.True(t, res.X.EqualApprox(vector.Of(1, 2, 3), 1e-5), "x = %v", res.X)
			require.InDelta(t, -50.0, res.Objective, 1e-6)
		})
	}
}

func TestQPActiveBounds(t *testing.T) {
	problem := writeFile(t, "problem.yaml", activeQP)
	out, err := run(t, "qp", "-p", problem, "--json", "--config", quietConfig(t, ""))
	require.NoError(t, err)

	res := decode[qpOutput](t, out)
	require.True(t, res.OK)
	require.Equal(t, config.MethodNewton, res.Method)
	require.True(t, res.X.EqualApprox(vector.New(3), 1e-6), "x = %v", res.X)
	// lower bound multipliers first
	require.InDeltaSlice(t, []float64{14, 16, 18}, []float64(res.Lambda[:3]), 1e-4)
	require.InDeltaSlice(t, []float64{0, 0, 0}, []float64(res.Lambda[3:]), 1e-8)
}

func TestQPText(t *testing.T) {
	problem := writeFile(t, "problem.yaml", interiorQP)
	out, err := run(t, "qp", "-p", problem, "--config", quietConfig(t, ""))
	require.NoError(t, err)
	require.Contains(t, out, "ok:        true")
	require.Contains(t, out, "method:    newton")
	require.Contains(t, out, "lambda:    [")
}

func TestQPErrors(t *testing.T) {
	cfg := quietConfig(t, "")

	unbounded := writeFile(t, "problem.yaml", "matrix: [[1]]\nrhs: [1]")
	_, err := run(t, "qp", "-p", unbounded, "--config", cfg)
	require.ErrorIs(t, err, barrier.ErrNoConstraints)

	outside := writeFile(t, "problem.yaml", "matrix: [[1]]\nrhs: [1]\nlower: [0]\nstart: [-1]")
	_, err = run(t, "qp", "-p", outside, "--config", cfg)
	require.ErrorIs(t, err, barrier.ErrInfeasibleStart)

	empty := writeFile(t, "problem.yaml", "matrix: [[1]]\nrhs: [1]\nlower: [1]\nupper: [1]")
	_, err = run(t, "qp", "-p", empty, "--config", cfg)
	require.Error(t, err)
}
