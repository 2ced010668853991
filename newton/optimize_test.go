// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package newton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

const eps = 1e-5

func shiftedGradient(c vector.Vector) objective.VectorFunc {
	return func(x vector.Vector) vector.Vector { return x.Sub(c) }
}

func TestBiQuadratic(t *testing.T) {
	want := vector.Of(0.5, 0.8)
	hess := objective.Constant(vector.MustDense([][]float64{{1, 0}, {0, 1}}))

	r, err := Minimize(shiftedGradient(want), hess, vector.Of(-5, 1.3), objective.Unbounded, nil)
	require.NoError(t, err)
	require.True(t, r.OK, "status %v", r.Status)
	require.Less(t, r.X.Sub(want).Norm2(), eps, "found %v", r.X)
	require.Equal(t, 1, r.NumIter)
}

func TestMultiQuadratic(t *testing.T) {
	const n = 1024
	want := vector.Generate(n, func(i int) float64 { return 0.1 * float64(i) })

	r, err := Minimize(shiftedGradient(want), objective.Constant(vector.Identity), vector.New(n), nil, nil)
	require.NoError(t, err)
	require.True(t, r.OK, "status %v", r.Status)
	require.Less(t, r.X.Sub(want).Norm2(), eps)
}

func TestDenseQuadratic(t *testing.T) {
	// ½xᵀAx − bᵀx has its minimum at A⁻¹b
	a := vector.MustDense([][]float64{{4, 2, 2}, {2, 4, 2}, {2, 2, 4}})
	b := vector.Of(14, 16, 18)
	df := func(x vector.Vector) vector.Vector { return a.Apply(x).Sub(b) }

	r, err := Minimize(df, objective.Constant(a), vector.New(3), nil, nil)
	require.NoError(t, err)
	require.True(t, r.OK)
	require.True(t, r.X.EqualApprox(vector.Of(1, 2, 3), eps), "found %v", r.X)
	require.Positive(t, r.NumKrylov)
}

func TestFiniteDifferenceHessian(t *testing.T) {
	want := vector.Of(0.5, 0.8)

	r, err := Minimize(shiftedGradient(want), nil, vector.Of(-5, 1.3), nil, nil)
	require.NoError(t, err)
	require.True(t, r.OK, "status %v", r.Status)
	require.Less(t, r.X.Sub(want).Norm2(), eps)
}

func TestRosenbrock(t *testing.T) {
	df := func(x vector.Vector) vector.Vector {
		return vector.Of(
			-400*(x[1]-x[0]*x[0])*x[0]-2*(1-x[0]),
			200*(x[1]-x[0]*x[0]),
		)
	}
	d2f := func(x vector.Vector) vector.Operator {
		return vector.MustDense([][]float64{
			{1200*x[0]*x[0] - 400*x[1] + 2, -400 * x[0]},
			{-400 * x[0], 200},
		})
	}
	r, err := Minimize(df, d2f, vector.Of(-1.2, 1), nil, &Options{MaxIterations: 5000})
	require.NoError(t, err)
	require.True(t, r.OK, "status %v after %d iterations", r.Status, r.NumIter)
	require.True(t, r.X.EqualApprox(vector.Of(1, 1), 1e-6), "found %v", r.X)
}

func TestIdempotence(t *testing.T) {
	want := vector.Of(0.5, 0.8)
	r, err := Minimize(shiftedGradient(want), objective.Constant(vector.Identity), want, nil, nil)
	require.NoError(t, err)
	require.True(t, r.OK)
	require.Equal(t, 0, r.NumIter)
	require.Equal(t, 1, r.NumEval)
	require.Equal(t, want, r.X)
}

func TestDomainDamping(t *testing.T) {
	// −log(x) + x, whose Newton step from 3 leaves x > 0.
	df := func(x vector.Vector) vector.Vector { return vector.Of(1 - 1/x[0]) }
	d2f := func(x vector.Vector) vector.Operator { return vector.Diagonal(vector.Of(1 / (x[0] * x[0]))) }
	positive := objective.DomainFunc(func(x vector.Vector) bool { return x[0] <= 0 })

	var visited []float64
	spy := func(x vector.Vector) vector.Vector {
		visited = append(visited, x[0])
		return df(x)
	}

	r, err := Minimize(spy, d2f, vector.Of(3), positive, nil)
	require.NoError(t, err)
	require.True(t, r.OK, "status %v", r.Status)
	require.InDelta(t, 1, r.X[0], 1e-6)
	for _, v := range visited {
		require.Greater(t, v, 0.0)
	}

	_, err = Minimize(df, d2f, vector.Of(-1), positive, nil)
	require.ErrorIs(t, err, ErrInfeasibleStart)
}

func TestNegativeCurvatureFallsBack(t *testing.T) {
	// 1 − cos(x) with a Hessian that is indefinite away from the minimum.
	df := func(x vector.Vector) vector.Vector { return vector.Of(math.Sin(x[0])) }
	d2f := func(x vector.Vector) vector.Operator { return vector.Diagonal(vector.Of(math.Cos(x[0]))) }

	r, err := Minimize(df, d2f, vector.Of(2), nil, nil)
	require.NoError(t, err)
	require.True(t, r.OK, "status %v", r.Status)
	require.InDelta(t, 0, math.Mod(r.X[0], 2*math.Pi), 1e-6)
}

func TestPreconditioned(t *testing.T) {
	d := vector.Of(1e4, 1, 1e-2)
	c := vector.Of(1, -2, 3)
	df := func(x vector.Vector) vector.Vector { return x.Sub(c).Mul(d) }
	inv := vector.Diagonal(d.Map(func(v float64) float64 { return 1 / v }))

	r, err := Minimize(df, objective.Constant(vector.Diagonal(d)), vector.New(3), nil, &Options{
		Preconditioner: objective.Constant(inv),
	})
	require.NoError(t, err)
	require.True(t, r.OK)
	require.True(t, r.X.EqualApprox(c, 1e-6), "found %v", r.X)
}

func TestIterationLimit(t *testing.T) {
	df := func(x vector.Vector) vector.Vector { return vector.Of(math.Sin(x[0])) }
	d2f := func(x vector.Vector) vector.Operator { return vector.Diagonal(vector.Of(math.Cos(x[0]))) }

	r, err := Minimize(df, d2f, vector.Of(0.5), nil, &Options{
		MaxIterations: 1,
		StopCriterion: objective.GradientNorm(0),
	})
	require.NoError(t, err)
	require.False(t, r.OK)
	require.Equal(t, IterationLimit, r.Status)
	require.Equal(t, "iteration limit", r.Status.String())
}

func TestStepFailed(t *testing.T) {
	// Every point but the start is out of domain.
	start := vector.Of(0)
	only := objective.DomainFunc(func(x vector.Vector) bool { return x[0] != 0 })

	r, err := Minimize(shiftedGradient(vector.Of(1e3)), nil, start, only, nil)
	require.NoError(t, err)
	require.False(t, r.OK)
	require.Equal(t, StepFailed, r.Status)
	require.Equal(t, start, r.X)
}

func TestInvalidInput(t *testing.T) {
	df := shiftedGradient(vector.Of(1, 2))
	w0 := vector.Of(0, 0)

	_, err := Minimize(nil, nil, w0, nil, nil)
	require.ErrorIs(t, err, ErrNilGradient)
	_, err = Minimize(df, nil, w0, nil, &Options{MaxIterations: -1})
	require.ErrorIs(t, err, ErrBadOptions)
	_, err = Minimize(df, nil, w0, nil, &Options{KrylovIterations: -1})
	require.ErrorIs(t, err, ErrBadOptions)

	short := func(vector.Vector) vector.Vector { return vector.Of(1) }
	_, err = Minimize(short, nil, w0, nil, nil)
	require.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestTracing(t *testing.T) {
	log := &logging.Logger{Level: logging.LogTrace, Zap: zap.NewNop()}
	r, err := Minimize(shiftedGradient(vector.Of(0.5, 0.8)), nil, vector.Of(-5, 1.3), nil, &Options{Logger: log})
	require.NoError(t, err)
	require.True(t, r.OK)
}
