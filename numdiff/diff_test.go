package numdiff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/interior/vector"
)

func rosen(x vector.Vector) float64 {
	return 100*math.Pow(x[1]-x[0]*x[0], 2) + math.Pow(1-x[0], 2)
}

func rosenGrad(x vector.Vector) vector.Vector {
	return vector.Of(
		-400*(x[1]-x[0]*x[0])*x[0]-2*(1-x[0]),
		200*(x[1]-x[0]*x[0]),
	)
}

func rosenHess(x vector.Vector) [2][2]float64 {
	return [2][2]float64{
		{1200*x[0]*x[0] - 400*x[1] + 2, -400 * x[0]},
		{-400 * x[0], 200},
	}
}

func TestGradient(t *testing.T) {
	x := vector.Of(-1.2, 1)
	want := rosenGrad(x)

	cases := []struct {
		name string
		spec Spec
		tol  float64
	}{
		{"forward", Spec{}, 1e-4},
		{"central", Spec{Method: Central}, 1e-7},
		{"relative", Spec{RelStep: 1e-7}, 1e-4},
		{"absolute", Spec{Method: Central, AbsStep: 1e-5}, 1e-6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.spec.Gradient(rosen, x)
			for i := range want {
				require.InDelta(t, want[i], got[i], c.tol*math.Max(1, math.Abs(want[i])))
			}
		})
	}
	require.Equal(t, vector.Of(-1.2, 1), x, "input must be untouched")
}

func TestHessianVector(t *testing.T) {
	x := vector.Of(0.5, -0.3)
	v := vector.Of(1, 2)
	h := rosenHess(x)
	want := vector.Of(h[0][0]*v[0]+h[0][1]*v[1], h[1][0]*v[0]+h[1][1]*v[1])

	for _, spec := range []Spec{{}, {Method: Central}} {
		got := spec.HessianVector(rosenGrad, x, v)
		require.True(t, got.EqualApprox(want, 1e-3), "got %v want %v", got, want)

		op := spec.Hessian(rosenGrad)(x)
		require.True(t, op.Apply(v).EqualApprox(want, 1e-3))
	}

	require.Equal(t, vector.New(2), Spec{}.HessianVector(rosenGrad, x, vector.New(2)))
}

func TestHessianDiagonal(t *testing.T) {
	x := vector.Of(0.5, -0.3)
	h := rosenHess(x)
	for _, spec := range []Spec{{}, {Method: Central}} {
		d := spec.HessianDiagonal(rosenGrad, x)
		require.InDelta(t, h[0][0], d[0], 1e-3)
		require.InDelta(t, h[1][1], d[1], 1e-3)
	}
}

func TestLinearGradientIsExact(t *testing.T) {
	// A constant gradient has a zero Hessian whatever the step.
	df := func(vector.Vector) vector.Vector { return vector.Of(1, 0) }
	got := Spec{}.HessianVector(df, vector.Of(3, 4), vector.Of(1, 1))
	require.Equal(t, vector.Of(0, 0), got)
}

func TestUnknownMethod(t *testing.T) {
	require.Panics(t, func() { Spec{Method: 7}.Gradient(rosen, vector.Of(0, 0)) })
}
