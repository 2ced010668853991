// Package numdiff estimates derivatives by finite differences.
//
// It supplies the solvers with a gradient when only an objective is known,
// and with Hessian-vector products when only a gradient is known, which is all
// a truncated Newton iteration needs from second order information.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
//   - Nocedal & Wright, Numerical Optimization, §8.1 (Hessian-vector products)
package numdiff

import (
	"math"

	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Spec selects the difference scheme and its step size.
// The zero value is a forward difference with automatic steps.
type Spec struct {
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size.
	// The default absolute step size is computed as h = eps * sign(x0) * max(1, abs(x0)) with eps being selected automatically.
	// Otherwise, absolute step size is computed as h = RelStep * sign(x0) * abs(x0) when RelStep is provided.
	RelStep float64
	// Absolute step size to use.
	// The RelStep is used when AbsStep is not provide.
	AbsStep float64
}

func (s Spec) eps() float64 {
	switch s.Method {
	case Forward:
		return sqrtEps
	case Central:
		return cubeEps
	default:
		panic("unknown method")
	}
}

// step returns the absolute step for a coordinate of value v.
func (s Spec) step(v float64) float64 {
	eps := s.eps()
	if s.AbsStep == 0 && s.RelStep == 0 {
		return math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
	}
	h := s.AbsStep
	if h == 0 {
		h = math.Copysign(s.RelStep, v) * math.Abs(v)
	}
	if (v+h)-v == 0 {
		h = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
	}
	if s.Method == Central {
		h = math.Abs(h)
	}
	return h
}

// Gradient estimates 𝒇′(𝐱) component by component.
func (s Spec) Gradient(f objective.ScalarFunc, x vector.Vector) vector.Vector {
	x = x.Clone()
	g := vector.New(len(x))
	f0 := math.NaN()
	if s.Method == Forward {
		f0 = f(x)
	}
	for i, v := range x {
		h := s.step(v)
		switch s.Method {
		case Central:
			x[i] = v - h
			f1 := f(x)
			x[i] = v + h
			f2 := f(x)
			g[i] = (f2 - f1) / (2 * h)
		default:
			x[i] = v + h
			g[i] = (f(x) - f0) / h
		}
		x[i] = v
	}
	return g
}

// HessianVector estimates 𝒇″(𝐱)·v from two (forward) or three (central)
// gradient evaluations along v.
func (s Spec) HessianVector(df objective.VectorFunc, x, v vector.Vector) vector.Vector {
	vn := v.Norm2()
	if vn == 0 {
		return vector.New(len(x))
	}
	h := s.eps() * math.Max(1.0, x.Norm2()) / vn
	if s.AbsStep != 0 {
		h = math.Abs(s.AbsStep) / vn
	}
	if s.Method == Central {
		return df(x.AddScaled(h, v)).Sub(df(x.AddScaled(-h, v))).Scale(1 / (2 * h))
	}
	return df(x.AddScaled(h, v)).Sub(df(x)).Scale(1 / h)
}

// Hessian returns the Hessian field of df as Hessian-vector products.
func (s Spec) Hessian(df objective.VectorFunc) objective.TensorFunc {
	return func(x vector.Vector) vector.Operator {
		x = x.Clone()
		return vector.OperatorFunc(func(v vector.Vector) vector.Vector {
			return s.HessianVector(df, x, v)
		})
	}
}

// HessianDiagonal estimates the diagonal of 𝒇″(𝐱) by differencing df along
// each coordinate.
func (s Spec) HessianDiagonal(df objective.VectorFunc, x vector.Vector) vector.Vector {
	x = x.Clone()
	d := vector.New(len(x))
	var g0 vector.Vector
	if s.Method == Forward {
		g0 = df(x)
	}
	for i, v := range x {
		h := s.step(v)
		switch s.Method {
		case Central:
			x[i] = v - h
			g1 := df(x)[i]
			x[i] = v + h
			g2 := df(x)[i]
			d[i] = (g2 - g1) / (2 * h)
		default:
			x[i] = v + h
			d[i] = (df(x)[i] - g0[i]) / h
		}
		x[i] = v
	}
	return d
}
