// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vector provides the dense vector value and the implicit linear
// operator capability consumed by the solvers of this module.
//
// Arithmetic never mutates its receiver: every operation returns a new
// vector. Mixing vectors of different length is a programmer error and
// panics with an error wrapping ErrDimensionMismatch.
package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch reports operands of incompatible length.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// Vector is an ordered, fixed length sequence of reals.
type Vector []float64

// New returns the zero vector of length n.
func New(n int) Vector {
	if n < 0 {
		panic("vector: negative dimension")
	}
	return make(Vector, n)
}

// Of returns a vector holding a copy of values.
func Of(values ...float64) Vector {
	v := make(Vector, len(values))
	copy(v, values)
	return v
}

// Generate materializes f(0), ..., f(n-1) into a vector.
// f is evaluated exactly once per index, at construction.
func Generate(n int, f func(i int) float64) Vector {
	v := New(n)
	for i := range v {
		v[i] = f(i)
	}
	return v
}

// Len returns the dimension of v.
func (v Vector) Len() int { return len(v) }

// At returns the i-th component.
func (v Vector) At(i int) float64 { return v[i] }

// Clone returns a copy of v.
func (v Vector) Clone() Vector { return Of(v...) }

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	mustMatch(v, w)
	return floats.AddTo(New(len(v)), v, w)
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	mustMatch(v, w)
	return floats.SubTo(New(len(v)), v, w)
}

// Scale returns a·v.
func (v Vector) Scale(a float64) Vector {
	return floats.ScaleTo(New(len(v)), a, v)
}

// Neg returns -v.
func (v Vector) Neg() Vector { return v.Scale(-1) }

// AddScaled returns v + a·w.
func (v Vector) AddScaled(a float64, w Vector) Vector {
	mustMatch(v, w)
	return floats.AddScaledTo(New(len(v)), v, a, w)
}

// Mul returns the element-wise product of v and w.
func (v Vector) Mul(w Vector) Vector {
	mustMatch(v, w)
	return floats.MulTo(New(len(v)), v, w)
}

// Dot returns vᵀw.
func (v Vector) Dot(w Vector) float64 {
	mustMatch(v, w)
	return floats.Dot(v, w)
}

// Norm2 returns the Euclidean norm ‖v‖₂.
func (v Vector) Norm2() float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// Sum returns the sum of the components.
func (v Vector) Sum() float64 { return floats.Sum(v) }

// Map returns the vector (f(v₀), ..., f(vₙ₋₁)).
func (v Vector) Map(f func(float64) float64) Vector {
	w := New(len(v))
	for i, x := range v {
		w[i] = f(x)
	}
	return w
}

// Any reports whether pred holds for some component.
func (v Vector) Any(pred func(float64) bool) bool {
	for _, x := range v {
		if pred(x) {
			return true
		}
	}
	return false
}

// IsFinite reports whether no component is NaN or ±Inf.
func (v Vector) IsFinite() bool {
	return !v.Any(func(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) })
}

// EqualApprox reports whether v and w have the same length and agree
// component-wise within tol.
func (v Vector) EqualApprox(w Vector, tol float64) bool {
	return len(v) == len(w) && floats.EqualApprox(v, w, tol)
}

func (v Vector) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

// CheckDim returns an error wrapping ErrDimensionMismatch unless len(v) == n.
func CheckDim(name string, v Vector, n int) error {
	if len(v) != n {
		return fmt.Errorf("%s has length %d, want %d: %w", name, len(v), n, ErrDimensionMismatch)
	}
	return nil
}

func mustMatch(v, w Vector) {
	if len(v) != len(w) {
		panic(fmt.Errorf("%d != %d: %w", len(v), len(w), ErrDimensionMismatch))
	}
}
