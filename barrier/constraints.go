// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"fmt"
	"math"

	"github.com/curioloop/interior/numdiff"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

// Constraints is an indexed family of inequality constraints 𝒇𝒄ᵢ(𝐱) ≤ 0.
type Constraints interface {
	// Len returns the number of constraints m.
	Len() int
	// Value returns 𝒇𝒄ᵢ(𝐱).
	Value(i int, x vector.Vector) float64
	// Gradient returns 𝒇𝒄ᵢ′(𝐱).
	Gradient(i int, x vector.Vector) vector.Vector
	// Hessian returns 𝒇𝒄ᵢ″(𝐱) as an operator.
	Hessian(i int, x vector.Vector) vector.Operator
}

// Family adapts indexed callables to Constraints.
// A nil D2F approximates the constraint Hessians by finite differences of DF.
type Family struct {
	Count int
	F     func(i int) objective.ScalarFunc
	DF    func(i int) objective.VectorFunc
	D2F   func(i int) objective.TensorFunc
}

// Len returns Count.
func (c Family) Len() int { return c.Count }

// Value evaluates F(i) at x.
func (c Family) Value(i int, x vector.Vector) float64 { return c.F(i)(x) }

// Gradient evaluates DF(i) at x.
func (c Family) Gradient(i int, x vector.Vector) vector.Vector { return c.DF(i)(x) }

// Hessian evaluates D2F(i) at x, or the central difference Hessian of DF(i)
// when D2F is nil.
func (c Family) Hessian(i int, x vector.Vector) vector.Operator {
	if c.D2F == nil {
		return numdiff.Spec{Method: numdiff.Central}.Hessian(c.DF(i))(x)
	}
	return c.D2F(i)(x)
}

type boundHint int8

const (
	bndLow boundHint = iota
	bndUp
)

type bound struct {
	index int
	hint  boundHint
	value float64
}

// BoxConstraints are the linear constraints lᵢ ≤ xᵢ ≤ uᵢ.
type BoxConstraints struct {
	n      int
	bounds []bound
}

// Box returns the constraints lower ≤ x ≤ upper. A NaN or infinite entry
// leaves that side unbounded; nil leaves every entry unbounded on that side.
func Box(lower, upper vector.Vector) (*BoxConstraints, error) {
	n := max(len(lower), len(upper))
	if lower != nil && len(lower) != n || upper != nil && len(upper) != n {
		return nil, fmt.Errorf("bounds have length %d and %d: %w", len(lower), len(upper), vector.ErrDimensionMismatch)
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	b := &BoxConstraints{n: n}
	for i := 0; i < n; i++ {
		l, u := math.NaN(), math.NaN()
		if lower != nil {
			l = lower[i]
		}
		if upper != nil {
			u = upper[i]
		}
		if finite(l) && finite(u) && l >= u {
			return nil, fmt.Errorf("bound range at %d has no interior", i)
		}
		if finite(l) {
			b.bounds = append(b.bounds, bound{i, bndLow, l})
		}
	}
	for i := 0; i < n && upper != nil; i++ {
		if finite(upper[i]) {
			b.bounds = append(b.bounds, bound{i, bndUp, upper[i]})
		}
	}
	return b, nil
}

// Len returns the number of finite bounds.
func (b *BoxConstraints) Len() int { return len(b.bounds) }

// Value returns lᵢ − xᵢ for a lower bound and xᵢ − uᵢ for an upper one.
func (b *BoxConstraints) Value(i int, x vector.Vector) float64 {
	c := b.bounds[i]
	if c.hint == bndLow {
		return c.value - x[c.index]
	}
	return x[c.index] - c.value
}

// Gradient returns −eₖ for a lower bound on xₖ and eₖ for an upper one.
func (b *BoxConstraints) Gradient(i int, _ vector.Vector) vector.Vector {
	c := b.bounds[i]
	g := vector.New(b.n)
	if c.hint == bndLow {
		g[c.index] = -1
	} else {
		g[c.index] = 1
	}
	return g
}

// Hessian returns the zero operator; bounds are linear.
func (b *BoxConstraints) Hessian(int, vector.Vector) vector.Operator { return vector.Zero }

// Interior reports whether x lies strictly inside the box.
func (b *BoxConstraints) Interior(x vector.Vector) bool {
	return len(x) == b.n && strictlyFeasible(b, x)
}

func strictlyFeasible(c Constraints, x vector.Vector) bool {
	for i := 0; i < c.Len(); i++ {
		if !(c.Value(i, x) < 0) {
			return false
		}
	}
	return true
}

// logBarrier evaluates the terms of φ(𝐱) = −Σ log(−𝒇𝒄ᵢ(𝐱)) for one family.
type logBarrier struct {
	cons Constraints
}

func (b logBarrier) OutOfDomain(x vector.Vector) bool {
	return !strictlyFeasible(b.cons, x)
}

func (b logBarrier) value(x vector.Vector) float64 {
	var phi float64
	for i := 0; i < b.cons.Len(); i++ {
		phi -= math.Log(-b.cons.Value(i, x))
	}
	return phi
}

// gradient returns ∇φ = Σ 𝒇𝒄ᵢ′ / (−𝒇𝒄ᵢ).
func (b logBarrier) gradient(x vector.Vector) vector.Vector {
	g := vector.New(len(x))
	for i := 0; i < b.cons.Len(); i++ {
		g = g.AddScaled(-1/b.cons.Value(i, x), b.cons.Gradient(i, x))
	}
	return g
}

// hessian returns ∇²φ = Σ 𝒇𝒄ᵢ′𝒇𝒄ᵢ′ᵀ / 𝒇𝒄ᵢ² + 𝒇𝒄ᵢ″ / (−𝒇𝒄ᵢ).
func (b logBarrier) hessian(x vector.Vector) vector.Operator {
	m := b.cons.Len()
	fc := make([]float64, m)
	dfc := make([]vector.Vector, m)
	d2fc := make([]vector.Operator, m)
	for i := 0; i < m; i++ {
		fc[i] = b.cons.Value(i, x)
		dfc[i] = b.cons.Gradient(i, x)
		d2fc[i] = b.cons.Hessian(i, x)
	}
	return vector.OperatorFunc(func(v vector.Vector) vector.Vector {
		h := vector.New(len(v))
		for i := 0; i < m; i++ {
			h = h.AddScaled(dfc[i].Dot(v)/(fc[i]*fc[i]), dfc[i])
			h = h.AddScaled(-1/fc[i], d2fc[i].Apply(v))
		}
		return h
	})
}

// lambda returns λᵢ = −1/(t·𝒇𝒄ᵢ(𝐱)).
func (b logBarrier) lambda(t float64) objective.VectorFunc {
	return func(x vector.Vector) vector.Vector {
		return vector.Generate(b.cons.Len(), func(i int) float64 {
			return -1 / (t * b.cons.Value(i, x))
		})
	}
}
