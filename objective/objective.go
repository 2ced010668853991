// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package objective names the callable capabilities that the minimizers consume:
// objective values, gradients, Hessian fields, stopping criteria and domain
// indicators.
package objective

import (
	"github.com/curioloop/interior/vector"
)

// ScalarFunc evaluates 𝒇(𝐱) : ℝⁿ → ℝ.
type ScalarFunc func(x vector.Vector) float64

// VectorFunc evaluates a map ℝⁿ → ℝⁿ, typically a gradient 𝒇′(𝐱).
type VectorFunc func(x vector.Vector) vector.Vector

// TensorFunc evaluates an operator field, typically the Hessian 𝒇″(𝐱)
// represented by its Hessian-vector product.
type TensorFunc func(x vector.Vector) vector.Operator

// Constant returns the TensorFunc that yields op everywhere.
func Constant(op vector.Operator) TensorFunc {
	return func(vector.Vector) vector.Operator { return op }
}

// StoppingCriterion decides from the current gradient (or residual)
// whether an iteration has converged.
type StoppingCriterion interface {
	Stop(g vector.Vector) bool
}

// StopFunc adapts a predicate to StoppingCriterion.
type StopFunc func(g vector.Vector) bool

// Stop calls f(g).
func (f StopFunc) Stop(g vector.Vector) bool { return f(g) }

// GradientNorm stops once ‖g‖₂ < tol.
type GradientNorm float64

// Stop reports whether ‖g‖₂ < tol.
func (tol GradientNorm) Stop(g vector.Vector) bool {
	return g.Norm2() < float64(tol)
}

// FeasibilityPredicate flags points outside of the domain of an objective.
type FeasibilityPredicate interface {
	// OutOfDomain reports whether x is infeasible.
	OutOfDomain(x vector.Vector) bool
}

// DomainFunc adapts a predicate to FeasibilityPredicate.
type DomainFunc func(x vector.Vector) bool

// OutOfDomain calls f(x).
func (f DomainFunc) OutOfDomain(x vector.Vector) bool { return f(x) }

// Unbounded is the predicate of ℝⁿ: it never flags.
var Unbounded FeasibilityPredicate = DomainFunc(func(vector.Vector) bool { return false })
