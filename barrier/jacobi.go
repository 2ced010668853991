// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"math"

	"github.com/curioloop/interior/numdiff"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

// Preconditioner yields for a barrier scale t an approximation of the inverse
// Hessian of the centering objective 𝒇 + φ/t.
//
// Conjugate gradient directions do not change under a positive scaling of the
// preconditioner, so a preconditioner built for t·𝒇 + φ serves as well.
type Preconditioner func(t float64) objective.TensorFunc

// JacobiPreconditioner returns the inverse diagonal of the Hessian of 𝒇 + φ/t,
//
//	diag = d2fd(𝐱) + (1/t)·Σᵢ ( 𝒇𝒄ᵢ′(𝐱)² / 𝒇𝒄ᵢ(𝐱)² − d2fcd(i)(𝐱) / 𝒇𝒄ᵢ(𝐱) )
//
// where d2fd is the Hessian diagonal of the objective and d2fcd(i) that of the
// i-th constraint, squares taken element-wise. A nil d2fd stands for zero
// objective curvature and a nil d2fcd for linear constraints. Entries of the
// diagonal that are not positive and finite are replaced by 1.
func JacobiPreconditioner(d2fd objective.VectorFunc, n int, cons Constraints, d2fcd func(i int) objective.VectorFunc) Preconditioner {
	return func(t float64) objective.TensorFunc {
		return func(x vector.Vector) vector.Operator {
			diag := vector.New(n)
			if d2fd != nil {
				diag = diag.Add(d2fd(x))
			}
			for i := 0; i < cons.Len(); i++ {
				fc := cons.Value(i, x)
				dfc := cons.Gradient(i, x)
				term := dfc.Mul(dfc).Scale(1 / (fc * fc))
				if d2fcd != nil {
					term = term.AddScaled(-1/fc, d2fcd(i)(x))
				}
				diag = diag.AddScaled(1/t, term)
			}
			return vector.Diagonal(diag.Map(invertOrOne))
		}
	}
}

// JacobiFromGradient is JacobiPreconditioner with every Hessian diagonal
// estimated by finite differences of df and of the constraint gradients.
func JacobiFromGradient(df objective.VectorFunc, n int, cons Constraints) Preconditioner {
	spec := numdiff.Spec{}
	d2fd := func(x vector.Vector) vector.Vector {
		return spec.HessianDiagonal(df, x)
	}
	d2fcd := func(i int) objective.VectorFunc {
		dfc := func(x vector.Vector) vector.Vector { return cons.Gradient(i, x) }
		return func(x vector.Vector) vector.Vector {
			return spec.HessianDiagonal(dfc, x)
		}
	}
	return JacobiPreconditioner(d2fd, n, cons, d2fcd)
}

func invertOrOne(v float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return 1 / v
	}
	return 1
}
