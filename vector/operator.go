// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vector

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Operator represents a square matrix implicitly by its matrix-vector product.
type Operator interface {
	// Apply returns A·x. Apply must not modify x.
	Apply(x Vector) Vector
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc func(x Vector) Vector

// Apply calls f(x).
func (f OperatorFunc) Apply(x Vector) Vector { return f(x) }

type zeroOp struct{}

func (zeroOp) Apply(x Vector) Vector { return New(len(x)) }

type identityOp struct{}

func (identityOp) Apply(x Vector) Vector { return x.Clone() }

var (
	// Zero is the zero operator of any dimension.
	Zero Operator = zeroOp{}
	// Identity is the identity operator of any dimension.
	Identity Operator = identityOp{}
)

// DiagonalOp is the operator diag(d).
type DiagonalOp struct {
	d Vector
}

// Diagonal returns the operator diag(d). The diagonal is copied.
func Diagonal(d Vector) *DiagonalOp {
	return &DiagonalOp{d: d.Clone()}
}

// Apply returns diag(d)·x.
func (o *DiagonalOp) Apply(x Vector) Vector { return o.d.Mul(x) }

// Diagonal returns a copy of the diagonal.
func (o *DiagonalOp) Diagonal() Vector { return o.d.Clone() }

// DenseOp is an operator backed by an explicit n×n matrix.
type DenseOp struct {
	m *mat.Dense
}

// Dense returns the operator of the square matrix given by rows.
// It returns an error wrapping ErrDimensionMismatch when rows is empty or
// not square.
func Dense(rows [][]float64) (*DenseOp, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("empty matrix: %w", ErrDimensionMismatch)
	}
	data := make([]float64, 0, n*n)
	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(r), n, ErrDimensionMismatch)
		}
		data = append(data, r...)
	}
	return &DenseOp{m: mat.NewDense(n, n, data)}, nil
}

// MustDense is like Dense but panics on malformed input.
// It simplifies literal matrices in tests and examples.
func MustDense(rows [][]float64) *DenseOp {
	op, err := Dense(rows)
	if err != nil {
		panic(err)
	}
	return op
}

// DenseFunc returns the n×n operator with entries f(i, j).
func DenseFunc(n int, f func(i, j int) float64) *DenseOp {
	if n <= 0 {
		panic("vector: non-positive dimension")
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Set(i, j, f(i, j))
		}
	}
	return &DenseOp{m: m}
}

// Apply returns M·x.
func (o *DenseOp) Apply(x Vector) Vector {
	n, _ := o.m.Dims()
	if len(x) != n {
		panic(fmt.Errorf("operator is %d×%d, vector has length %d: %w", n, n, len(x), ErrDimensionMismatch))
	}
	var y mat.VecDense
	y.MulVec(o.m, mat.NewVecDense(n, x.Clone()))
	return Of(y.RawVector().Data...)
}

// Dim returns the dimension of the operator.
func (o *DenseOp) Dim() int {
	n, _ := o.m.Dims()
	return n
}

// At returns the (i, j) entry.
func (o *DenseOp) At(i, j int) float64 { return o.m.At(i, j) }

// Diagonal returns the matrix diagonal.
func (o *DenseOp) Diagonal() Vector {
	return Generate(o.Dim(), func(i int) float64 { return o.m.At(i, i) })
}

// IsSymmetric reports whether the matrix is symmetric within tol.
func (o *DenseOp) IsSymmetric(tol float64) bool {
	return mat.EqualApprox(o.m, o.m.T(), tol)
}

// IndexFunc returns the operator with entries f(i, j) whose dimension is taken
// from the argument of each Apply.
func IndexFunc(f func(i, j int) float64) Operator {
	return OperatorFunc(func(x Vector) Vector {
		n := len(x)
		return Generate(n, func(i int) float64 {
			var s float64
			for j := 0; j < n; j++ {
				s += f(i, j) * x[j]
			}
			return s
		})
	})
}

// Scaled returns the operator a·A.
func Scaled(a float64, op Operator) Operator {
	return OperatorFunc(func(x Vector) Vector { return op.Apply(x).Scale(a) })
}

// Sum returns the operator A₀ + A₁ + ... . Nil operators are skipped.
func Sum(ops ...Operator) Operator {
	return OperatorFunc(func(x Vector) Vector {
		y := New(len(x))
		for _, op := range ops {
			if op != nil {
				y = y.Add(op.Apply(x))
			}
		}
		return y
	})
}
