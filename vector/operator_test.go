// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinOperators(t *testing.T) {
	x := Of(1, -2, 3)

	require.Equal(t, Of(0, 0, 0), Zero.Apply(x))
	require.Equal(t, x, Identity.Apply(x))
	require.Equal(t, Of(2, -6, 12), Diagonal(Of(2, 3, 4)).Apply(x))

	twice := OperatorFunc(func(x Vector) Vector { return x.Scale(2) })
	require.Equal(t, Of(2, -4, 6), twice.Apply(x))
	require.Equal(t, Of(-3, 6, -9), Scaled(-1.5, twice).Apply(x))
	require.Equal(t, Of(3, -6, 9), Sum(twice, nil, Identity).Apply(x))
}

func TestDenseOperator(t *testing.T) {
	a := MustDense([][]float64{
		{4, 2, 2},
		{2, 4, 2},
		{2, 2, 4},
	})
	require.Equal(t, 3, a.Dim())
	require.Equal(t, Of(14, 16, 18), a.Apply(Of(1, 2, 3)))
	require.Equal(t, Of(4, 4, 4), a.Diagonal())
	require.True(t, a.IsSymmetric(0))
	require.Equal(t, 2.0, a.At(0, 2))

	b := DenseFunc(3, func(i, j int) float64 {
		if i == j {
			return 1
		}
		return 0
	})
	require.Equal(t, Of(7, 8, 9), b.Apply(Of(7, 8, 9)))

	_, err := Dense([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	_, err = Dense(nil)
	require.ErrorIs(t, err, ErrDimensionMismatch)

	require.Panics(t, func() { a.Apply(Of(1, 2)) })

	asym := MustDense([][]float64{{1, 2}, {0, 1}})
	require.False(t, asym.IsSymmetric(1e-12))
}

func TestIndexFuncOperator(t *testing.T) {
	ones := IndexFunc(func(i, j int) float64 { return 1 })
	require.Equal(t, Of(3), ones.Apply(Of(3)))
	require.Equal(t, Of(6, 6, 6), ones.Apply(Of(1, 2, 3)))

	eye := IndexFunc(func(i, j int) float64 {
		if i == j {
			return 1
		}
		return 0
	})
	require.Equal(t, Of(5, 6), eye.Apply(Of(5, 6)))
}
