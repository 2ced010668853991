// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"math"
	"os"

	"github.com/curioloop/interior/barrier"
	"github.com/curioloop/interior/vector"
)

const symmetryTolerance = 1e-12

// Problem describes a symmetric system A·x = rhs, or the box constrained
// quadratic program
//
//	minimize ½xᵀAx + rhsᵀx subject to lower ≤ x ≤ upper.
//
// Lower, Upper and Start are optional. Missing or infinite bounds leave the
// corresponding side unbounded.
type Problem struct {
	Matrix [][]float64 `yaml:"matrix"`
	RHS    []float64   `yaml:"rhs"`
	Lower  []float64   `yaml:"lower,omitempty"`
	Upper  []float64   `yaml:"upper,omitempty"`
	Start  []float64   `yaml:"start,omitempty"`
}

// LoadProblem reads and checks the problem file at path.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem: %w", err)
	}
	return ParseProblem(data)
}

// ParseProblem decodes a problem document and checks its dimensions.
func ParseProblem(data []byte) (*Problem, error) {
	var p Problem
	if err := decodeStrict(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse problem: %w", err)
	}
	n := p.Dim()
	if n == 0 {
		return nil, fmt.Errorf("problem has no matrix: %w", vector.ErrDimensionMismatch)
	}
	if err := vector.CheckDim("rhs", p.RHS, n); err != nil {
		return nil, err
	}
	for _, opt := range []struct {
		name string
		v    []float64
	}{{"lower", p.Lower}, {"upper", p.Upper}, {"start", p.Start}} {
		if opt.v == nil {
			continue
		}
		if err := vector.CheckDim(opt.name, opt.v, n); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Dim returns the problem dimension.
func (p *Problem) Dim() int { return len(p.Matrix) }

// Operator returns A, rejecting a matrix that is not symmetric.
func (p *Problem) Operator() (*vector.DenseOp, error) {
	a, err := vector.Dense(p.Matrix)
	if err != nil {
		return nil, err
	}
	if !a.IsSymmetric(symmetryTolerance) {
		return nil, fmt.Errorf("matrix is not symmetric: %w", ErrInvalid)
	}
	return a, nil
}

// Box returns the box constraints of the quadratic program.
func (p *Problem) Box() (*barrier.BoxConstraints, error) {
	return barrier.Box(p.Lower, p.Upper)
}

// InitialPoint returns Start when given. Otherwise each coordinate is the
// midpoint of a finite range, one unit inside a single bound, or zero.
func (p *Problem) InitialPoint() vector.Vector {
	if p.Start != nil {
		return vector.Of(p.Start...)
	}
	bound := func(b []float64, i int) (float64, bool) {
		if b == nil || math.IsNaN(b[i]) || math.IsInf(b[i], 0) {
			return 0, false
		}
		return b[i], true
	}
	return vector.Generate(p.Dim(), func(i int) float64 {
		l, hasL := bound(p.Lower, i)
		u, hasU := bound(p.Upper, i)
		switch {
		case hasL && hasU:
			return l + (u-l)/2
		case hasL:
			return l + 1
		case hasU:
			return u - 1
		}
		return 0
	})
}
