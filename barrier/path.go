// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/curioloop/interior/logging"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

// center is the outcome of one centering problem.
type center struct {
	x         vector.Vector
	converged bool
	status    fmt.Stringer
	numIter   int
}

// centering minimizes 𝒇 + φ/t from x.
type centering func(t float64, x vector.Vector) (center, error)

// path follows the central path from the strictly feasible x0.
type path struct {
	opts   Options
	lambda func(t float64) objective.VectorFunc
	solve  centering
}

func (p *path) follow(x0 vector.Vector) (*Certificate, error) {

	log := p.opts.Logger

	cert := &Certificate{}
	x := x0.Clone()
	t := p.opts.BarrierInitialScale

	for k := 0; k < p.opts.MaxStages; k++ {
		if k > 0 {
			t *= p.opts.BarrierScaleFactor
		}

		c, err := p.solve(t, x)
		if err != nil {
			return nil, fmt.Errorf("barrier: stage %d (t=%g): %w", k, t, err)
		}
		x = c.x

		cert.Lambda = p.lambda(t)(x)
		cert.Gap = float64(len(cert.Lambda)) / t
		cert.Stages = append(cert.Stages, Stage{
			T:         t,
			Gap:       cert.Gap,
			Converged: c.converged,
			Status:    c.status.String(),
			NumIter:   c.numIter,
		})

		if log.Enabled(logging.LogEval) {
			log.Log(logging.LogEval, "barrier stage",
				zap.Int("stage", k),
				zap.Float64("t", t),
				zap.Float64("gap", cert.Gap),
				zap.Stringer("inner", c.status),
				zap.Int("iter", c.numIter))
		}

		if cert.Gap < p.opts.DualityGap {
			cert.OK = true
			break
		}
	}

	cert.Optimum = x

	if log.Enabled(logging.LogLast) {
		log.Log(logging.LogLast, "barrier path finished",
			zap.Bool("ok", cert.OK),
			zap.Int("stages", len(cert.Stages)),
			zap.Float64("gap", cert.Gap),
			zap.Stringer("optimum", x))
	}
	return cert, nil
}

// scaled returns 𝒇 + φ/t for the scalar callables.
func scaled(f, phi objective.ScalarFunc, t float64) objective.ScalarFunc {
	return func(x vector.Vector) float64 {
		return f(x) + phi(x)/t
	}
}

// scaledGradient returns ∇𝒇 + ∇φ/t.
func scaledGradient(df, dphi objective.VectorFunc, t float64) objective.VectorFunc {
	return func(x vector.Vector) vector.Vector {
		return df(x).AddScaled(1/t, dphi(x))
	}
}

// scaledHessian returns ∇²𝒇 + ∇²φ/t.
func scaledHessian(d2f, d2phi objective.TensorFunc, t float64) objective.TensorFunc {
	return func(x vector.Vector) vector.Operator {
		return vector.Sum(d2f(x), vector.Scaled(1/t, d2phi(x)))
	}
}

// innerLogger returns the logger of inner solves: the configured one, or a
// child of the path logger when tracing.
func innerLogger(inner, outer *logging.Logger) *logging.Logger {
	if inner == nil && outer.Enabled(logging.LogTrace) {
		return outer.Named("inner")
	}
	return inner
}
