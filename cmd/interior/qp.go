// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curioloop/interior/barrier"
	"github.com/curioloop/interior/config"
	"github.com/curioloop/interior/objective"
	"github.com/curioloop/interior/vector"
)

type qpOutput struct {
	OK        bool          `json:"ok"`
	Method    string        `json:"method"`
	Objective float64       `json:"objective"`
	Gap       float64       `json:"gap"`
	Stages    int           `json:"stages"`
	X         vector.Vector `json:"x"`
	Lambda    vector.Vector `json:"lambda"`
}

func NewQPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qp",
		Short: "Minimize a box constrained quadratic",
		Long: `Minimize ½xᵀ·matrix·x + rhsᵀx subject to lower ≤ x ≤ upper by the
log-barrier method. The start point must lie strictly inside the box; the
box center is used when it is omitted.`,
		Args: cobra.NoArgs,
		RunE: runQP,
	}
	addProblemFlag(cmd)
	return cmd
}

func runQP(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	path, _ := cmd.Flags().GetString("problem")
	p, err := config.LoadProblem(path)
	if err != nil {
		return err
	}
	a, err := p.Operator()
	if err != nil {
		return fmt.Errorf("qp: %w", err)
	}
	box, err := p.Box()
	if err != nil {
		return fmt.Errorf("qp: %w", err)
	}

	c := vector.Of(p.RHS...)
	f := func(x vector.Vector) float64 { return 0.5*x.Dot(a.Apply(x)) + c.Dot(x) }
	df := func(x vector.Vector) vector.Vector { return a.Apply(x).Add(c) }
	x0 := p.InitialPoint()

	var m barrier.Preconditioner
	if e.cfg.Barrier.JacobiOrDefault() {
		m = barrier.JacobiPreconditioner(func(vector.Vector) vector.Vector { return a.Diagonal() }, p.Dim(), box, nil)
	}

	var cert *barrier.Certificate
	switch e.cfg.Barrier.Method {
	case config.MethodLineSearch:
		opts := e.cfg.BarrierLineSearchOptions()
		opts.Logger = e.logger.Named("barrier")
		cert, err = barrier.LineSearchMinimize(f, df, x0, box, opts, m)
	default:
		opts := e.cfg.BarrierNewtonOptions()
		opts.Logger = e.logger.Named("barrier")
		cert, err = barrier.NewtonMinimize(df, objective.Constant(a), x0, box, opts, m)
	}
	if err != nil {
		return fmt.Errorf("qp: %w", err)
	}

	out := qpOutput{
		OK:        cert.OK,
		Method:    e.cfg.Barrier.Method,
		Objective: f(cert.Optimum),
		Gap:       cert.Gap,
		Stages:    len(cert.Stages),
		X:         cert.Optimum,
		Lambda:    cert.Lambda,
	}
	if e.asJSON {
		return outputJSON(cmd, out)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ok:        %t\n", out.OK)
	fmt.Fprintf(w, "method:    %s\n", out.Method)
	fmt.Fprintf(w, "objective: %g\n", out.Objective)
	fmt.Fprintf(w, "gap:       %g\n", out.Gap)
	fmt.Fprintf(w, "stages:    %d\n", out.Stages)
	fmt.Fprintf(w, "x:         %v\n", out.X)
	fmt.Fprintf(w, "lambda:    %v\n", out.Lambda)
	return nil
}
