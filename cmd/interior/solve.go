// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curioloop/interior/config"
	"github.com/curioloop/interior/krylov"
	"github.com/curioloop/interior/vector"
)

type solveOutput struct {
	OK         bool          `json:"ok"`
	Status     string        `json:"status"`
	Iterations int           `json:"iterations"`
	Residual   float64       `json:"residual"`
	X          vector.Vector `json:"x"`
}

func NewSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a symmetric linear system",
		Long: `Solve matrix · x = rhs by the conjugate gradient method,
starting from the problem start point or from zero.`,
		Args: cobra.NoArgs,
		RunE: runSolve,
	}
	addProblemFlag(cmd)
	return cmd
}

func runSolve(cmd *cobra.Command, _ []string) error {
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
		return fmt.Errorf("solve: %w", err)
	}

	x0 := vector.New(p.Dim())
	if p.Start != nil {
		x0 = vector.Of(p.Start...)
	}
	opts := e.cfg.KrylovOptions()
	opts.Logger = e.logger.Named("krylov")

	r, err := krylov.Solve(a, vector.Of(p.RHS...), x0, opts)
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	out := solveOutput{
		OK:         r.OK,
		Status:     r.Status.String(),
		Iterations: r.NumIter,
		Residual:   r.Residual,
		X:          r.X,
	}
	if e.asJSON {
		return outputJSON(cmd, out)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "status:     %s\n", out.Status)
	fmt.Fprintf(w, "iterations: %d\n", out.Iterations)
	fmt.Fprintf(w, "residual:   %g\n", out.Residual)
	fmt.Fprintf(w, "x:          %v\n", out.X)
	return nil
}
