// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/curioloop/interior/config"
	"github.com/curioloop/interior/logging"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "interior",
		Short:         "Conjugate gradient, truncated Newton and barrier solvers",
		Long:          `Solve symmetric linear systems and box constrained quadratic programs.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)
	rootCmd.AddCommand(
		NewSolveCmd(),
		NewQPCmd(),
	)
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Solver settings file (YAML)")
	cmd.PersistentFlags().Bool("debug", false, "Human readable debug logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

func addProblemFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("problem", "p", "", "Problem file (YAML)")
	_ = cmd.MarkFlagRequired("problem")
}

// env is the state shared by every subcommand run.
type env struct {
	cfg    *config.Config
	zap    *zap.Logger
	logger *logging.Logger
	asJSON bool
}

// setup loads the settings named by the persistent flags and builds the solver logger.
func setup(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	asJSON, _ := cmd.Flags().GetBool("json")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || debug

	z, err := logging.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &env{
		cfg:    cfg,
		zap:    z,
		logger: &logging.Logger{Level: cfg.Level(), Zap: z.Named("interior")},
		asJSON: asJSON,
	}, nil
}

func (e *env) close() { _ = e.zap.Sync() }

func outputJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
