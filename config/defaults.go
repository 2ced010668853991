// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// ApplyDefaults sets default values for any zero values in cfg.
// Iteration budgets stay zero so that each solver sizes them by dimension.
func ApplyDefaults(cfg *Config) {
	if cfg.Trace == "" {
		cfg.Trace = "last"
	}
	if cfg.Krylov.Tolerance == 0 {
		cfg.Krylov.Tolerance = 1e-10
	}
	if cfg.LineSearch.GradientTolerance == 0 {
		cfg.LineSearch.GradientTolerance = 1e-8
	}
	if cfg.LineSearch.Threshold == 0 {
		cfg.LineSearch.Threshold = 0.1
	}
	if cfg.Newton.GradientTolerance == 0 {
		cfg.Newton.GradientTolerance = 1e-8
	}
	if cfg.Barrier.DualityGap == 0 {
		cfg.Barrier.DualityGap = 1e-8
	}
	if cfg.Barrier.InitialScale == 0 {
		cfg.Barrier.InitialScale = 1
	}
	if cfg.Barrier.ScaleFactor == 0 {
		cfg.Barrier.ScaleFactor = 10
	}
	if cfg.Barrier.MaxStages == 0 {
		cfg.Barrier.MaxStages = 64
	}
	if cfg.Barrier.Method == "" {
		cfg.Barrier.Method = MethodNewton
	}
	if cfg.Barrier.Jacobi == nil {
		t := true
		cfg.Barrier.Jacobi = &t
	}
}

// decodeStrict decodes a single YAML document into out, rejecting unknown keys.
// An empty document leaves out untouched.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
