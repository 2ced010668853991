// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging provides the leveled tracing shared by every solver.
package logging

import (
	"go.uber.org/zap"
)

// Level controls the frequency and type of solver output.
type Level int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop Level = -1
	// LogLast print only one line when a solve finishes
	LogLast Level = 0
	// LogEval print also a summary line for every outer iteration or stage
	LogEval Level = 1
	// LogTrace print details of every iteration, inner solves included
	LogTrace Level = 99
)

// Logger handles logging output for the solvers.
// A nil *Logger, or one without a zap logger, discards everything.
type Logger struct {
	Level Level
	Zap   *zap.Logger
}

// New returns a zap logger. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Enabled reports whether messages at level are emitted.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.Zap != nil && l.Level >= level
}

// Log emits msg when level is enabled. LogLast lines are written at info
// severity, finer levels at debug severity.
func (l *Logger) Log(level Level, msg string, fields ...zap.Field) {
	if !l.Enabled(level) {
		return
	}
	if level <= LogLast {
		l.Zap.Info(msg, fields...)
	} else {
		l.Zap.Debug(msg, fields...)
	}
}

// Named returns a logger whose zap logger carries the given name segment.
func (l *Logger) Named(name string) *Logger {
	if l == nil || l.Zap == nil {
		return l
	}
	return &Logger{Level: l.Level, Zap: l.Zap.Named(name)}
}
