// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logging provides the zap logger used across the harness and the
// helpers to carry it in a context.Context.
package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger.
type Logger struct {
	*zap.Logger
}

// Config selects the level and encoding of the harness logger.
type Config struct {
	Level string // "debug", "info", "warn", "error"
	// Development switches to the console encoder and enables stack traces.
	Development bool
	// Serial, when set, is attached to every entry.
	Serial string
}

// New builds a logger writing to stderr, leaving stdout to command output.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, errors.Wrapf(err, "bad log level %q", cfg.Level)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	var opts []zap.Option
	if cfg.Serial != "" {
		opts = append(opts, zap.Fields(Serial(cfg.Serial)))
	}
	l, err := zc.Build(opts...)
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: l}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Serial tags an entry with the device serial.
func Serial(s string) zap.Field { return zap.String("serial", s) }

// Command tags an entry with the device command line it concerns.
func Command(cmd string) zap.Field { return zap.String("command", cmd) }

// Attempt tags an entry with polling attempt n (1-based) of of.
func Attempt(n, of int) zap.Field {
	return zap.Dict("attempt", zap.Int("n", n), zap.Int("of", of))
}
