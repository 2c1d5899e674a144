// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config loads harness settings from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/poll"
)

// Prefix is prepended to every environment variable, e.g. WMHARNESS_ADB_SERIAL.
// The unprefixed names are honored too.
const Prefix = "WMHARNESS"

// Config holds all harness configuration.
type Config struct {
	ADBPath   string `envconfig:"ADB_PATH" default:"adb"`
	ADBSerial string `envconfig:"ADB_SERIAL"`

	PollAttempts int           `envconfig:"POLL_ATTEMPTS" default:"5"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	PollTimeout  time.Duration `envconfig:"POLL_TIMEOUT" default:"0s"`

	// StoppedActivitiesInterval is the interval used while waiting for all
	// activities to stop; stopping is slower than other transitions.
	StoppedActivitiesInterval time.Duration `envconfig:"STOPPED_ACTIVITIES_INTERVAL" default:"1500ms"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT" default:"false"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the default configuration without reading the environment.
func Default() *Config {
	return &Config{
		ADBPath:                   "adb",
		PollAttempts:              poll.DefaultMaxAttempts,
		PollInterval:              poll.DefaultInterval,
		StoppedActivitiesInterval: 1500 * time.Millisecond,
		LogLevel:                  "info",
	}
}

// Validate rejects settings the harness cannot run with.
func (c *Config) Validate() error {
	if c.ADBPath == "" {
		return errors.New("ADB_PATH must not be empty")
	}
	if c.PollAttempts < 1 {
		return errors.Errorf("POLL_ATTEMPTS must be at least 1, got %d", c.PollAttempts)
	}
	if c.PollInterval < 0 || c.PollTimeout < 0 || c.StoppedActivitiesInterval < 0 {
		return errors.New("poll durations must not be negative")
	}
	return nil
}

// Policy returns the polling policy shared by every wait.
func (c *Config) Policy() poll.Policy {
	return poll.Policy{
		MaxAttempts: c.PollAttempts,
		Interval:    c.PollInterval,
		Timeout:     c.PollTimeout,
	}
}

// Logging returns the logger configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.LogLevel, Development: c.LogDevelopment, Serial: c.ADBSerial}
}
