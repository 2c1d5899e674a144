// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chromiumos/wmharness/common/android/adb"
	"chromiumos/wmharness/common/android/wm/dumpsys"
	"chromiumos/wmharness/common/android/wm/wmstate"
	"chromiumos/wmharness/common/config"
	"chromiumos/wmharness/common/logging"
)

// openFunc connects to the device described by cfg.
type openFunc func(ctx context.Context, cfg *config.Config) (adb.Channel, error)

func openDevice(ctx context.Context, cfg *config.Config) (adb.Channel, error) {
	d := adb.NewDevice(cfg.ADBPath, cfg.ADBSerial)
	if err := d.WaitForDevice(ctx, cfg.Policy()); err != nil {
		return nil, err
	}
	return d, nil
}

// app is the state shared by all subcommands, filled in before any of them
// runs.
type app struct {
	open openFunc

	cfg     *config.Config
	out     *printer
	ch      adb.Channel
	harness *wmstate.Harness
	fetcher *dumpsys.Fetcher

	serial    string
	adbPath   string
	logLevel  string
	format    string
	raw       bool
	killStale bool
}

func newRootCmd(open openFunc) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:          "wmstate",
		Short:        "Inspect and wait on Android window manager state",
		Long:         "wmstate fetches the activity and window manager dumps of a device, parses them and checks them for consistency.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setUp(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.serial, "serial", "s", "", "Device serial; defaults to $WMHARNESS_ADB_SERIAL")
	flags.StringVar(&a.adbPath, "adb", "", "Path of the adb binary; defaults to $WMHARNESS_ADB_PATH")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.format, "format", string(formatYAML), "Output format: yaml or json")
	flags.BoolVar(&a.raw, "raw", false, "Print raw dumps instead of parsed state")
	flags.BoolVar(&a.killStale, "kill-stale-server", false, "Kill orphaned adb servers before connecting")

	root.AddCommand(
		newActivitiesCmd(a),
		newWindowsCmd(a),
		newDisplayCmd(a),
		newWaitCmd(a),
		newCheckCmd(a),
		newLaunchCmd(a),
		newRotateCmd(a),
		newForceStopCmd(a),
	)
	return root
}

// setUp loads the configuration, applies flag overrides and connects to
// the device.
func (a *app) setUp(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.serial != "" {
		cfg.ADBSerial = a.serial
	}
	if a.adbPath != "" {
		cfg.ADBPath = a.adbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.out, err = newPrinter(cmd.OutOrStdout(), a.format); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	ctx := logging.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)

	if a.killStale {
		if err := adb.KillLocalServer(ctx, cfg.Policy()); err != nil {
			return err
		}
	}
	if a.ch, err = a.open(ctx, cfg); err != nil {
		return errors.Wrap(err, "failed to connect to device")
	}
	a.fetcher = dumpsys.NewFetcher(a.ch)
	a.harness = wmstate.New(a.ch, cfg.Policy())
	a.harness.SetStoppedActivitiesInterval(cfg.StoppedActivitiesInterval)
	return nil
}
