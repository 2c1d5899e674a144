// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chromiumos/wmharness/common/android/adb"
)

func newLaunchCmd(a *app) *cobra.Command {
	opts := adb.DefaultStartOptions()
	cmd := &cobra.Command{
		Use:   "launch <component>",
		Short: "Start an activity and wait for it to become visible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.harness.LaunchActivity(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.out.Print(st)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.StackID, "stack", opts.StackID, "Stack to launch into")
	flags.IntVar(&opts.DisplayID, "display", opts.DisplayID, "Display to launch on")
	flags.BoolVar(&opts.NewTask, "new-task", false, "Launch into a new task")
	flags.StringToStringVar(&opts.Extras, "extra", nil, "String extras passed to the activity")
	return cmd
}

func newRotateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <0-3>",
		Short: "Lock the display rotation and wait for it to apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := strconv.Atoi(args[0])
			if err != nil || r < 0 || r > 3 {
				return errors.Errorf("invalid rotation %q", args[0])
			}
			st, err := a.harness.SetRotation(cmd.Context(), r)
			if err != nil {
				return err
			}
			return a.out.Print(st)
		},
	}
}

func newForceStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "force-stop <package>",
		Short: "Force-stop every activity of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.harness.ForceStop(cmd.Context(), args[0])
		},
	}
}
