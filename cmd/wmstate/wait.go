// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"time"

	"github.com/spf13/cobra"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/android/wm/wmstate"
)

func newWaitCmd(a *app) *cobra.Command {
	var (
		visible  []string
		stackID  int
		attempts int
		interval time.Duration
		noBounds bool
	)
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the device settles, optionally with activities visible",
		Long: `wait samples the device until its state is consistent and every
activity given with --visible is shown, then prints the state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.harness.Policy()
			if attempts > 0 {
				p = p.WithAttempts(attempts)
			}
			if interval > 0 {
				p = p.WithInterval(interval)
			}
			h := wmstate.New(a.ch, p)
			h.SetStoppedActivitiesInterval(a.cfg.StoppedActivitiesInterval)

			var acts []wmstate.WaitForActivity
			for _, c := range visible {
				if stackID != wm.InvalidStackID {
					acts = append(acts, wmstate.ActivityInStack(c, stackID))
				} else {
					acts = append(acts, wmstate.Activity(c))
				}
			}
			st, err := h.ComputeStateWithOptions(cmd.Context(), wmstate.ComputeOptions{SkipBoundsComparison: noBounds}, acts...)
			if err != nil {
				return err
			}
			return a.out.Print(st)
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&visible, "visible", nil, "Components that must be visible, e.g. com.example/.MainActivity")
	flags.IntVar(&stackID, "stack", wm.InvalidStackID, "Stack the --visible activities must be in")
	flags.IntVar(&attempts, "attempts", 0, "Maximum number of samples; defaults to the configured policy")
	flags.DurationVar(&interval, "interval", 0, "Delay between samples; defaults to the configured policy")
	flags.BoolVar(&noBounds, "no-bounds", false, "Skip comparing task and stack bounds")
	return cmd
}
