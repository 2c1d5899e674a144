// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
)

func newActivitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "Print the activity manager state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.raw {
				out, err := a.fetcher.ActivityDump(ctx)
				if err != nil {
					return err
				}
				return a.out.Raw(out)
			}
			snap, err := a.fetcher.Activities(ctx)
			if err != nil {
				return err
			}
			return a.out.Print(snap)
		},
	}
}

func newWindowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "Print the window manager state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.raw {
				out, err := a.fetcher.WindowDump(ctx)
				if err != nil {
					return err
				}
				return a.out.Raw(out)
			}
			snap, err := a.fetcher.Windows(ctx)
			if err != nil {
				return err
			}
			return a.out.Print(snap)
		},
	}
}

func newDisplayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "display",
		Short: "Print the size and density of the default display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.raw {
				size, density, err := a.fetcher.DisplayMetricsDump(ctx)
				if err != nil {
					return err
				}
				if err := a.out.Raw(size); err != nil {
					return err
				}
				return a.out.Raw(density)
			}
			m, err := a.fetcher.DisplayMetrics(ctx)
			if err != nil {
				return err
			}
			return a.out.Print(m)
		},
	}
}
