// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chromiumos/wmharness/common/android/wm/check"
	"chromiumos/wmharness/common/wmerrors"
)

// checkResult is printed by the check command.
type checkResult struct {
	OK       bool        `json:"ok" yaml:"ok"`
	Failure  string      `json:"failure,omitempty" yaml:"failure,omitempty"`
	Expected interface{} `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   interface{} `json:"actual,omitempty" yaml:"actual,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	var noBounds bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sample the device once and run the consistency checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.harness.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			err = check.Sanity(st)
			if err == nil && !noBounds {
				err = check.ValidBounds(st, true)
			}
			res := checkResult{OK: err == nil}
			var af *wmerrors.AssertionFailure
			if errors.As(err, &af) {
				res.Failure = af.Message
				res.Expected = af.Expected
				res.Actual = af.Actual
			} else if err != nil {
				return err
			}
			if perr := a.out.Print(res); perr != nil {
				return perr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noBounds, "no-bounds", false, "Skip the bounds checks")
	return cmd
}
