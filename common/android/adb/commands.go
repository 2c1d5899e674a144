// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package adb

import (
	"fmt"
	"sort"
	"strings"
)

// StartOptions are extra flags for "am start".
type StartOptions struct {
	// StackID launches into the given stack when non-negative.
	StackID int
	// Wait makes am block until the launch completes.
	Wait bool
	// NewTask adds FLAG_ACTIVITY_NEW_TASK | FLAG_ACTIVITY_MULTIPLE_TASK.
	NewTask bool
	// DisplayID targets a display when non-negative.
	DisplayID int
	// Extras are passed as string extras (--es key value).
	Extras map[string]string
}

// DefaultStartOptions launches into no particular stack or display.
func DefaultStartOptions() StartOptions {
	return StartOptions{StackID: -1, DisplayID: -1}
}

// StartActivityCommand returns the command line launching component.
func StartActivityCommand(component string, opts StartOptions) string {
	args := []string{"am", "start", "-n", component}
	if opts.Wait {
		args = append(args, "-W")
	}
	if opts.NewTask {
		args = append(args, "-f", "0x18000000")
	}
	if opts.StackID >= 0 {
		args = append(args, "--stack", fmt.Sprint(opts.StackID))
	}
	if opts.DisplayID >= 0 {
		args = append(args, "--display", fmt.Sprint(opts.DisplayID))
	}
	for _, k := range sortedKeys(opts.Extras) {
		args = append(args, "--es", k, opts.Extras[k])
	}
	return EscapeSlice(args)
}

// ForceStopCommand returns the command line force-stopping pkg.
func ForceStopCommand(pkg string) string {
	return EscapeSlice([]string{"am", "force-stop", pkg})
}

// SetRotationCommand returns the command line locking the user rotation to
// one of 0-3.
func SetRotationCommand(rotation int) string {
	return strings.Join([]string{
		"settings put system accelerometer_rotation 0",
		fmt.Sprintf("settings put system user_rotation %d", rotation),
	}, " && ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
