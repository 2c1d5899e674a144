// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package wmstate composes dump fetching, parsing and waiting into the
// state queries used by window manager tests.
//
// A Harness never caches: every query fetches both dumps anew.
package wmstate

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/adb"
	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/android/wm/check"
	"chromiumos/wmharness/common/android/wm/dumpsys"
	"chromiumos/wmharness/common/poll"
	"chromiumos/wmharness/common/wmerrors"
)

// DefaultStoppedActivitiesInterval is the sleep between attempts of
// WaitForAllStoppedActivities. Stopping takes longer than other transitions.
const DefaultStoppedActivitiesInterval = 1500 * time.Millisecond

// Harness queries the window and activity managers of one device.
type Harness struct {
	ch              adb.Channel
	fetcher         *dumpsys.Fetcher
	policy          poll.Policy
	stoppedInterval time.Duration
}

// New returns a Harness talking to the device over ch and waiting according
// to p.
func New(ch adb.Channel, p poll.Policy) *Harness {
	return &Harness{
		ch:              ch,
		fetcher:         dumpsys.NewFetcher(ch),
		policy:          p,
		stoppedInterval: DefaultStoppedActivitiesInterval,
	}
}

// SetStoppedActivitiesInterval overrides DefaultStoppedActivitiesInterval.
func (h *Harness) SetStoppedActivitiesInterval(d time.Duration) {
	h.stoppedInterval = d
}

// Policy returns the wait policy of h.
func (h *Harness) Policy() poll.Policy { return h.policy }

// Snapshot fetches and parses the activity manager dump, then the window
// manager dump. The two are not taken atomically.
func (h *Harness) Snapshot(ctx context.Context) (*wm.State, error) {
	as, err := h.fetcher.Activities(ctx)
	if err != nil {
		return nil, err
	}
	ws, err := h.fetcher.Windows(ctx)
	if err != nil {
		return nil, err
	}
	return &wm.State{Activities: as, Windows: ws}, nil
}

// DisplayMetrics returns the size and density of the default display.
func (h *Harness) DisplayMetrics(ctx context.Context) (*wm.DisplayMetrics, error) {
	return h.fetcher.DisplayMetrics(ctx)
}

// AssertDeviceDefaultDisplaySize fails with msg if the default display is
// too small to host a task of minimal size.
func (h *Harness) AssertDeviceDefaultDisplaySize(ctx context.Context, st *wm.State, msg string) error {
	m, err := h.DisplayMetrics(ctx)
	if err != nil {
		return err
	}
	return check.DeviceDefaultDisplaySize(st, m, msg)
}

// ComputeOptions tunes ComputeStateWithOptions.
type ComputeOptions struct {
	// SkipBoundsComparison disables comparing task bounds with their stack.
	SkipBoundsComparison bool
}

// ComputeState waits for a valid state with activities visible, then checks
// it with check.Sanity and check.ValidBounds.
func (h *Harness) ComputeState(ctx context.Context, activities ...WaitForActivity) (*wm.State, error) {
	return h.ComputeStateWithOptions(ctx, ComputeOptions{}, activities...)
}

// ComputeStateWithOptions is ComputeState with options.
//
// When the wait times out the checks still run on the last state, and their
// failure is reported in preference to the timeout.
func (h *Harness) ComputeStateWithOptions(ctx context.Context, opts ComputeOptions, activities ...WaitForActivity) (*wm.State, error) {
	compare := !opts.SkipBoundsComparison
	st, waitErr := h.waitForValidState(ctx, compare, func(*wm.State) []WaitForActivity { return activities })
	if waitErr != nil && !wmerrors.IsTimeout(waitErr) {
		return nil, waitErr
	}
	if err := check.Sanity(st); err != nil {
		return st, err
	}
	if err := check.ValidBounds(st, compare); err != nil {
		return st, err
	}
	if waitErr != nil {
		return st, errors.Wrap(waitErr, "state did not settle")
	}
	return st, nil
}

// Exec runs cmd on the device.
func (h *Harness) Exec(ctx context.Context, cmd string) ([]byte, error) {
	return h.ch.Exec(ctx, cmd)
}

// LaunchActivity starts component and waits for it to become visible, in the
// requested stack if opts names one.
func (h *Harness) LaunchActivity(ctx context.Context, component string, opts adb.StartOptions) (*wm.State, error) {
	if _, err := h.Exec(ctx, adb.StartActivityCommand(component, opts)); err != nil {
		return nil, err
	}
	a := Activity(component)
	if opts.StackID >= 0 {
		a = ActivityInStack(component, opts.StackID)
	}
	return h.ComputeState(ctx, a)
}

// SetRotation locks the user rotation and waits for the window manager to
// apply it.
func (h *Harness) SetRotation(ctx context.Context, rotation int) (*wm.State, error) {
	if _, err := h.Exec(ctx, adb.SetRotationCommand(rotation)); err != nil {
		return nil, err
	}
	return h.WaitForRotation(ctx, rotation)
}

// ForceStop stops every activity of pkg.
func (h *Harness) ForceStop(ctx context.Context, pkg string) error {
	_, err := h.Exec(ctx, adb.ForceStopCommand(pkg))
	return err
}
