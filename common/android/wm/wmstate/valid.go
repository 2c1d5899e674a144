// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wmstate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/android/wm/check"
	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/poll"
)

// WaitForActivity names an activity that must be visible, optionally in a
// given stack. Build it with Activity or ActivityInStack.
type WaitForActivity struct {
	// Component is the activity component name, e.g. "com.example/.Main".
	Component string
	// Window is the window to look for. Empty means the main window of
	// Component.
	Window string
	// StackID is the stack the window must be in, or wm.InvalidStackID.
	StackID int
}

// Activity waits for component in any stack.
func Activity(component string) WaitForActivity {
	return WaitForActivity{Component: component, StackID: wm.InvalidStackID}
}

// ActivityInStack waits for component in stack stackID.
func ActivityInStack(component string, stackID int) WaitForActivity {
	return WaitForActivity{Component: component, StackID: stackID}
}

func (a WaitForActivity) window() string {
	if a.Window != "" {
		return a.Window
	}
	return wm.WindowNameForActivity(a.Component)
}

// WaitForValidState waits until both managers agree on the stack layout,
// exactly one activity is resumed, focus is settled, no window is starting
// or exiting, activities are visible in their requested stacks, and the
// state passes check.Sanity.
//
// On timeout the last state is returned with a *wmerrors.TimeoutError.
func (h *Harness) WaitForValidState(ctx context.Context, activities ...WaitForActivity) (*wm.State, error) {
	return h.waitForValidState(ctx, false, func(*wm.State) []WaitForActivity { return activities })
}

func (h *Harness) waitForValidState(ctx context.Context, compareTaskAndStackBounds bool, activities func(*wm.State) []WaitForActivity) (*wm.State, error) {
	return poll.WaitForSnapshot(ctx, h.policy, "valid stacks and activities states", h.Snapshot, func(st *wm.State) bool {
		reason := invalidReason(st, compareTaskAndStackBounds, activities(st))
		if reason == "" {
			return true
		}
		logging.FromContext(ctx).Info("Waiting for valid stacks and activities states", zap.String("reason", reason))
		return false
	})
}

// invalidReason returns why st is not yet settled, or "" when it is.
func invalidReason(st *wm.State, compareTaskAndStackBounds bool, activities []WaitForActivity) string {
	if err := check.TaskLists(st); err != nil {
		return err.Error()
	}
	if err := check.StackBounds(st); err != nil {
		return err.Error()
	}
	if err := check.ValidBounds(st, compareTaskAndStackBounds); err != nil {
		return err.Error()
	}

	am := st.Activities
	if am.StackCount() == 0 {
		return "no stacks"
	}
	if n := am.ResumedActivitiesCount(); !am.Keyguard.Showing && n != 1 && !am.MultiDisplayResume() {
		return fmt.Sprintf("%d resumed activities", n)
	}
	if _, ok := am.FocusedActivity(); !ok {
		return "no focused activity"
	}

	for _, a := range activities {
		window := a.window()
		matching := st.Windows.MatchingVisibleWindows(window)
		if len(matching) == 0 {
			return fmt.Sprintf("activity window %s not visible", window)
		}
		if !am.IsActivityVisible(a.Component) {
			return fmt.Sprintf("activity %s not visible", a.Component)
		}
		if a.StackID != wm.InvalidStackID && !inStack(matching, a.StackID) {
			return fmt.Sprintf("window %s not in stack %d", window, a.StackID)
		}
	}

	w := st.Windows
	if _, ok := w.FrontWindow(); !ok {
		return "no front window"
	}
	if w.FocusedWindow == "" {
		return "no focused window"
	}
	if w.FocusedApp == "" {
		return "no focused app"
	}
	if w.HasTransientWindows() {
		return "starting or exiting windows present"
	}
	// The two dumps are fetched one after the other, so they can disagree
	// on focus display or visibility mid-transition.
	if err := check.Sanity(st); err != nil {
		return err.Error()
	}
	return ""
}

func inStack(ws []wm.WindowState, stackID int) bool {
	for _, w := range ws {
		if w.StackID == stackID {
			return true
		}
	}
	return false
}
