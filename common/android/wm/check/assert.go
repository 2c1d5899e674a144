// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"fmt"

	"github.com/google/go-cmp/cmp"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

// Equal fails with msg unless expected and actual are equal.
func Equal(msg string, expected, actual interface{}) error {
	if !cmp.Equal(expected, actual) {
		return wmerrors.Failf(expected, actual, "%s", msg)
	}
	return nil
}

// True fails with msg unless cond holds.
func True(msg string, cond bool) error {
	if !cond {
		return wmerrors.Failf(true, false, "%s", msg)
	}
	return nil
}

// ContainsStack fails unless both managers know stack id.
func ContainsStack(st *wm.State, msg string, id int) error {
	if !st.Activities.ContainsStack(id) {
		return wmerrors.Failf(id, nil, "%s: stack %d not in activity manager", msg, id)
	}
	if !st.Windows.ContainsStack(id) {
		return wmerrors.Failf(id, nil, "%s: stack %d not in window manager", msg, id)
	}
	return nil
}

// DoesNotContainStack fails if either manager knows stack id.
func DoesNotContainStack(st *wm.State, msg string, id int) error {
	if st.Activities.ContainsStack(id) {
		return wmerrors.Failf(nil, id, "%s: stack %d in activity manager", msg, id)
	}
	if st.Windows.ContainsStack(id) {
		return wmerrors.Failf(nil, id, "%s: stack %d in window manager", msg, id)
	}
	return nil
}

// FrontStack fails unless id is the top-most stack of the default display
// in both managers.
func FrontStack(st *wm.State, msg string, id int) error {
	if got, _ := st.Activities.FrontStackID(wm.DefaultDisplayID); got != id {
		return wmerrors.Failf(id, got, "%s: front stack in activity manager", msg)
	}
	if got, _ := st.Windows.FrontStackID(wm.DefaultDisplayID); got != id {
		return wmerrors.Failf(id, got, "%s: front stack in window manager", msg)
	}
	return nil
}

// FocusedStack fails unless id is the focused stack.
func FocusedStack(st *wm.State, msg string, id int) error {
	if got := st.Activities.FocusedStackID(); got != id {
		return wmerrors.Failf(id, got, "%s", msg)
	}
	return nil
}

// NotFocusedStack fails if id is the focused stack.
func NotFocusedStack(st *wm.State, msg string, id int) error {
	if got := st.Activities.FocusedStackID(); got == id {
		return wmerrors.Failf(fmt.Sprintf("a stack other than %d", id), got, "%s", msg)
	}
	return nil
}

// StackPosition returns the position of stack id, which must be the same in
// both managers.
func StackPosition(st *wm.State, id int) (int, error) {
	amPos := st.Activities.StackPosition(id)
	wmPos := st.Windows.StackPosition(id)
	if amPos != wmPos {
		return -1, wmerrors.Failf(amPos, wmPos, "window and activity manager must have the same stack position index for stack %d", id)
	}
	return wmPos, nil
}

// FocusedActivity fails unless component is the focused activity and the
// focused app.
func FocusedActivity(st *wm.State, msg, component string) error {
	if got, _ := st.Activities.FocusedActivity(); got != component {
		return wmerrors.Failf(component, got, "%s: focused activity", msg)
	}
	if got := st.Windows.FocusedApp; got != component {
		return wmerrors.Failf(component, got, "%s: focused app", msg)
	}
	return nil
}

// NotFocusedActivity fails if component is the focused activity or app.
func NotFocusedActivity(st *wm.State, msg, component string) error {
	if got, _ := st.Activities.FocusedActivity(); got == component {
		return wmerrors.Failf("another activity", got, "%s: focused activity", msg)
	}
	if got := st.Windows.FocusedApp; got == component {
		return wmerrors.Failf("another app", got, "%s: focused app", msg)
	}
	return nil
}

// ResumedActivity fails unless component is the resumed activity.
func ResumedActivity(st *wm.State, msg, component string) error {
	if got := st.Activities.ResumedActivity; got != component {
		return wmerrors.Failf(component, got, "%s", msg)
	}
	return nil
}

// NotResumedActivity fails if component is the resumed activity.
func NotResumedActivity(st *wm.State, msg, component string) error {
	if got := st.Activities.ResumedActivity; got == component {
		return wmerrors.Failf("another activity", got, "%s", msg)
	}
	return nil
}

// FocusedWindow fails unless name is the focused window.
func FocusedWindow(st *wm.State, msg, name string) error {
	if got := st.Windows.FocusedWindow; got != name {
		return wmerrors.Failf(name, got, "%s", msg)
	}
	return nil
}

// NotFocusedWindow fails if name is the focused window.
func NotFocusedWindow(st *wm.State, msg, name string) error {
	if got := st.Windows.FocusedWindow; got == name {
		return wmerrors.Failf("another window", got, "%s", msg)
	}
	return nil
}

// FrontWindow fails unless name is the top-most window.
func FrontWindow(st *wm.State, msg, name string) error {
	got, _ := st.Windows.FrontWindow()
	if got.Name != name {
		return wmerrors.Failf(name, got.Name, "%s", msg)
	}
	return nil
}

// Visibility checks that activity component and its window are both visible,
// or both not visible.
func Visibility(st *wm.State, component string, visible bool) error {
	return visibility(st, component, wm.WindowNameForActivity(component), visible)
}

func visibility(st *wm.State, component, window string, visible bool) error {
	activityVisible := st.Activities.IsActivityVisible(component)
	windowVisible := st.Windows.IsWindowVisible(window)
	if visible {
		if !activityVisible {
			return wmerrors.Failf(true, false, "activity %s is not visible", component)
		}
		if !windowVisible {
			return wmerrors.Failf(true, false, "window %s is not visible", window)
		}
		return nil
	}
	if activityVisible {
		return wmerrors.Failf(false, true, "activity %s must not be visible", component)
	}
	if windowVisible {
		return wmerrors.Failf(false, true, "window %s must not be visible", window)
	}
	return nil
}

// HomeActivityVisible checks the visibility of the launcher.
func HomeActivityVisible(st *wm.State, visible bool) error {
	name, ok := st.Activities.HomeActivityName()
	if !ok {
		return wmerrors.Failf("a home activity", nil, "home activity not found")
	}
	return visibility(st, name, wm.WindowNameForActivity(name), visible)
}

// KeyguardShowing fails unless the keyguard is showing and not occluded.
func KeyguardShowing(st *wm.State) error {
	want := wm.KeyguardControllerState{Showing: true}
	if got := st.Activities.Keyguard; got != want {
		return wmerrors.Failf(want, got, "keyguard must be showing and not occluded")
	}
	return nil
}

// KeyguardOccluded fails unless the keyguard is showing and occluded.
func KeyguardOccluded(st *wm.State) error {
	want := wm.KeyguardControllerState{Showing: true, Occluded: true}
	if got := st.Activities.Keyguard; got != want {
		return wmerrors.Failf(want, got, "keyguard must be showing and occluded")
	}
	return nil
}

// KeyguardGone fails if the keyguard is showing.
func KeyguardGone(st *wm.State) error {
	if st.Activities.Keyguard.Showing {
		return wmerrors.Failf(false, true, "keyguard must not be showing")
	}
	return nil
}

// DeviceDefaultDisplaySize fails with msg if the shorter side of the default
// display is below the minimal task size. The size and density come from m
// when it is not nil, and from the window manager otherwise.
func DeviceDefaultDisplaySize(st *wm.State, m *wm.DisplayMetrics, msg string) error {
	var size wm.Size
	var dpi int
	if m != nil {
		size, dpi = m.EffectiveSize(), m.EffectiveDensity()
	} else {
		d, ok := st.Windows.DisplayByID(wm.DefaultDisplayID)
		if !ok {
			return wmerrors.Failf(wm.DefaultDisplayID, nil, "%s: default display not found", msg)
		}
		size, dpi = wm.Size{Width: d.DisplayRect.Width, Height: d.DisplayRect.Height}, d.Density
	}
	minSize := MinimalTaskSize(wm.FullscreenStackID, dpi)
	if got := min(size.Width, size.Height); got < minSize {
		return wmerrors.Failf(minSize, got, "%s", msg)
	}
	return nil
}
