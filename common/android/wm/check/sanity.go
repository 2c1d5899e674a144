// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package check compares activity manager and window manager snapshots with
// each other and with test expectations.
//
// Every function returns nil when the condition holds and a
// *wmerrors.AssertionFailure otherwise.
package check

import (
	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

// Sanity checks the structural agreement of the two snapshots in st, which
// must come from the same fetch cycle.
func Sanity(st *wm.State) error {
	am, w := st.Activities, st.Windows

	if am.StackCount() == 0 {
		return wmerrors.Failf("at least one stack", 0, "must have stacks")
	}
	if !am.Keyguard.Showing {
		if n := am.ResumedActivitiesCount(); n != 1 && !am.MultiDisplayResume() {
			return wmerrors.Failf(1, am.ResumedActivities(), "there should be one and only one resumed activity in the system")
		}
	}
	if _, ok := am.FocusedActivity(); !ok {
		return wmerrors.Failf("a focused activity", nil, "must have focused activity")
	}
	for _, s := range am.Stacks {
		for _, t := range s.Tasks {
			if t.StackID != s.ID {
				return wmerrors.Failf(s.ID, t.StackID, "stack %d can only contain its own tasks, found task %d", s.ID, t.ID)
			}
		}
	}

	if _, ok := w.FrontWindow(); !ok {
		return wmerrors.Failf("a front window", nil, "must have front window")
	}
	if w.FocusedWindow == "" {
		return wmerrors.Failf("a focused window", nil, "must have focused window")
	}
	if w.FocusedApp == "" {
		return wmerrors.Failf("a focused app", nil, "must have focused app")
	}

	stackDisplay, stackOK := st.FocusedStackDisplayID()
	windowDisplay, windowOK := st.FocusedWindowDisplayID()
	if stackOK && windowOK && stackDisplay != windowDisplay {
		return wmerrors.Failf(stackDisplay, windowDisplay,
			"focused window %s is on display %d but focused stack %d is on display %d",
			w.FocusedWindow, windowDisplay, am.FocusedStack, stackDisplay)
	}

	return visibilityAgrees(st)
}

// visibilityAgrees checks that an activity the activity manager reports
// visible has a shown window, and that a shown window belonging to an app
// token has a visible activity.
func visibilityAgrees(st *wm.State) error {
	for _, a := range st.Activities.Activities() {
		if !a.Visible {
			continue
		}
		name := wm.WindowNameForActivity(a.Name)
		if !st.Windows.IsWindowVisible(name) {
			return wmerrors.Failf(true, false, "activity %s is visible but window %s is not visible", a.Name, name)
		}
	}
	for _, s := range st.Windows.Stacks {
		for _, t := range s.Tasks {
			for _, token := range t.AppTokens {
				name := wm.WindowNameForActivity(token)
				if st.Windows.IsWindowVisible(name) && !st.Activities.IsActivityVisible(token) {
					return wmerrors.Failf(true, false, "window %s is visible but activity %s is not visible", name, token)
				}
			}
		}
	}
	return nil
}

// TaskLists checks that every activity manager stack exists in the window
// manager with the same tasks.
func TaskLists(st *wm.State) error {
	for _, as := range st.Activities.Stacks {
		ws, ok := st.Windows.StackByID(as.ID)
		if !ok {
			return wmerrors.Failf(as.ID, nil, "stack %d is in activity manager but not in window manager", as.ID)
		}
		for _, t := range as.Tasks {
			if _, ok := ws.TaskByID(t.ID); !ok {
				return wmerrors.Failf(t.ID, nil, "task %d is in activity manager but not in window manager", t.ID)
			}
		}
		for _, t := range ws.Tasks {
			if _, ok := as.TaskByID(t.ID); !ok {
				return wmerrors.Failf(t.ID, nil, "task %d is in window manager but not in activity manager", t.ID)
			}
		}
	}
	return nil
}

// StackBounds checks that the fullscreen state and bounds of every stack
// agree between the two managers. Bounds of fullscreen stacks are not
// compared since the window manager reports either nothing or the display
// size for them.
func StackBounds(st *wm.State) error {
	for _, as := range st.Activities.Stacks {
		ws, ok := st.Windows.StackByID(as.ID)
		if !ok {
			return wmerrors.Failf(as.ID, nil, "stack %d is in activity manager but not in window manager", as.ID)
		}
		if as.Fullscreen != ws.Fullscreen {
			return wmerrors.Failf(as.Fullscreen, ws.Fullscreen, "stack %d fullscreen state differs", as.ID)
		}
		if as.Fullscreen {
			if as.Bounds != nil {
				return wmerrors.Failf(nil, *as.Bounds, "stack %d bounds in activity manager must be null", as.ID)
			}
		} else if !rectsEqual(as.Bounds, ws.Bounds) {
			return wmerrors.Failf(rectValue(as.Bounds), rectValue(ws.Bounds), "stack %d bounds differ between activity and window manager", as.ID)
		}
	}
	return nil
}

func rectsEqual(a, b *wm.Rect) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// rectValue returns r for use in an AssertionFailure, with nil kept as an
// untyped nil.
func rectValue(r *wm.Rect) interface{} {
	if r == nil {
		return nil
	}
	return *r
}
