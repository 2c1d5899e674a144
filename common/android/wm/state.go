// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package wm models the window and activity topology of an Android device
// as reported by the activity manager and window manager dumps.
//
// Snapshots are values built by one fetch and parse; nothing in this package
// mutates them. Ordered collections run bottom to top, so the front element
// of a stack, task or window list is the last one.
package wm

// State pairs the two snapshots fetched in one sampling iteration. They are
// fetched one after the other, so they may describe slightly different
// instants.
type State struct {
	Activities *ActivitySnapshot `json:"activities" yaml:"activities"`
	Windows    *WindowSnapshot   `json:"windows" yaml:"windows"`
}

// IsActivityAndWindowVisible reports whether activity component is visible
// in the activity manager and its window is shown.
func (s *State) IsActivityAndWindowVisible(component string) bool {
	return s.Activities.IsActivityVisible(component) && s.Windows.IsWindowVisible(WindowNameForActivity(component))
}

// FocusedStackDisplayID returns the display of the focused stack.
func (s *State) FocusedStackDisplayID() (int, bool) {
	st, ok := s.Activities.StackByID(s.Activities.FocusedStack)
	if !ok {
		return 0, false
	}
	return st.DisplayID, true
}

// FocusedWindowDisplayID returns the display of the focused window.
func (s *State) FocusedWindowDisplayID() (int, bool) {
	w, ok := s.Windows.FocusedWindowState()
	if !ok {
		return 0, false
	}
	return w.DisplayID, true
}
