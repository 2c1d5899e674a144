// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wm

import (
	"sort"
	"strings"
	"time"
)

// WindowKind distinguishes transient windows from regular ones.
type WindowKind string

// Window kinds, derived from the window title.
const (
	WindowNormal   WindowKind = "normal"
	WindowStarting WindowKind = "starting"
	WindowExiting  WindowKind = "exiting"
	WindowDebugger WindowKind = "debugger"
)

// WindowState is one window known to the window manager.
type WindowState struct {
	Name string `json:"name" yaml:"name"`
	// Hash is the object hash printed in Window{hash u0 name}.
	Hash      string     `json:"hash" yaml:"hash"`
	Kind      WindowKind `json:"kind" yaml:"kind"`
	DisplayID int        `json:"display_id" yaml:"display_id"`
	StackID   int        `json:"stack_id" yaml:"stack_id"`
	Shown     bool       `json:"shown" yaml:"shown"`
	Layer     int        `json:"layer" yaml:"layer"`
	// Type is the window type from the layout params, e.g. TypeWallpaper.
	Type               int  `json:"type" yaml:"type"`
	Frame              Rect `json:"frame" yaml:"frame"`
	ContainingFrame    Rect `json:"containing_frame" yaml:"containing_frame"`
	ParentFrame        Rect `json:"parent_frame" yaml:"parent_frame"`
	ContentFrame       Rect `json:"content_frame" yaml:"content_frame"`
	ContentInsets      Rect `json:"content_insets" yaml:"content_insets"`
	SurfaceInsets      Rect `json:"surface_insets" yaml:"surface_insets"`
	GivenContentInsets Rect `json:"given_content_insets" yaml:"given_content_insets"`
	CropRect           Rect `json:"crop_rect" yaml:"crop_rect"`
}

// Visible reports whether the window's surface is shown.
func (w *WindowState) Visible() bool { return w.Shown }

// WindowTask is a window manager task. AppTokens are activity component
// names ordered bottom to top.
type WindowTask struct {
	ID              int      `json:"id" yaml:"id"`
	Fullscreen      bool     `json:"fullscreen" yaml:"fullscreen"`
	Bounds          *Rect    `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	TempInsetBounds *Rect    `json:"temp_inset_bounds,omitempty" yaml:"temp_inset_bounds,omitempty"`
	AppTokens       []string `json:"app_tokens" yaml:"app_tokens"`
}

// WindowStack is a window manager stack. Tasks are ordered bottom to top.
type WindowStack struct {
	ID         int   `json:"id" yaml:"id"`
	DisplayID  int   `json:"display_id" yaml:"display_id"`
	Fullscreen bool  `json:"fullscreen" yaml:"fullscreen"`
	Bounds     *Rect `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	// AnimationBackgroundSurfaceShowing is set while the stack draws the
	// animation background.
	AnimationBackgroundSurfaceShowing bool         `json:"animation_background_surface_showing" yaml:"animation_background_surface_showing"`
	Tasks                             []WindowTask `json:"tasks" yaml:"tasks"`
}

// TaskByID returns the task with the given ID.
func (s *WindowStack) TaskByID(id int) (WindowTask, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return WindowTask{}, false
}

// WindowDisplay is a display as seen by the window manager.
type WindowDisplay struct {
	ID      int `json:"id" yaml:"id"`
	Density int `json:"density" yaml:"density"`
	// DisplayRect is the current display size anchored at the origin.
	DisplayRect Rect `json:"display_rect" yaml:"display_rect"`
	// AppRect is the area available to applications.
	AppRect Rect `json:"app_rect" yaml:"app_rect"`
}

// IsDefault reports whether d is the built-in display.
func (d *WindowDisplay) IsDefault() bool { return d.ID == DefaultDisplayID }

// WindowSnapshot is one parse of the window manager dump.
type WindowSnapshot struct {
	// Windows are ordered bottom to top.
	Windows []WindowState `json:"windows" yaml:"windows"`
	// Displays are in dump order.
	Displays []WindowDisplay `json:"displays" yaml:"displays"`
	// Stacks are ordered bottom to top over all displays.
	Stacks []WindowStack `json:"stacks" yaml:"stacks"`
	// FocusedWindow is the name of the window with input focus.
	FocusedWindow string `json:"focused_window,omitempty" yaml:"focused_window,omitempty"`
	// FocusedApp is the component name of the focused activity.
	FocusedApp                string        `json:"focused_app,omitempty" yaml:"focused_app,omitempty"`
	InputMethodWindowHash     string        `json:"input_method_window_hash,omitempty" yaml:"input_method_window_hash,omitempty"`
	LastTransition            string        `json:"last_transition,omitempty" yaml:"last_transition,omitempty"`
	AppTransitionState        string        `json:"app_transition_state,omitempty" yaml:"app_transition_state,omitempty"`
	Rotation                  int           `json:"rotation" yaml:"rotation"`
	LastOrientation           int           `json:"last_orientation" yaml:"last_orientation"`
	StableBounds              *Rect         `json:"stable_bounds,omitempty" yaml:"stable_bounds,omitempty"`
	DefaultPinnedStackBounds  *Rect         `json:"default_pinned_stack_bounds,omitempty" yaml:"default_pinned_stack_bounds,omitempty"`
	PinnedStackMovementBounds *Rect         `json:"pinned_stack_movement_bounds,omitempty" yaml:"pinned_stack_movement_bounds,omitempty"`
	DisplayFrozen             bool          `json:"display_frozen" yaml:"display_frozen"`
	DockedStackMinimized      bool          `json:"docked_stack_minimized" yaml:"docked_stack_minimized"`
	LastDisplayFreezeDuration time.Duration `json:"last_display_freeze_duration" yaml:"last_display_freeze_duration"`
}

func (s *WindowSnapshot) front(pred func(*WindowState) bool) (WindowState, bool) {
	for i := len(s.Windows) - 1; i >= 0; i-- {
		if pred(&s.Windows[i]) {
			return s.Windows[i], true
		}
	}
	return WindowState{}, false
}

// FrontWindow returns the top-most window.
func (s *WindowSnapshot) FrontWindow() (WindowState, bool) {
	return s.front(func(*WindowState) bool { return true })
}

// FocusedWindowState returns the window named by FocusedWindow, preferring
// the top-most one.
func (s *WindowSnapshot) FocusedWindowState() (WindowState, bool) {
	if s.FocusedWindow == "" {
		return WindowState{}, false
	}
	return s.front(func(w *WindowState) bool { return w.Name == s.FocusedWindow })
}

// IsFocused reports whether w is the focused window.
func (s *WindowSnapshot) IsFocused(w WindowState) bool {
	return s.FocusedWindow != "" && w.Name == s.FocusedWindow
}

// WindowsByName returns the windows named name, bottom to top.
func (s *WindowSnapshot) WindowsByName(name string) []WindowState {
	var ws []WindowState
	for _, w := range s.Windows {
		if w.Name == name {
			ws = append(ws, w)
		}
	}
	return ws
}

// MatchingVisibleWindows returns the shown windows named name.
func (s *WindowSnapshot) MatchingVisibleWindows(name string) []WindowState {
	var ws []WindowState
	for _, w := range s.Windows {
		if w.Shown && w.Name == name {
			ws = append(ws, w)
		}
	}
	return ws
}

// PrefixMatchingVisibleWindows returns the shown windows whose name starts
// with prefix.
func (s *WindowSnapshot) PrefixMatchingVisibleWindows(prefix string) []WindowState {
	var ws []WindowState
	for _, w := range s.Windows {
		if w.Shown && strings.HasPrefix(w.Name, prefix) {
			ws = append(ws, w)
		}
	}
	return ws
}

// MatchingWindowTokens returns the hashes of the windows named name.
func (s *WindowSnapshot) MatchingWindowTokens(name string) []string {
	var tokens []string
	for _, w := range s.WindowsByName(name) {
		tokens = append(tokens, w.Hash)
	}
	return tokens
}

// WindowsByPackageName returns the windows whose name contains pkg,
// restricted to the given types when any are passed.
func (s *WindowSnapshot) WindowsByPackageName(pkg string, types ...int) []WindowState {
	var ws []WindowState
	for _, w := range s.Windows {
		if !strings.Contains(w.Name, pkg) {
			continue
		}
		if len(types) > 0 && !containsInt(types, w.Type) {
			continue
		}
		ws = append(ws, w)
	}
	return ws
}

// WindowByHash returns the window with the given object hash.
func (s *WindowSnapshot) WindowByHash(hash string) (WindowState, bool) {
	for _, w := range s.Windows {
		if w.Hash == hash {
			return w, true
		}
	}
	return WindowState{}, false
}

// InputMethodWindow returns the input method window.
func (s *WindowSnapshot) InputMethodWindow() (WindowState, bool) {
	if s.InputMethodWindowHash == "" {
		return WindowState{}, false
	}
	return s.WindowByHash(s.InputMethodWindowHash)
}

// FirstWindowWithType returns the top-most window of type t.
func (s *WindowSnapshot) FirstWindowWithType(t int) (WindowState, bool) {
	return s.front(func(w *WindowState) bool { return w.Type == t })
}

// ContainsWindow reports whether a window named name exists.
func (s *WindowSnapshot) ContainsWindow(name string) bool {
	return len(s.WindowsByName(name)) > 0
}

// IsWindowVisible reports whether at least one window named name is shown.
func (s *WindowSnapshot) IsWindowVisible(name string) bool {
	return len(s.MatchingVisibleWindows(name)) > 0
}

// AllWindowsVisible reports whether windows named name exist and all are shown.
func (s *WindowSnapshot) AllWindowsVisible(name string) bool {
	ws := s.WindowsByName(name)
	if len(ws) == 0 {
		return false
	}
	for _, w := range ws {
		if !w.Shown {
			return false
		}
	}
	return true
}

// HasTransientWindows reports whether any window is starting or exiting,
// which means the window manager is mid-transition.
func (s *WindowSnapshot) HasTransientWindows() bool {
	for _, w := range s.Windows {
		if w.Kind == WindowStarting || w.Kind == WindowExiting {
			return true
		}
	}
	return false
}

// StackByID returns the stack with the given ID.
func (s *WindowSnapshot) StackByID(id int) (WindowStack, bool) {
	for _, st := range s.Stacks {
		if st.ID == id {
			return st, true
		}
	}
	return WindowStack{}, false
}

// ContainsStack reports whether a stack with the given ID exists.
func (s *WindowSnapshot) ContainsStack(id int) bool {
	_, ok := s.StackByID(id)
	return ok
}

// StackPosition returns the index of the stack in the bottom-to-top order,
// or -1.
func (s *WindowSnapshot) StackPosition(id int) int {
	for i, st := range s.Stacks {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// FrontStackID returns the ID of the top-most stack on a display.
func (s *WindowSnapshot) FrontStackID(displayID int) (int, bool) {
	for i := len(s.Stacks) - 1; i >= 0; i-- {
		if s.Stacks[i].DisplayID == displayID {
			return s.Stacks[i].ID, true
		}
	}
	return InvalidStackID, false
}

// DisplayByID returns the display with the given ID.
func (s *WindowSnapshot) DisplayByID(id int) (WindowDisplay, bool) {
	for _, d := range s.Displays {
		if d.ID == id {
			return d, true
		}
	}
	return WindowDisplay{}, false
}

// SortWindowsByLayer returns a copy of ws sorted by surface layer, lowest first.
func SortWindowsByLayer(ws []WindowState) []WindowState {
	sorted := append([]WindowState(nil), ws...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Layer < sorted[j].Layer })
	return sorted
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
