// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wm

import "github.com/pkg/errors"

// ActivityState is the lifecycle state of an activity.
type ActivityState string

// Activity states as printed by the activity manager.
const (
	StateInitializing ActivityState = "INITIALIZING"
	StateCreated      ActivityState = "CREATED"
	StateStarted      ActivityState = "STARTED"
	StateResumed      ActivityState = "RESUMED"
	StatePausing      ActivityState = "PAUSING"
	StatePaused       ActivityState = "PAUSED"
	StateStopping     ActivityState = "STOPPING"
	StateStopped      ActivityState = "STOPPED"
	StateFinishing    ActivityState = "FINISHING"
	StateDestroying   ActivityState = "DESTROYING"
	StateDestroyed    ActivityState = "DESTROYED"
)

var activityStates = map[ActivityState]struct{}{
	StateInitializing: {}, StateCreated: {}, StateStarted: {}, StateResumed: {},
	StatePausing: {}, StatePaused: {}, StateStopping: {}, StateStopped: {},
	StateFinishing: {}, StateDestroying: {}, StateDestroyed: {},
}

// ParseActivityState returns the state named s.
func ParseActivityState(s string) (ActivityState, error) {
	st := ActivityState(s)
	if _, ok := activityStates[st]; !ok {
		return "", errors.Errorf("unknown activity state %q", s)
	}
	return st, nil
}

// Activity is one entry of a task's back stack.
type Activity struct {
	// Name is the component name, e.g. "com.example/.Main".
	Name        string        `json:"name" yaml:"name"`
	State       ActivityState `json:"state" yaml:"state"`
	Visible     bool          `json:"visible" yaml:"visible"`
	FrontOfTask bool          `json:"front_of_task" yaml:"front_of_task"`
	// ProcID is the pid of the hosting process, or -1 if it has none.
	ProcID int `json:"proc_id" yaml:"proc_id"`
	TaskID int `json:"task_id" yaml:"task_id"`
}

// Task is an activity manager task. Activities are ordered bottom to top.
type Task struct {
	ID         int   `json:"id" yaml:"id"`
	StackID    int   `json:"stack_id" yaml:"stack_id"`
	Fullscreen bool  `json:"fullscreen" yaml:"fullscreen"`
	Bounds     *Rect `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	// MinWidth and MinHeight are -1 when the task does not set them.
	MinWidth                int    `json:"min_width" yaml:"min_width"`
	MinHeight               int    `json:"min_height" yaml:"min_height"`
	LastNonFullscreenBounds *Rect  `json:"last_non_fullscreen_bounds,omitempty" yaml:"last_non_fullscreen_bounds,omitempty"`
	RealActivity            string `json:"real_activity,omitempty" yaml:"real_activity,omitempty"`
	OrigActivity            string `json:"orig_activity,omitempty" yaml:"orig_activity,omitempty"`
	// TaskType is one of the *ActivityType constants, or -1 if not reported.
	TaskType   int        `json:"task_type" yaml:"task_type"`
	ResizeMode string     `json:"resize_mode,omitempty" yaml:"resize_mode,omitempty"`
	Activities []Activity `json:"activities" yaml:"activities"`
}

// TopActivity returns the activity at the top of the task.
func (t *Task) TopActivity() (Activity, bool) {
	if len(t.Activities) == 0 {
		return Activity{}, false
	}
	return t.Activities[len(t.Activities)-1], true
}

// BottomActivity returns the root activity of the task.
func (t *Task) BottomActivity() (Activity, bool) {
	if len(t.Activities) == 0 {
		return Activity{}, false
	}
	return t.Activities[0], true
}

// ContainsActivity reports whether name is in the task.
func (t *Task) ContainsActivity(name string) bool {
	for _, a := range t.Activities {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Resizeable reports whether the task can be resized freely.
func (t *Task) Resizeable() bool {
	return t.ResizeMode == ResizeModeResizeable
}

// Stack is an activity manager stack. Tasks are ordered bottom to top.
type Stack struct {
	ID         int   `json:"id" yaml:"id"`
	DisplayID  int   `json:"display_id" yaml:"display_id"`
	Fullscreen bool  `json:"fullscreen" yaml:"fullscreen"`
	Bounds     *Rect `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Sleeping   bool  `json:"sleeping" yaml:"sleeping"`
	// ResumedActivity is the component resumed in this stack, if any.
	ResumedActivity string `json:"resumed_activity,omitempty" yaml:"resumed_activity,omitempty"`
	Tasks           []Task `json:"tasks" yaml:"tasks"`
}

// TopTask returns the task at the top of the stack.
func (s *Stack) TopTask() (Task, bool) {
	if len(s.Tasks) == 0 {
		return Task{}, false
	}
	return s.Tasks[len(s.Tasks)-1], true
}

// BottomTask returns the task at the bottom of the stack.
func (s *Stack) BottomTask() (Task, bool) {
	if len(s.Tasks) == 0 {
		return Task{}, false
	}
	return s.Tasks[0], true
}

// TaskByID returns the task with the given ID.
func (s *Stack) TaskByID(id int) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Display lists the stacks the activity manager places on one display.
type Display struct {
	ID int `json:"id" yaml:"id"`
	// StackIDs are ordered bottom to top.
	StackIDs []int `json:"stack_ids" yaml:"stack_ids"`
}

// IsDefault reports whether d is the built-in display.
func (d *Display) IsDefault() bool { return d.ID == DefaultDisplayID }

// KeyguardControllerState is the lock screen state.
type KeyguardControllerState struct {
	Showing  bool `json:"showing" yaml:"showing"`
	Occluded bool `json:"occluded" yaml:"occluded"`
}

// Configuration holds the fields of a resource configuration the harness
// reasons about. Zero means undefined.
type Configuration struct {
	SmallestWidthDp int    `json:"smallest_width_dp" yaml:"smallest_width_dp"`
	WidthDp         int    `json:"width_dp" yaml:"width_dp"`
	HeightDp        int    `json:"height_dp" yaml:"height_dp"`
	DensityDpi      int    `json:"density_dpi" yaml:"density_dpi"`
	Orientation     string `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

// ActivitySnapshot is one parse of the activity manager dump.
type ActivitySnapshot struct {
	// Displays are in dump order.
	Displays []Display `json:"displays" yaml:"displays"`
	// Stacks are ordered bottom to top over all displays.
	Stacks []Stack `json:"stacks" yaml:"stacks"`
	// FocusedStack is InvalidStackID when no stack has focus.
	FocusedStack int `json:"focused_stack_id" yaml:"focused_stack_id"`
	// ResumedActivity is the focused activity.
	ResumedActivity       string                  `json:"resumed_activity,omitempty" yaml:"resumed_activity,omitempty"`
	Keyguard              KeyguardControllerState `json:"keyguard" yaml:"keyguard"`
	GlobalConfiguration   *Configuration          `json:"global_configuration,omitempty" yaml:"global_configuration,omitempty"`
	DisplayConfigurations map[int]Configuration   `json:"display_configurations,omitempty" yaml:"display_configurations,omitempty"`
}

// StackByID returns the stack with the given ID.
func (s *ActivitySnapshot) StackByID(id int) (Stack, bool) {
	for _, st := range s.Stacks {
		if st.ID == id {
			return st, true
		}
	}
	return Stack{}, false
}

// ContainsStack reports whether a stack with the given ID exists.
func (s *ActivitySnapshot) ContainsStack(id int) bool {
	_, ok := s.StackByID(id)
	return ok
}

// StackCount returns the number of stacks.
func (s *ActivitySnapshot) StackCount() int { return len(s.Stacks) }

// StackPosition returns the index of the stack in the bottom-to-top order,
// or -1.
func (s *ActivitySnapshot) StackPosition(id int) int {
	for i, st := range s.Stacks {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// DisplayByID returns the display with the given ID.
func (s *ActivitySnapshot) DisplayByID(id int) (Display, bool) {
	for _, d := range s.Displays {
		if d.ID == id {
			return d, true
		}
	}
	return Display{}, false
}

// StacksOnDisplay returns the stacks on a display, bottom to top.
func (s *ActivitySnapshot) StacksOnDisplay(displayID int) []Stack {
	var stacks []Stack
	for _, st := range s.Stacks {
		if st.DisplayID == displayID {
			stacks = append(stacks, st)
		}
	}
	return stacks
}

// FrontStackID returns the ID of the top-most stack on a display.
func (s *ActivitySnapshot) FrontStackID(displayID int) (int, bool) {
	stacks := s.StacksOnDisplay(displayID)
	if len(stacks) == 0 {
		return InvalidStackID, false
	}
	return stacks[len(stacks)-1].ID, true
}

// FocusedStackID returns the ID of the focused stack, or InvalidStackID.
func (s *ActivitySnapshot) FocusedStackID() int { return s.FocusedStack }

// FocusedActivity returns the focused (resumed) activity.
func (s *ActivitySnapshot) FocusedActivity() (string, bool) {
	return s.ResumedActivity, s.ResumedActivity != ""
}

// TaskByID returns the task with the given ID.
func (s *ActivitySnapshot) TaskByID(id int) (Task, bool) {
	for _, st := range s.Stacks {
		if t, ok := st.TaskByID(id); ok {
			return t, true
		}
	}
	return Task{}, false
}

// TaskByActivityName returns the first task, from the bottom, containing
// activity name. stackID restricts the search to one stack unless it is
// InvalidStackID.
func (s *ActivitySnapshot) TaskByActivityName(name string, stackID int) (Task, bool) {
	for _, st := range s.Stacks {
		if stackID != InvalidStackID && st.ID != stackID {
			continue
		}
		for _, t := range st.Tasks {
			if t.ContainsActivity(name) {
				return t, true
			}
		}
	}
	return Task{}, false
}

// StackIDByActivityName returns the ID of the stack holding activity name.
func (s *ActivitySnapshot) StackIDByActivityName(name string) (int, bool) {
	t, ok := s.TaskByActivityName(name, InvalidStackID)
	if !ok {
		return InvalidStackID, false
	}
	return t.StackID, true
}

func (s *ActivitySnapshot) activity(name string) (Activity, bool) {
	for _, st := range s.Stacks {
		for _, t := range st.Tasks {
			for _, a := range t.Activities {
				if a.Name == name {
					return a, true
				}
			}
		}
	}
	return Activity{}, false
}

// ActivityByName returns the first activity with the given component name.
func (s *ActivitySnapshot) ActivityByName(name string) (Activity, bool) {
	return s.activity(name)
}

// ContainsActivity reports whether activity name exists.
func (s *ActivitySnapshot) ContainsActivity(name string) bool {
	_, ok := s.activity(name)
	return ok
}

// IsActivityVisible reports whether activity name exists and is visible.
func (s *ActivitySnapshot) IsActivityVisible(name string) bool {
	a, ok := s.activity(name)
	return ok && a.Visible
}

// HasActivityState reports whether activity name is in one of states.
func (s *ActivitySnapshot) HasActivityState(name string, states ...ActivityState) bool {
	a, ok := s.activity(name)
	if !ok {
		return false
	}
	for _, st := range states {
		if a.State == st {
			return true
		}
	}
	return false
}

// ActivityProcID returns the pid hosting activity name, or -1.
func (s *ActivitySnapshot) ActivityProcID(name string) int {
	a, ok := s.activity(name)
	if !ok {
		return -1
	}
	return a.ProcID
}

// ContainsStartedActivities reports whether any activity is neither stopped
// nor destroyed.
func (s *ActivitySnapshot) ContainsStartedActivities() bool {
	for _, a := range s.Activities() {
		if a.State != StateStopped && a.State != StateDestroyed {
			return true
		}
	}
	return false
}

// Activities returns every activity, bottom to top.
func (s *ActivitySnapshot) Activities() []Activity {
	var as []Activity
	for _, st := range s.Stacks {
		for _, t := range st.Tasks {
			as = append(as, t.Activities...)
		}
	}
	return as
}

// ResumedActivities returns the components resumed per stack.
func (s *ActivitySnapshot) ResumedActivities() []string {
	var names []string
	for _, st := range s.Stacks {
		if st.ResumedActivity != "" {
			names = append(names, st.ResumedActivity)
		}
	}
	return names
}

// ResumedActivitiesCount returns the number of stacks with a resumed activity.
func (s *ActivitySnapshot) ResumedActivitiesCount() int {
	return len(s.ResumedActivities())
}

func (s *ActivitySnapshot) taskOfType(stackID, taskType int) (Task, bool) {
	st, ok := s.StackByID(stackID)
	if !ok {
		return Task{}, false
	}
	for _, t := range st.Tasks {
		if t.TaskType == taskType {
			return t, true
		}
	}
	return Task{}, false
}

// HomeTask returns the launcher task.
func (s *ActivitySnapshot) HomeTask() (Task, bool) {
	return s.taskOfType(HomeStackID, HomeActivityType)
}

// RecentsTask returns the recents task.
func (s *ActivitySnapshot) RecentsTask() (Task, bool) {
	return s.taskOfType(RecentsStackID, RecentsActivityType)
}

// HomeActivity returns the top activity of the launcher task.
func (s *ActivitySnapshot) HomeActivity() (Activity, bool) {
	t, ok := s.HomeTask()
	if !ok {
		return Activity{}, false
	}
	return t.TopActivity()
}

// HomeActivityName returns the component name of the launcher activity.
func (s *ActivitySnapshot) HomeActivityName() (string, bool) {
	a, ok := s.HomeActivity()
	return a.Name, ok
}

// IsHomeActivityVisible reports whether the launcher is visible.
func (s *ActivitySnapshot) IsHomeActivityVisible() bool {
	a, ok := s.HomeActivity()
	return ok && a.Visible
}

// IsRecentsActivityVisible reports whether recents is visible.
func (s *ActivitySnapshot) IsRecentsActivityVisible() bool {
	t, ok := s.RecentsTask()
	if !ok {
		return false
	}
	a, ok := t.TopActivity()
	return ok && a.Visible
}
