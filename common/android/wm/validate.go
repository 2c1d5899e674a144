// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wm

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Validate checks the structural invariants of an activity snapshot:
// every task's stack and every stack's display resolve, activities belong
// to the task listing them, and no display has more than one resumed
// activity.
//
// Several resumed activities are admissible only under the multi-display
// resume exception, i.e. when each sits on a different display; see
// MultiDisplayResume.
func (s *ActivitySnapshot) Validate() error {
	stackIDs := make(map[int]bool)
	for _, st := range s.Stacks {
		if stackIDs[st.ID] {
			return errors.Errorf("stack %d listed twice", st.ID)
		}
		stackIDs[st.ID] = true
	}
	for _, st := range s.Stacks {
		if st.DisplayID != DefaultDisplayID {
			if _, ok := s.DisplayByID(st.DisplayID); !ok {
				return errors.Errorf("stack %d is on unknown display %d", st.ID, st.DisplayID)
			}
		}
		for _, t := range st.Tasks {
			if !stackIDs[t.StackID] {
				return errors.Errorf("task %d refers to unknown stack %d", t.ID, t.StackID)
			}
			for _, a := range t.Activities {
				if a.TaskID != t.ID {
					return errors.Errorf("activity %s claims task %d but is listed in task %d", a.Name, a.TaskID, t.ID)
				}
			}
		}
	}

	for display, names := range s.resumedByDisplay() {
		if len(names) > 1 {
			return errors.Errorf("display %d has %d resumed activities: %s", display, len(names), strings.Join(names, ", "))
		}
	}
	return nil
}

// MultiDisplayResume reports whether more than one activity is resumed, each
// on its own display. This is the only admissible form of multiple resumed
// activities.
func (s *ActivitySnapshot) MultiDisplayResume() bool {
	byDisplay := s.resumedByDisplay()
	if len(byDisplay) < 2 {
		return false
	}
	for _, names := range byDisplay {
		if len(names) != 1 {
			return false
		}
	}
	return true
}

// ResumedActivityNames returns the components in the RESUMED state, sorted.
func (s *ActivitySnapshot) ResumedActivityNames() []string {
	var names []string
	for _, a := range s.Activities() {
		if a.State == StateResumed {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *ActivitySnapshot) resumedByDisplay() map[int][]string {
	byDisplay := make(map[int][]string)
	for _, st := range s.Stacks {
		for _, t := range st.Tasks {
			for _, a := range t.Activities {
				if a.State == StateResumed {
					byDisplay[st.DisplayID] = append(byDisplay[st.DisplayID], a.Name)
				}
			}
		}
	}
	return byDisplay
}

// Validate checks that every window and stack refers to a known display.
func (s *WindowSnapshot) Validate() error {
	for _, st := range s.Stacks {
		if st.DisplayID != DefaultDisplayID {
			if _, ok := s.DisplayByID(st.DisplayID); !ok {
				return errors.Errorf("stack %d is on unknown display %d", st.ID, st.DisplayID)
			}
		}
	}
	for _, w := range s.Windows {
		if w.DisplayID != DefaultDisplayID {
			if _, ok := s.DisplayByID(w.DisplayID); !ok {
				return errors.Errorf("window %s is on unknown display %d", w.Name, w.DisplayID)
			}
		}
	}
	return nil
}
