// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"chromiumos/wmharness/common/android/wm"
)

// ParseActivities parses the output of "dumpsys activity activities".
//
// The dump lists displays, stacks, tasks and activities top-most first; the
// returned snapshot orders every slice bottom to top. The snapshot is checked
// with wm.ActivitySnapshot.Validate and a violation is reported as a
// malformed dump.
func ParseActivities(text string) (*wm.ActivitySnapshot, error) {
	q := newLineQueue(activitiesDump, text)
	if !q.contains(amHeader) {
		return nil, q.malformed(line{}, "ACTIVITY MANAGER ACTIVITIES header", nil)
	}

	snap := &wm.ActivitySnapshot{FocusedStack: wm.InvalidStackID}
	p := activityParser{q: q, snap: snap, displayID: wm.DefaultDisplayID}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, q.malformed(line{}, "consistent activity topology", err)
	}
	return snap, nil
}

type activityParser struct {
	q    *lineQueue
	snap *wm.ActivitySnapshot
	// displayID is the display whose stacks are being listed.
	displayID int
	// stacks are collected in dump order, i.e. top-most first.
	stacks []wm.Stack
}

func (p *activityParser) parse() error {
	q := p.q
	for !q.empty() {
		if ok, err := p.parseStack(); err != nil {
			return err
		} else if ok {
			continue
		}
		if ok, err := p.parseKeyguard(); err != nil {
			return err
		} else if ok {
			continue
		}
		if ok, err := p.parseOverrideConfigurations(); err != nil {
			return err
		} else if ok {
			continue
		}

		l := q.pop()
		if m := amDisplay.FindStringSubmatch(l.text); m != nil {
			id, err := parseInt(m[1])
			if err != nil {
				return q.malformed(l, "display id", err)
			}
			p.displayID = id
			p.display(id)
			continue
		}
		if m := amResumedActivity.FindStringSubmatch(l.text); m != nil {
			p.snap.ResumedActivity = m[3]
			continue
		}
		if m := amFocusedStack.FindStringSubmatch(l.text); m != nil {
			id, err := parseInt(m[2])
			if err != nil {
				return q.malformed(l, "focused stack id", err)
			}
			p.snap.FocusedStack = id
			continue
		}
		if m := amGlobalConfig.FindStringSubmatch(l.text); m != nil {
			c, err := ParseConfiguration(m[1])
			if err != nil {
				return q.malformed(l, "global configuration", err)
			}
			p.snap.GlobalConfiguration = &c
			continue
		}
	}
	p.finish()
	return nil
}

// display returns the index of display id in the snapshot, adding it if it
// was not seen yet.
func (p *activityParser) display(id int) int {
	for i, d := range p.snap.Displays {
		if d.ID == id {
			return i
		}
	}
	p.snap.Displays = append(p.snap.Displays, wm.Display{ID: id})
	return len(p.snap.Displays) - 1
}

func (p *activityParser) finish() {
	p.snap.Stacks = reversed(p.stacks)
	if len(p.stacks) > 0 {
		if _, ok := p.snap.DisplayByID(wm.DefaultDisplayID); !ok {
			for _, st := range p.stacks {
				if st.DisplayID == wm.DefaultDisplayID {
					p.snap.Displays = append([]wm.Display{{ID: wm.DefaultDisplayID}}, p.snap.Displays...)
					break
				}
			}
		}
	}
	for _, st := range p.snap.Stacks {
		i := p.display(st.DisplayID)
		p.snap.Displays[i].StackIDs = append(p.snap.Displays[i].StackIDs, st.ID)
	}
}

func (p *activityParser) parseStack() (bool, error) {
	q := p.q
	m := amStack.FindStringSubmatch(q.peek().text)
	if m == nil {
		return false, nil
	}
	header := q.pop()
	id, err := parseInt(m[1])
	if err != nil {
		return false, q.malformed(header, "stack id", err)
	}
	st := wm.Stack{ID: id, DisplayID: p.displayID}

	var tasks []wm.Task
	for !q.doneExtracting(amTopExits) {
		t, ok, err := p.parseTask(id)
		if err != nil {
			return false, err
		}
		if ok {
			tasks = append(tasks, t)
			continue
		}

		l := q.pop()
		if m := amFullscreen.FindStringSubmatch(l.text); m != nil {
			if st.Fullscreen, err = parseBool(m[1]); err != nil {
				return false, q.malformed(l, "mFullscreen=true|false", err)
			}
			continue
		}
		if m := amBounds.FindStringSubmatch(l.text); m != nil {
			if st.Bounds, err = decodeOptionalRect(m[1]); err != nil {
				return false, q.malformed(l, "stack bounds", err)
			}
			continue
		}
		if m := amStackResumedActivity.FindStringSubmatch(l.text); m != nil {
			st.ResumedActivity = m[3]
			continue
		}
		if m := amSleeping.FindStringSubmatch(l.text); m != nil {
			if st.Sleeping, err = parseBool(m[1]); err != nil {
				return false, q.malformed(l, "isSleeping=true|false", err)
			}
			continue
		}
	}
	st.Tasks = reversed(tasks)
	p.stacks = append(p.stacks, st)
	return true, nil
}

func (p *activityParser) parseTask(stackID int) (wm.Task, bool, error) {
	q := p.q
	m := amTaskID.FindStringSubmatch(q.peek().text)
	if m == nil {
		return wm.Task{}, false, nil
	}
	header := q.pop()
	id, err := parseInt(m[1])
	if err != nil {
		return wm.Task{}, false, q.malformed(header, "task id", err)
	}
	t := wm.Task{ID: id, StackID: stackID, MinWidth: -1, MinHeight: -1, TaskType: -1}
	fail := func(l line, expected string, err error) (wm.Task, bool, error) {
		return wm.Task{}, false, q.malformed(l, expected, err)
	}

	var activities []wm.Activity
	for !q.doneExtracting(amTaskExits) {
		a, ok, err := p.parseActivity()
		if err != nil {
			return wm.Task{}, false, err
		}
		if ok {
			activities = append(activities, a)
			continue
		}

		l := q.pop()
		switch {
		case amFullscreen.MatchString(l.text):
			m := amFullscreen.FindStringSubmatch(l.text)
			if t.Fullscreen, err = parseBool(m[1]); err != nil {
				return fail(l, "mFullscreen=true|false", err)
			}
		case amBounds.MatchString(l.text):
			m := amBounds.FindStringSubmatch(l.text)
			if t.Bounds, err = decodeOptionalRect(m[1]); err != nil {
				return fail(l, "task bounds", err)
			}
		case amMinWidth.MatchString(l.text):
			m := amMinWidth.FindStringSubmatch(l.text)
			if t.MinWidth, err = parseInt(m[1]); err != nil {
				return fail(l, "minimal width", err)
			}
		case amMinHeight.MatchString(l.text):
			m := amMinHeight.FindStringSubmatch(l.text)
			if t.MinHeight, err = parseInt(m[1]); err != nil {
				return fail(l, "minimal height", err)
			}
		case amTaskRecord.MatchString(l.text):
			m := amTaskRecord.FindStringSubmatch(l.text)
			if t.StackID, err = parseInt(m[6]); err != nil {
				return fail(l, "task record stack id", err)
			}
		case amLastNonFullscreenBounds.MatchString(l.text):
			m := amLastNonFullscreenBounds.FindStringSubmatch(l.text)
			if t.LastNonFullscreenBounds, err = decodeOptionalRect(m[1]); err != nil {
				return fail(l, "last non-fullscreen bounds", err)
			}
		case amRealActivity.MatchString(l.text):
			if t.RealActivity == "" {
				t.RealActivity = amRealActivity.FindStringSubmatch(l.text)[1]
			}
		case amOrigActivity.MatchString(l.text):
			if t.OrigActivity == "" {
				t.OrigActivity = amOrigActivity.FindStringSubmatch(l.text)[1]
			}
		case amTaskType.MatchString(l.text):
			m := amTaskType.FindStringSubmatch(l.text)
			if t.TaskType, err = parseInt(m[4]); err != nil {
				return fail(l, "task type", err)
			}
		case amResizeMode.MatchString(l.text):
			t.ResizeMode = amResizeMode.FindStringSubmatch(l.text)[1]
		}
	}
	t.Activities = reversed(activities)
	return t, true, nil
}

func (p *activityParser) parseActivity() (wm.Activity, bool, error) {
	q := p.q
	m := amHist.FindStringSubmatch(q.peek().text)
	if m == nil {
		return wm.Activity{}, false, nil
	}
	header := q.pop()
	taskID, err := parseInt(m[5])
	if err != nil {
		return wm.Activity{}, false, q.malformed(header, "activity task id", err)
	}
	a := wm.Activity{Name: m[4], ProcID: -1, TaskID: taskID}

	for !q.doneExtracting(amActivityExits) {
		l := q.pop()
		if l.text == "" {
			break
		}
		if m := amVisibility.FindStringSubmatch(l.text); m != nil {
			if a.Visible, err = parseBool(m[3]); err != nil {
				return wm.Activity{}, false, q.malformed(l, "visible=true|false", err)
			}
			continue
		}
		if m := amState.FindStringSubmatch(l.text); m != nil {
			if a.State, err = wm.ParseActivityState(m[1]); err != nil {
				return wm.Activity{}, false, q.malformed(l, "activity state", err)
			}
			continue
		}
		if m := amProcess.FindStringSubmatch(l.text); m != nil {
			if a.ProcID, err = parseInt(m[2]); err != nil {
				return wm.Activity{}, false, q.malformed(l, "process id", err)
			}
			continue
		}
		if m := amFrontOfTask.FindStringSubmatch(l.text); m != nil {
			if a.FrontOfTask, err = parseBool(m[1]); err != nil {
				return wm.Activity{}, false, q.malformed(l, "frontOfTask=true|false", err)
			}
			continue
		}
	}
	if a.State == "" {
		return wm.Activity{}, false, q.malformed(header, "state= line for "+a.Name, nil)
	}
	return a, true, nil
}

func (p *activityParser) parseKeyguard() (bool, error) {
	q := p.q
	if !amKeyguard.MatchString(q.peek().text) {
		return false, nil
	}
	q.pop()
	var err error
	for !q.doneExtracting(amTopExits) {
		l := q.pop()
		if m := amKeyguardShowing.FindStringSubmatch(l.text); m != nil {
			if p.snap.Keyguard.Showing, err = parseBool(m[1]); err != nil {
				return false, q.malformed(l, "mKeyguardShowing=true|false", err)
			}
			continue
		}
		if m := amKeyguardOccluded.FindStringSubmatch(l.text); m != nil {
			if p.snap.Keyguard.Occluded, err = parseBool(m[1]); err != nil {
				return false, q.malformed(l, "mOccluded=true|false", err)
			}
		}
	}
	return true, nil
}

func (p *activityParser) parseOverrideConfigurations() (bool, error) {
	q := p.q
	if !amOverrideConfigs.MatchString(q.peek().text) {
		return false, nil
	}
	q.pop()
	for !q.empty() {
		m := amOverrideConfEntry.FindStringSubmatch(q.peek().text)
		if m == nil {
			break
		}
		l := q.pop()
		id, err := parseInt(m[1])
		if err != nil {
			return false, q.malformed(l, "display id", err)
		}
		c, err := ParseConfiguration(m[2])
		if err != nil {
			return false, q.malformed(l, "display override configuration", err)
		}
		if p.snap.DisplayConfigurations == nil {
			p.snap.DisplayConfigurations = make(map[int]wm.Configuration)
		}
		p.snap.DisplayConfigurations[id] = c
	}
	return true, nil
}

// decodeOptionalRect decodes an activity manager rectangle; "null" is nil.
func decodeOptionalRect(tok string) (*wm.Rect, error) {
	if tok == "null" {
		return nil, nil
	}
	r, err := DecodeRect(tok)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// reversed returns a copy of s in reverse order.
func reversed[T any](s []T) []T {
	if s == nil {
		return nil
	}
	r := make([]T, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}
