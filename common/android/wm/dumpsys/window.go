// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"chromiumos/wmharness/common/android/wm"
)

// ParseWindows parses the output of "dumpsys window -a".
//
// Starting, exiting and debugger windows are kept and tagged with their
// kind; callers that need a settled state wait for them to go away.
func ParseWindows(text string) (*wm.WindowSnapshot, error) {
	q := newLineQueue(windowsDump, text)
	if !q.contains(wmHeader) {
		return nil, q.malformed(line{}, "WINDOW MANAGER WINDOWS header", nil)
	}

	snap := &wm.WindowSnapshot{}
	p := windowParser{q: q, snap: snap, displayID: wm.DefaultDisplayID}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, q.malformed(line{}, "consistent window topology", err)
	}
	return snap, nil
}

type windowParser struct {
	q         *lineQueue
	snap      *wm.WindowSnapshot
	displayID int
	// Collected in dump order, i.e. top-most first.
	stacks  []wm.WindowStack
	windows []wm.WindowState
}

func (p *windowParser) parse() error {
	q := p.q
	for !q.empty() {
		if ok, err := p.parseDisplay(); err != nil {
			return err
		} else if ok {
			continue
		}
		if ok, err := p.parseStack(); err != nil {
			return err
		} else if ok {
			continue
		}
		if ok, err := p.parseWindow(); err != nil {
			return err
		} else if ok {
			continue
		}
		if err := p.parseGlobal(q.pop()); err != nil {
			return err
		}
	}
	p.snap.Stacks = reversed(p.stacks)
	p.snap.Windows = reversed(p.windows)
	return nil
}

func (p *windowParser) parseGlobal(l line) error {
	q, snap := p.q, p.snap
	var err error
	if m := wmFocusedWindow.FindStringSubmatch(l.text); m != nil {
		snap.FocusedWindow = m[3]
		return nil
	}
	if m := wmAppErrorFocus.FindStringSubmatch(l.text); m != nil {
		snap.FocusedWindow = m[3]
		return nil
	}
	if m := wmDebuggerFocus.FindStringSubmatch(l.text); m != nil {
		snap.FocusedWindow = m[3]
		return nil
	}
	if m := wmFocusedApp.FindStringSubmatch(l.text); m != nil {
		snap.FocusedApp = m[5]
		return nil
	}
	if m := wmAppTransitionState.FindStringSubmatch(l.text); m != nil {
		snap.AppTransitionState = m[1]
		return nil
	}
	if m := wmLastTransition.FindStringSubmatch(l.text); m != nil {
		snap.LastTransition = m[1]
		return nil
	}
	if wmStableBounds.MatchString(l.text) {
		v, err := submatchInts(wmStableBounds, l.text, "mStable=(l,t)-(r,b)")
		if err != nil {
			return q.malformed(l, "stable bounds", err)
		}
		r := wm.NewRectLTRB(v[0], v[1], v[2], v[3])
		snap.StableBounds = &r
		return nil
	}
	if m := wmDefaultPinnedBounds.FindStringSubmatch(l.text); m != nil {
		if snap.DefaultPinnedStackBounds, err = decodeBracketRectPtr(m[1]); err != nil {
			return q.malformed(l, "default pinned stack bounds", err)
		}
		return nil
	}
	if m := wmPinnedMovementBounds.FindStringSubmatch(l.text); m != nil {
		if snap.PinnedStackMovementBounds, err = decodeBracketRectPtr(m[1]); err != nil {
			return q.malformed(l, "pinned stack movement bounds", err)
		}
		return nil
	}
	if m := wmInputMethodWindow.FindStringSubmatch(l.text); m != nil {
		snap.InputMethodWindowHash = m[1]
		return nil
	}
	if m := wmRotation.FindStringSubmatch(l.text); m != nil {
		if snap.Rotation, err = parseInt(m[1]); err != nil {
			return q.malformed(l, "rotation", err)
		}
		return nil
	}
	if m := wmLastOrientation.FindStringSubmatch(l.text); m != nil {
		if snap.LastOrientation, err = parseInt(m[1]); err != nil {
			return q.malformed(l, "orientation", err)
		}
		return nil
	}
	if m := wmDisplayFrozen.FindStringSubmatch(l.text); m != nil {
		if snap.DisplayFrozen, err = parseBool(m[1]); err != nil {
			return q.malformed(l, "mDisplayFrozen=true|false", err)
		}
		return nil
	}
	if m := wmDockedStackMinimized.FindStringSubmatch(l.text); m != nil {
		if snap.DockedStackMinimized, err = parseBool(m[1]); err != nil {
			return q.malformed(l, "mMinimizedDock=true|false", err)
		}
		return nil
	}
	if m := wmDisplayFreezeDuration.FindStringSubmatch(l.text); m != nil {
		if snap.LastDisplayFreezeDuration, err = DecodeDuration(m[1]); err != nil {
			return q.malformed(l, "display freeze duration", err)
		}
		return nil
	}
	return nil
}

func (p *windowParser) parseDisplay() (bool, error) {
	q := p.q
	m := wmDisplayID.FindStringSubmatch(q.peek().text)
	if m == nil {
		return false, nil
	}
	header := q.pop()
	id, err := parseInt(m[1])
	if err != nil {
		return false, q.malformed(header, "display id", err)
	}
	d := wm.WindowDisplay{ID: id}
	for !q.doneExtracting(wmTopExits) {
		l := q.pop()
		m := wmDisplayInfo.FindStringSubmatch(l.text)
		if m == nil {
			continue
		}
		if d.Density, err = DecodeDensity(m[2]); err != nil {
			return false, q.malformed(l, "display density", err)
		}
		cur, err := DecodeSize(m[3])
		if err != nil {
			return false, q.malformed(l, "current display size", err)
		}
		app, err := DecodeSize(m[4])
		if err != nil {
			return false, q.malformed(l, "application display size", err)
		}
		d.DisplayRect = wm.Rect{Width: cur.Width, Height: cur.Height}
		d.AppRect = wm.Rect{Width: app.Width, Height: app.Height}
		break
	}
	p.displayID = id
	p.snap.Displays = append(p.snap.Displays, d)
	return true, nil
}

func (p *windowParser) parseStack() (bool, error) {
	q := p.q
	m := wmStackID.FindStringSubmatch(q.peek().text)
	if m == nil {
		return false, nil
	}
	header := q.pop()
	id, err := parseInt(m[1])
	if err != nil {
		return false, q.malformed(header, "stack id", err)
	}
	st := wm.WindowStack{ID: id, DisplayID: p.displayID}

	var tasks []wm.WindowTask
	for !q.doneExtracting(wmTopExits) {
		t, ok, err := p.parseTask()
		if err != nil {
			return false, err
		}
		if ok {
			tasks = append(tasks, t)
			continue
		}

		l := q.pop()
		if m := wmFillsParent.FindStringSubmatch(l.text); m != nil {
			if st.Fullscreen, err = parseBool(m[1]); err != nil {
				return false, q.malformed(l, "mFillsParent=true|false", err)
			}
			continue
		}
		if m := wmBounds.FindStringSubmatch(l.text); m != nil {
			if st.Bounds, err = decodeBracketRectPtr(m[1]); err != nil {
				return false, q.malformed(l, "stack bounds", err)
			}
			continue
		}
		if wmAnimationBackground.MatchString(l.text) {
			st.AnimationBackgroundSurfaceShowing = true
		}
	}
	st.Tasks = reversed(tasks)
	p.stacks = append(p.stacks, st)
	return true, nil
}

func (p *windowParser) parseTask() (wm.WindowTask, bool, error) {
	q := p.q
	m := wmTaskID.FindStringSubmatch(q.peek().text)
	if m == nil {
		return wm.WindowTask{}, false, nil
	}
	header := q.pop()
	id, err := parseInt(m[1])
	if err != nil {
		return wm.WindowTask{}, false, q.malformed(header, "task id", err)
	}
	t := wm.WindowTask{ID: id}

	var tokens []string
	for !q.doneExtracting(wmTaskExits) {
		l := q.pop()
		if m := wmFillsParent.FindStringSubmatch(l.text); m != nil {
			if t.Fullscreen, err = parseBool(m[1]); err != nil {
				return wm.WindowTask{}, false, q.malformed(l, "mFillsParent=true|false", err)
			}
			continue
		}
		if m := wmBounds.FindStringSubmatch(l.text); m != nil {
			if t.Bounds, err = decodeBracketRectPtr(m[1]); err != nil {
				return wm.WindowTask{}, false, q.malformed(l, "task bounds", err)
			}
			continue
		}
		if m := wmTempInsetBounds.FindStringSubmatch(l.text); m != nil {
			if t.TempInsetBounds, err = decodeBracketRectPtr(m[1]); err != nil {
				return wm.WindowTask{}, false, q.malformed(l, "temp inset bounds", err)
			}
			continue
		}
		if m := wmAppToken.FindStringSubmatch(l.text); m != nil {
			tokens = append(tokens, m[6])
		}
	}
	t.AppTokens = reversed(tokens)
	return t, true, nil
}

func (p *windowParser) parseWindow() (bool, error) {
	q := p.q
	head := q.peek().text
	m := wmWindow.FindStringSubmatch(head)
	if m == nil {
		return false, nil
	}
	q.pop()
	w := wm.WindowState{Hash: m[2], Kind: wm.WindowNormal, Name: m[4]}
	if m := wmStartingWindow.FindStringSubmatch(head); m != nil {
		w.Kind, w.Name = wm.WindowStarting, m[4]
	} else if m := wmExitingWindow.FindStringSubmatch(head); m != nil {
		w.Kind, w.Name = wm.WindowExiting, m[4]
	} else if m := wmDebuggerWindow.FindStringSubmatch(head); m != nil {
		w.Kind, w.Name = wm.WindowDebugger, m[4]
	}

	var err error
	for !q.doneExtracting(wmTopExits) {
		l := q.pop()
		if m := wmWindowAssociation.FindStringSubmatch(l.text); m != nil {
			if w.DisplayID, err = parseInt(m[1]); err != nil {
				return false, q.malformed(l, "window display id", err)
			}
			if w.StackID, err = parseInt(m[2]); err != nil {
				return false, q.malformed(l, "window stack id", err)
			}
			continue
		}
		if m := wmMainFrame.FindStringSubmatch(l.text); m != nil {
			if w.Frame, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "window frame", err)
			}
			continue
		}
		if m := wmFrames.FindStringSubmatch(l.text); m != nil {
			if w.ContainingFrame, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "containing frame", err)
			}
			if w.ParentFrame, err = DecodeBracketRect(m[2]); err != nil {
				return false, q.malformed(l, "parent frame", err)
			}
			continue
		}
		if m := wmContentFrame.FindStringSubmatch(l.text); m != nil {
			if w.ContentFrame, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "content frame", err)
			}
			continue
		}
		// The insets line carries both surface and content insets.
		if m := wmSurfaceInsets.FindStringSubmatch(l.text); m != nil {
			if w.SurfaceInsets, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "surface insets", err)
			}
		}
		if m := wmContentInsets.FindStringSubmatch(l.text); m != nil {
			if w.ContentInsets, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "content insets", err)
			}
			continue
		}
		if m := wmGivenContentInsets.FindStringSubmatch(l.text); m != nil {
			if w.GivenContentInsets, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "given content insets", err)
			}
			continue
		}
		if m := wmCrop.FindStringSubmatch(l.text); m != nil {
			if w.CropRect, err = DecodeBracketRect(m[1]); err != nil {
				return false, q.malformed(l, "crop rect", err)
			}
			continue
		}
		if m := wmSurface.FindStringSubmatch(l.text); m != nil {
			if w.Shown, err = parseBool(m[1]); err != nil {
				return false, q.malformed(l, "shown=true|false", err)
			}
			if w.Layer, err = parseInt(m[2]); err != nil {
				return false, q.malformed(l, "surface layer", err)
			}
			continue
		}
		if m := wmAttrs.FindStringSubmatch(l.text); m != nil {
			if w.Type, err = parseInt(m[1]); err != nil {
				return false, q.malformed(l, "window type", err)
			}
		}
	}
	p.windows = append(p.windows, w)
	return true, nil
}

func decodeBracketRectPtr(tok string) (*wm.Rect, error) {
	r, err := DecodeBracketRect(tok)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
