// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"fmt"
	"sort"
	"strings"

	"chromiumos/wmharness/common/android/wm"
)

// dumpWriter accumulates indented dump lines. Object hashes the model does
// not keep are synthesized from a counter so output is deterministic.
type dumpWriter struct {
	b    strings.Builder
	next int
}

func (w *dumpWriter) line(indent int, format string, args ...interface{}) {
	w.b.WriteString(strings.Repeat(" ", indent))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *dumpWriter) hash() string {
	w.next++
	return fmt.Sprintf("%x", 0x3a1f00+w.next*0x1d)
}

func (w *dumpWriter) String() string { return w.b.String() }

func formatRect(r wm.Rect) string {
	return fmt.Sprintf("Rect(%d, %d - %d, %d)", r.Left, r.Top, r.Right(), r.Bottom())
}

func formatBracketRect(r wm.Rect) string {
	return fmt.Sprintf("[%d,%d][%d,%d]", r.Left, r.Top, r.Right(), r.Bottom())
}

// RenderActivities writes s in the "dumpsys activity activities" format
// ParseActivities reads.
func RenderActivities(s *wm.ActivitySnapshot) string {
	w := &dumpWriter{}
	w.line(0, "ACTIVITY MANAGER ACTIVITIES (dumpsys activity activities)")

	var displayIDs []int
	if _, ok := s.DisplayByID(wm.DefaultDisplayID); !ok && len(s.StacksOnDisplay(wm.DefaultDisplayID)) > 0 {
		displayIDs = append(displayIDs, wm.DefaultDisplayID)
	}
	for _, d := range s.Displays {
		displayIDs = append(displayIDs, d.ID)
	}

	for _, id := range displayIDs {
		w.line(0, "Display #%d (activities from top to bottom):", id)
		stacks := s.StacksOnDisplay(id)
		for i := len(stacks) - 1; i >= 0; i-- {
			renderStack(w, s, &stacks[i])
		}
		w.line(0, "")
	}

	if s.ResumedActivity != "" {
		w.line(2, "ResumedActivity: ActivityRecord{%s u0 %s t%d}", w.hash(), s.ResumedActivity, taskIDOf(s, s.ResumedActivity))
	}
	if st, ok := s.StackByID(s.FocusedStack); ok {
		h := w.hash()
		w.line(2, "mFocusedStack=ActivityStack{%s stackId=%d, %d tasks} mLastFocusedStack=ActivityStack{%s stackId=%d, %d tasks}",
			h, st.ID, len(st.Tasks), h, st.ID, len(st.Tasks))
	} else if s.FocusedStack >= 0 {
		h := w.hash()
		w.line(2, "mFocusedStack=ActivityStack{%s stackId=%d, 0 tasks} mLastFocusedStack=ActivityStack{%s stackId=%d, 0 tasks}",
			h, s.FocusedStack, h, s.FocusedStack)
	}

	w.line(0, "KeyguardController:")
	w.line(2, "mKeyguardShowing=%t", s.Keyguard.Showing)
	w.line(2, "mOccluded=%t", s.Keyguard.Occluded)

	if s.GlobalConfiguration != nil {
		w.line(0, "mGlobalConfiguration: %s", formatConfiguration(*s.GlobalConfiguration))
	}
	if len(s.DisplayConfigurations) > 0 {
		w.line(0, "Display override configurations:")
		ids := make([]int, 0, len(s.DisplayConfigurations))
		for id := range s.DisplayConfigurations {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			w.line(2, "%d: %s", id, formatConfiguration(s.DisplayConfigurations[id]))
		}
	}
	return w.String()
}

func renderStack(w *dumpWriter, s *wm.ActivitySnapshot, st *wm.Stack) {
	w.line(2, "Stack #%d:", st.ID)
	w.line(2, "mFullscreen=%t", st.Fullscreen)
	w.line(2, "isSleeping=%t", st.Sleeping)
	if st.Bounds != nil {
		w.line(2, "mBounds=%s", formatRect(*st.Bounds))
	}
	for i := len(st.Tasks) - 1; i >= 0; i-- {
		renderTask(w, &st.Tasks[i])
	}
	if st.ResumedActivity != "" {
		w.line(4, "mResumedActivity: ActivityRecord{%s u0 %s t%d}", w.hash(), st.ResumedActivity, taskIDOf(s, st.ResumedActivity))
	}
}

func renderTask(w *dumpWriter, t *wm.Task) {
	affinity := wm.PackageOf(t.RealActivity)
	if affinity == "" {
		affinity = "null"
	}
	record := fmt.Sprintf("TaskRecord{%s #%d A=%s U=0 StackId=%d sz=%d}", w.hash(), t.ID, affinity, t.StackID, len(t.Activities))

	w.line(4, "Task id #%d", t.ID)
	w.line(4, "mFullscreen=%t", t.Fullscreen)
	if t.Bounds != nil {
		w.line(4, "mBounds=%s", formatRect(*t.Bounds))
	}
	w.line(4, "mMinWidth=%d", t.MinWidth)
	w.line(4, "mMinHeight=%d", t.MinHeight)
	if t.LastNonFullscreenBounds != nil {
		w.line(4, "mLastNonFullscreenBounds=%s", formatRect(*t.LastNonFullscreenBounds))
	} else {
		w.line(4, "mLastNonFullscreenBounds=null")
	}
	w.line(4, "* %s", record)
	w.line(6, "userId=0 effectiveUid=u0a45 mCallingUid=u0a45 mUserSetupComplete=true mCallingPackage=%s", affinity)
	if t.RealActivity != "" {
		w.line(6, "realActivity=%s", t.RealActivity)
	}
	if t.OrigActivity != "" {
		w.line(6, "origActivity=%s", t.OrigActivity)
	}
	if t.TaskType >= 0 {
		w.line(6, "autoRemoveRecents=false isPersistable=true numFullscreen=%d taskType=%d mTaskToReturnTo=0", len(t.Activities), t.TaskType)
	}
	if t.ResizeMode != "" {
		w.line(6, "mResizeMode=%s mSupportsPictureInPicture=false isResizeable=%t", t.ResizeMode, t.Resizeable())
	}
	for i := len(t.Activities) - 1; i >= 0; i-- {
		a := &t.Activities[i]
		pkg := wm.PackageOf(a.Name)
		w.line(6, "* Hist #%d: ActivityRecord{%s u0 %s t%d}", i, w.hash(), a.Name, a.TaskID)
		w.line(8, "packageName=%s processName=%s", pkg, pkg)
		if a.ProcID >= 0 {
			w.line(8, "app=ProcessRecord{%s %d:%s/u0a45}", w.hash(), a.ProcID, pkg)
		} else {
			w.line(8, "app=null")
		}
		w.line(8, "state=%s stopped=%t delayedResume=false finishing=false", a.State, a.State == wm.StateStopped)
		w.line(8, "keysPaused=false inHistory=true visible=%t sleeping=false idle=true mStartingWindowState=STARTING_WINDOW_NOT_SHOWN", a.Visible)
		w.line(8, "frontOfTask=%t task=%s", a.FrontOfTask, record)
		w.line(0, "")
	}
}

func taskIDOf(s *wm.ActivitySnapshot, activity string) int {
	if t, ok := s.TaskByActivityName(activity, wm.InvalidStackID); ok {
		return t.ID
	}
	return 0
}

// RenderWindows writes s in the "dumpsys window -a" format ParseWindows
// reads.
func RenderWindows(s *wm.WindowSnapshot) string {
	w := &dumpWriter{}
	w.line(0, "WINDOW MANAGER DISPLAY CONTENTS (dumpsys window displays)")

	// Stacks are attributed to the last display header, so stacks of a
	// default display without its own entry come first.
	if _, ok := s.DisplayByID(wm.DefaultDisplayID); !ok {
		renderWindowStacks(w, s, wm.DefaultDisplayID)
	}
	for _, d := range s.Displays {
		w.line(2, "Display: mDisplayId=%d", d.ID)
		w.line(4, "init=%dx%d %ddpi cur=%dx%d app=%dx%d rng=%dx%d-%dx%d",
			d.DisplayRect.Width, d.DisplayRect.Height, d.Density,
			d.DisplayRect.Width, d.DisplayRect.Height,
			d.AppRect.Width, d.AppRect.Height,
			d.AppRect.Width, d.AppRect.Width, d.AppRect.Height, d.AppRect.Height)
		renderWindowStacks(w, s, d.ID)
	}
	if s.DefaultPinnedStackBounds != nil || s.PinnedStackMovementBounds != nil {
		w.line(2, "PinnedStackController")
		if s.DefaultPinnedStackBounds != nil {
			w.line(4, "defaultBounds=%s", formatBracketRect(*s.DefaultPinnedStackBounds))
		}
		if s.PinnedStackMovementBounds != nil {
			w.line(4, "movementBounds=%s", formatBracketRect(*s.PinnedStackMovementBounds))
		}
	}
	w.line(0, "")

	w.line(0, "WINDOW MANAGER WINDOWS (dumpsys window windows)")
	for i := len(s.Windows) - 1; i >= 0; i-- {
		renderWindow(w, i, &s.Windows[i])
	}
	w.line(0, "")

	if s.FocusedWindow != "" {
		h := w.hash()
		if win, ok := s.FocusedWindowState(); ok && win.Hash != "" {
			h = win.Hash
		}
		w.line(2, "mCurrentFocus=Window{%s u0 %s}", h, s.FocusedWindow)
	}
	if s.FocusedApp != "" {
		w.line(2, "mFocusedApp=AppWindowToken{%s token=Token{%s ActivityRecord{%s u0 %s t0}}}", w.hash(), w.hash(), w.hash(), s.FocusedApp)
	}
	if s.InputMethodWindowHash != "" {
		w.line(2, "mInputMethodWindow=Window{%s u0 InputMethod}", s.InputMethodWindowHash)
	}
	if r := s.StableBounds; r != nil {
		w.line(2, "mStable=(%d,%d)-(%d,%d)", r.Left, r.Top, r.Right(), r.Bottom())
	}
	w.line(2, "mRotation=%d mAltOrientation=false", s.Rotation)
	w.line(2, "mLastWindowForcedOrientation=-1 mLastOrientation=%d", s.LastOrientation)
	w.line(2, "mDisplayFrozen=%t windowsAreFocusable=true", s.DisplayFrozen)
	w.line(2, "mLastDisplayFreezeDuration=%s", FormatDuration(s.LastDisplayFreezeDuration))
	w.line(2, "mMinimizedDock=%t", s.DockedStackMinimized)
	if s.LastTransition != "" {
		w.line(2, "mLastUsedAppTransition=%s", s.LastTransition)
	}
	if s.AppTransitionState != "" {
		w.line(2, "mAppTransitionState=%s", s.AppTransitionState)
	}
	return w.String()
}

func renderWindowStacks(w *dumpWriter, s *wm.WindowSnapshot, displayID int) {
	for i := len(s.Stacks) - 1; i >= 0; i-- {
		st := &s.Stacks[i]
		if st.DisplayID != displayID {
			continue
		}
		w.line(4, "mStackId=%d", st.ID)
		w.line(6, "mFillsParent=%t", st.Fullscreen)
		if st.Bounds != nil {
			w.line(6, "mBounds=%s", formatBracketRect(*st.Bounds))
		}
		if st.AnimationBackgroundSurfaceShowing {
			w.line(6, "mWindowAnimationBackgroundSurface:")
			w.line(8, "mDimSurface=Surface(name=WindowAnimationBackground) mLayer=0")
		}
		for j := len(st.Tasks) - 1; j >= 0; j-- {
			t := &st.Tasks[j]
			w.line(6, "taskId=%d", t.ID)
			w.line(8, "mFillsParent=%t", t.Fullscreen)
			if t.Bounds != nil {
				w.line(8, "mBounds=%s", formatBracketRect(*t.Bounds))
			}
			if t.TempInsetBounds != nil {
				w.line(8, "mTempInsetBounds=%s", formatBracketRect(*t.TempInsetBounds))
			}
			for k := len(t.AppTokens) - 1; k >= 0; k-- {
				w.line(10, "Activity #%d AppWindowToken{%s token=Token{%s ActivityRecord{%s u0 %s t%d}}}",
					k, w.hash(), w.hash(), w.hash(), t.AppTokens[k], t.ID)
			}
		}
	}
}

func renderWindow(w *dumpWriter, index int, win *wm.WindowState) {
	title := win.Name
	switch win.Kind {
	case wm.WindowStarting:
		title = "Starting " + win.Name
	case wm.WindowExiting:
		title = win.Name + " EXITING"
	case wm.WindowDebugger:
		title = "Waiting For Debugger: " + win.Name
	}
	nonNeg := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	w.line(2, "Window #%d Window{%s u0 %s}:", index, win.Hash, title)
	w.line(4, "mDisplayId=%d stackId=%d mSession=Session{%s 1234:u0a10045} mClient=android.os.BinderProxy@%s", win.DisplayID, win.StackID, w.hash(), w.hash())
	w.line(4, "mAttrs=WM.LayoutParams{(0,0)(fillxfill) ty=%d fl=#81810100}", win.Type)
	w.line(4, "Surface: shown=%t layer=%d alpha=1.0 rect=(0.0,0.0) %d.0 x %d.0", win.Shown, win.Layer, nonNeg(win.Frame.Width), nonNeg(win.Frame.Height))
	w.line(4, "mFrame=%s last=%s", formatBracketRect(win.Frame), formatBracketRect(win.Frame))
	w.line(4, "Frames: containing=%s parent=%s", formatBracketRect(win.ContainingFrame), formatBracketRect(win.ParentFrame))
	w.line(6, "content=%s visible=%s", formatBracketRect(win.ContentFrame), formatBracketRect(win.ContentFrame))
	w.line(4, "Cur insets: overscan=[0,0][0,0] content=%s visible=[0,0][0,0] stable=[0,0][0,0] surface=%s outsets=[0,0][0,0]",
		formatBracketRect(win.ContentInsets), formatBracketRect(win.SurfaceInsets))
	w.line(4, "mGivenContentInsets=%s mGivenVisibleInsets=[0,0][0,0]", formatBracketRect(win.GivenContentInsets))
	w.line(4, "mSystemDecorRect=[0,0][0,0] mLastClipRect=%s", formatBracketRect(win.CropRect))
}

// RenderDisplayMetrics writes m as the outputs of "wm size" and
// "wm density".
func RenderDisplayMetrics(m *wm.DisplayMetrics) (sizeOut, densityOut string) {
	sizeOut = fmt.Sprintf("Physical size: %s\n", m.PhysicalSize)
	if m.OverrideSize != nil {
		sizeOut += fmt.Sprintf("Override size: %s\n", *m.OverrideSize)
	}
	densityOut = fmt.Sprintf("Physical density: %d\n", m.PhysicalDensity)
	if m.OverrideDensity != nil {
		densityOut += fmt.Sprintf("Override density: %d\n", *m.OverrideDensity)
	}
	return sizeOut, densityOut
}
