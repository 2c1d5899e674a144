// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

func readTestData(t testing.TB, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal("Failed to read test data: ", err)
	}
	return string(b)
}

func TestParseActivities(t *testing.T) {
	got, err := ParseActivities(readTestData(t, "activities.txt"))
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}

	want := &wm.ActivitySnapshot{
		Displays: []wm.Display{{ID: 0, StackIDs: []int{0, 1}}},
		Stacks: []wm.Stack{
			{
				ID:         0,
				DisplayID:  0,
				Fullscreen: true,
				Tasks: []wm.Task{{
					ID:           2,
					StackID:      0,
					Fullscreen:   true,
					MinWidth:     -1,
					MinHeight:    -1,
					RealActivity: "com.android.launcher3/.Launcher",
					TaskType:     wm.HomeActivityType,
					ResizeMode:   wm.ResizeModeResizeable,
					Activities: []wm.Activity{{
						Name:        "com.android.launcher3/.Launcher",
						State:       wm.StateStopped,
						FrontOfTask: true,
						ProcID:      1190,
						TaskID:      2,
					}},
				}},
			},
			{
				ID:              1,
				DisplayID:       0,
				Fullscreen:      true,
				ResumedActivity: "com.example/.Main",
				Tasks: []wm.Task{{
					ID:           10,
					StackID:      1,
					Fullscreen:   true,
					MinWidth:     -1,
					MinHeight:    -1,
					RealActivity: "com.example/.Main",
					TaskType:     wm.ApplicationActivityType,
					ResizeMode:   wm.ResizeModeResizeable,
					Activities: []wm.Activity{{
						Name:        "com.example/.Main",
						State:       wm.StateResumed,
						Visible:     true,
						FrontOfTask: true,
						ProcID:      4321,
						TaskID:      10,
					}},
				}},
			},
		},
		FocusedStack:        1,
		ResumedActivity:     "com.example/.Main",
		GlobalConfiguration: &wm.Configuration{SmallestWidthDp: 411, WidthDp: 411, HeightDp: 659, DensityDpi: 420, Orientation: "port"},
	}
	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ParseActivities returned unexpected snapshot (-got +want):\n%s", diff)
	}
}

// Scenario: a single resumed activity in stack 1 on the default display.
func TestParseActivitiesSingleStack(t *testing.T) {
	const dump = `ACTIVITY MANAGER ACTIVITIES (dumpsys activity activities)
Display #0 (activities from top to bottom):
  Stack #1:
  mFullscreen=true
    Task id #10
    * TaskRecord{1a2b3c #10 A=com.example U=0 StackId=1 sz=1}
      * Hist #0: ActivityRecord{4d5e6f u0 com.example/.Main t10}
          state=RESUMED stopped=false delayedResume=false finishing=false
          keysPaused=false inHistory=true visible=true sleeping=false idle=true mStartingWindowState=STARTING_WINDOW_REMOVED
    mResumedActivity: ActivityRecord{4d5e6f u0 com.example/.Main t10}
  ResumedActivity: ActivityRecord{4d5e6f u0 com.example/.Main t10}
  mFocusedStack=ActivityStack{7a8b9c stackId=1, 1 tasks} mLastFocusedStack=ActivityStack{7a8b9c stackId=1, 1 tasks}
`
	s, err := ParseActivities(dump)
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}
	if got := s.FocusedStackID(); got != 1 {
		t.Errorf("FocusedStackID() = %d; want 1", got)
	}
	if !s.HasActivityState("com.example/.Main", wm.StateResumed) {
		t.Error("HasActivityState(com.example/.Main, RESUMED) = false; want true")
	}
	if s.HasActivityState("com.example/.Main", wm.StatePaused) {
		t.Error("HasActivityState(com.example/.Main, PAUSED) = true; want false")
	}
	if got, ok := s.FrontStackID(wm.DefaultDisplayID); !ok || got != 1 {
		t.Errorf("FrontStackID(0) = %d, %v; want 1, true", got, ok)
	}
	if got := s.ActivityProcID("com.example/.Main"); got != -1 {
		t.Errorf("ActivityProcID() = %d; want -1 without a process record", got)
	}
}

func TestParseActivitiesKeyguardAndOverrides(t *testing.T) {
	const dump = `ACTIVITY MANAGER ACTIVITIES (dumpsys activity activities)
Display #0 (activities from top to bottom):
  Stack #0:
  mFullscreen=true
    Task id #2
    * TaskRecord{1a2b3c #2 A=com.android.launcher3 U=0 StackId=0 sz=1}
      * Hist #0: ActivityRecord{4d5e6f u0 com.android.launcher3/.Launcher t2}
          state=STOPPED stopped=true delayedResume=false finishing=false

KeyguardController:
  mKeyguardShowing=true
  mOccluded=true
  mDismissingKeyguardActivity=null
mGlobalConfiguration: {1.0 ?mcc?mnc [en_US] ldltr sw360dp w360dp h568dp 320dpi nrml port}
Display override configurations:
  0: {1.0 ?mcc?mnc [en_US] ldltr sw360dp w360dp h568dp 320dpi nrml port}
  1: {1.0 ?mcc?mnc [en_US] ldltr sw720dp w1280dp h720dp 160dpi lrg land}
`
	s, err := ParseActivities(dump)
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}
	if diff := cmp.Diff(s.Keyguard, wm.KeyguardControllerState{Showing: true, Occluded: true}); diff != "" {
		t.Errorf("Keyguard mismatch (-got +want):\n%s", diff)
	}
	wantOverrides := map[int]wm.Configuration{
		0: {SmallestWidthDp: 360, WidthDp: 360, HeightDp: 568, DensityDpi: 320, Orientation: "port"},
		1: {SmallestWidthDp: 720, WidthDp: 1280, HeightDp: 720, DensityDpi: 160, Orientation: "land"},
	}
	if diff := cmp.Diff(s.DisplayConfigurations, wantOverrides); diff != "" {
		t.Errorf("DisplayConfigurations mismatch (-got +want):\n%s", diff)
	}
	if s.FocusedStackID() != wm.InvalidStackID {
		t.Errorf("FocusedStackID() = %d; want %d without mFocusedStack", s.FocusedStackID(), wm.InvalidStackID)
	}
	if got := s.ResumedActivitiesCount(); got != 0 {
		t.Errorf("ResumedActivitiesCount() = %d; want 0", got)
	}
}

func TestParseActivitiesMultiDisplay(t *testing.T) {
	const dump = `ACTIVITY MANAGER ACTIVITIES (dumpsys activity activities)
Display #0 (activities from top to bottom):
  Stack #1:
  mFullscreen=true
    Task id #10
    * TaskRecord{1a2b3c #10 A=com.example U=0 StackId=1 sz=1}
      * Hist #0: ActivityRecord{4d5e6f u0 com.example/.Main t10}
          state=RESUMED stopped=false delayedResume=false finishing=false
Display #2 (activities from top to bottom):
  Stack #7:
  mFullscreen=false
  mBounds=Rect(0, 0 - 640, 480)
    Task id #11
    mBounds=Rect(0, 0 - 320, 240)
    * TaskRecord{2b3c4d #11 A=com.example U=0 StackId=7 sz=1}
      * Hist #0: ActivityRecord{5e6f7a u0 com.example/.Second t11}
          state=RESUMED stopped=false delayedResume=false finishing=false
`
	s, err := ParseActivities(dump)
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}
	if diff := cmp.Diff(s.Displays, []wm.Display{{ID: 0, StackIDs: []int{1}}, {ID: 2, StackIDs: []int{7}}}); diff != "" {
		t.Errorf("Displays mismatch (-got +want):\n%s", diff)
	}
	st, ok := s.StackByID(7)
	if !ok {
		t.Fatal("Stack 7 not found")
	}
	if st.DisplayID != 2 {
		t.Errorf("Stack 7 DisplayID = %d; want 2", st.DisplayID)
	}
	if st.Bounds == nil || *st.Bounds != wm.NewRectLTRB(0, 0, 640, 480) {
		t.Errorf("Stack 7 Bounds = %v; want (0, 0) - (640, 480)", st.Bounds)
	}
	if !s.MultiDisplayResume() {
		t.Error("MultiDisplayResume() = false; want true for one resumed activity per display")
	}
	// Slices run bottom to top: stack 1 was printed first, hence on top.
	if got := s.StackPosition(1); got != 1 {
		t.Errorf("StackPosition(1) = %d; want 1", got)
	}
}

func TestParseActivitiesImplicitDefaultDisplay(t *testing.T) {
	const dump = `ACTIVITY MANAGER ACTIVITIES (dumpsys activity activities)
  Stack #0:
    Task id #2
      * Hist #0: ActivityRecord{4d5e6f u0 com.android.launcher3/.Launcher t2}
          state=RESUMED stopped=false delayedResume=false finishing=false
`
	s, err := ParseActivities(dump)
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}
	if diff := cmp.Diff(s.Displays, []wm.Display{{ID: 0, StackIDs: []int{0}}}); diff != "" {
		t.Errorf("Displays mismatch (-got +want):\n%s", diff)
	}
	// Without a TaskRecord line the task belongs to the enclosing stack.
	if task, ok := s.TaskByID(2); !ok || task.StackID != 0 {
		t.Errorf("TaskByID(2) = %+v, %v; want task in stack 0", task, ok)
	}
}

func TestParseActivitiesErrors(t *testing.T) {
	base := readTestData(t, "activities.txt")
	for _, tc := range []struct {
		name     string
		dump     string
		wantText string
	}{
		{
			name: "missing header",
			dump: strings.Replace(base, "ACTIVITY MANAGER ACTIVITIES", "ACTIVITY MANAGER PROCESSES", 1),
		},
		{
			name:     "malformed task bounds",
			dump:     strings.Replace(base, "    mBounds=null\n    mMinWidth", "    mBounds=Rect(a,b-c,d)\n    mMinWidth", 1),
			wantText: "mBounds=Rect(a,b-c,d)",
		},
		{
			name:     "unknown activity state",
			dump:     strings.Replace(base, "state=RESUMED", "state=LEVITATING", 1),
			wantText: "state=LEVITATING stopped=false delayedResume=false finishing=false",
		},
		{
			name:     "bad boolean",
			dump:     strings.Replace(base, "mKeyguardShowing=false", "mKeyguardShowing=maybe", 1),
			wantText: "mKeyguardShowing=maybe",
		},
		{
			name: "two resumed activities on one display",
			dump: strings.Replace(base, "state=STOPPED", "state=RESUMED", 1),
		},
		{
			name:     "bad sleeping flag",
			dump:     strings.Replace(base, "  Stack #1:\n  mFullscreen=true\n  isSleeping=false", "  Stack #1:\n  mFullscreen=true\n  isSleeping=dozing", 1),
			wantText: "isSleeping=dozing",
		},
		{
			name: "task in unknown stack",
			dump: strings.Replace(base, "* TaskRecord{9c8d7e6 #2 A=com.android.launcher3 U=0 StackId=0 sz=1}",
				"* TaskRecord{9c8d7e6 #2 A=com.android.launcher3 U=0 StackId=42 sz=1}", 1),
		},
		{
			name:     "malformed global configuration",
			dump: strings.Replace(base,
				"mGlobalConfiguration: {1.0 310mcc260mnc [en_US] ldltr sw411dp w411dp h659dp 420dpi nrml port finger -keyb/v/h -nav/h s.6}",
				"mGlobalConfiguration: {1.0 swdp}", 1),
			wantText: "mGlobalConfiguration: {1.0 swdp}",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseActivities(tc.dump)
			var me *wmerrors.MalformedDumpError
			if !errors.As(err, &me) {
				t.Fatalf("ParseActivities returned %v; want MalformedDumpError", err)
			}
			if me.Dump != "activities" || me.Version != FormatVersion {
				t.Errorf("Dump, Version = %q, %q; want activities, %q", me.Dump, me.Version, FormatVersion)
			}
			if tc.wantText == "" {
				return
			}
			if me.Text != tc.wantText {
				t.Errorf("Text = %q; want %q", me.Text, tc.wantText)
			}
			lines := strings.Split(tc.dump, "\n")
			if me.Line < 1 || me.Line > len(lines) || strings.TrimSpace(lines[me.Line-1]) != tc.wantText {
				t.Errorf("Line = %d does not point at %q", me.Line, tc.wantText)
			}
		})
	}
}

func TestParseActivitiesStackSleeping(t *testing.T) {
	base := readTestData(t, "activities.txt")
	dump := strings.Replace(base, "  Stack #1:\n  mFullscreen=true\n  isSleeping=false", "  Stack #1:\n  mFullscreen=true\n  isSleeping=true", 1)
	snap, err := ParseActivities(dump)
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}
	for _, id := range []int{0, 1} {
		st, ok := snap.StackByID(id)
		if !ok {
			t.Fatalf("Stack %d not found", id)
		}
		if want := id == 1; st.Sleeping != want {
			t.Errorf("Stack %d Sleeping = %t; want %t", id, st.Sleeping, want)
		}
	}
}

func TestParseActivitiesIgnoresUnknownLines(t *testing.T) {
	base := readTestData(t, "activities.txt")
	want, err := ParseActivities(base)
	if err != nil {
		t.Fatal("ParseActivities failed: ", err)
	}
	noisy := strings.Replace(base, "    mMinWidth=-1\n", "    mMinWidth=-1\n    mNewlyIntroducedField=42 withExtra=tokens\n", -1)
	noisy = strings.Replace(noisy, "KeyguardController:\n", "mSomethingElse: {}\nKeyguardController:\n", 1)
	got, err := ParseActivities(noisy)
	if err != nil {
		t.Fatal("ParseActivities failed on extra lines: ", err)
	}
	if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Unknown lines changed the snapshot (-got +want):\n%s", diff)
	}
}
