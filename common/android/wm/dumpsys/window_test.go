// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

func TestParseWindows(t *testing.T) {
	s, err := ParseWindows(readTestData(t, "windows.txt"))
	if err != nil {
		t.Fatal("ParseWindows failed: ", err)
	}

	full := wm.NewRectLTRB(0, 0, 1080, 1920)
	wantDisplays := []wm.WindowDisplay{{
		ID:          0,
		Density:     420,
		DisplayRect: full,
		AppRect:     wm.Rect{Width: 1080, Height: 1794},
	}}
	if diff := cmp.Diff(s.Displays, wantDisplays); diff != "" {
		t.Errorf("Displays mismatch (-got +want):\n%s", diff)
	}

	wantStacks := []wm.WindowStack{
		{
			ID:         0,
			Fullscreen: true,
			Bounds:     &full,
			Tasks: []wm.WindowTask{{
				ID:         2,
				Fullscreen: true,
				Bounds:     &full,
				AppTokens:  []string{"com.android.launcher3/.Launcher"},
			}},
		},
		{
			ID:         1,
			Fullscreen: true,
			Bounds:     &full,
			Tasks: []wm.WindowTask{{
				ID:              10,
				Fullscreen:      true,
				Bounds:          &full,
				TempInsetBounds: &wm.Rect{},
				AppTokens:       []string{"com.example/.Main"},
			}},
		},
	}
	if diff := cmp.Diff(s.Stacks, wantStacks); diff != "" {
		t.Errorf("Stacks mismatch (-got +want):\n%s", diff)
	}

	var names []string
	for _, w := range s.Windows {
		names = append(names, w.Name)
	}
	wantNames := []string{
		"com.android.systemui.ImageWallpaper",
		"com.android.launcher3/com.android.launcher3.Launcher",
		"com.example",
		"com.example/com.example.Main",
		"StatusBar",
	}
	if diff := cmp.Diff(names, wantNames); diff != "" {
		t.Errorf("Window order mismatch (-got +want):\n%s", diff)
	}

	wantMain := wm.WindowState{
		Name:               "com.example/com.example.Main",
		Hash:               "5d6e7f8",
		Kind:               wm.WindowNormal,
		DisplayID:          0,
		StackID:            1,
		Shown:              true,
		Layer:              21010,
		Type:               wm.TypeBaseApplication,
		Frame:              full,
		ContainingFrame:    full,
		ParentFrame:        full,
		ContentFrame:       wm.NewRectLTRB(0, 63, 1080, 1794),
		ContentInsets:      wm.NewRectLTRB(0, 63, 0, 126),
		GivenContentInsets: wm.Rect{},
		CropRect:           full,
	}
	if diff := cmp.Diff(s.Windows[3], wantMain); diff != "" {
		t.Errorf("Main window mismatch (-got +want):\n%s", diff)
	}
	if got := s.Windows[2]; got.Kind != wm.WindowStarting || got.Shown {
		t.Errorf("Starting window = %+v; want a hidden starting window", got)
	}
	if got := s.Windows[0]; got.Type != wm.TypeWallpaper || got.StackID != -1 {
		t.Errorf("Wallpaper = %+v; want type %d outside any stack", got, wm.TypeWallpaper)
	}

	if s.FocusedWindow != "com.example/com.example.Main" {
		t.Errorf("FocusedWindow = %q", s.FocusedWindow)
	}
	if s.FocusedApp != "com.example/.Main" {
		t.Errorf("FocusedApp = %q", s.FocusedApp)
	}
	if s.InputMethodWindowHash != "4e5f6a7" {
		t.Errorf("InputMethodWindowHash = %q", s.InputMethodWindowHash)
	}
	if s.LastTransition != wm.TransitActivityOpen || s.AppTransitionState != wm.AppStateIdle {
		t.Errorf("LastTransition, AppTransitionState = %q, %q", s.LastTransition, s.AppTransitionState)
	}
	if s.Rotation != 0 || s.LastOrientation != 1 {
		t.Errorf("Rotation, LastOrientation = %d, %d; want 0, 1", s.Rotation, s.LastOrientation)
	}
	if want := wm.NewRectLTRB(0, 63, 1080, 1794); s.StableBounds == nil || *s.StableBounds != want {
		t.Errorf("StableBounds = %v; want %v", s.StableBounds, want)
	}
	if want := wm.NewRectLTRB(804, 1420, 1038, 1551); s.DefaultPinnedStackBounds == nil || *s.DefaultPinnedStackBounds != want {
		t.Errorf("DefaultPinnedStackBounds = %v; want %v", s.DefaultPinnedStackBounds, want)
	}
	if want := wm.NewRectLTRB(42, 84, 1038, 1626); s.PinnedStackMovementBounds == nil || *s.PinnedStackMovementBounds != want {
		t.Errorf("PinnedStackMovementBounds = %v; want %v", s.PinnedStackMovementBounds, want)
	}
	if want := time.Second + 3*time.Millisecond; s.LastDisplayFreezeDuration != want {
		t.Errorf("LastDisplayFreezeDuration = %v; want %v", s.LastDisplayFreezeDuration, want)
	}
	if s.DisplayFrozen || s.DockedStackMinimized {
		t.Errorf("DisplayFrozen, DockedStackMinimized = %v, %v; want false, false", s.DisplayFrozen, s.DockedStackMinimized)
	}
	if !s.HasTransientWindows() {
		t.Error("HasTransientWindows() = false with a starting window present")
	}
	if w, ok := s.FrontWindow(); !ok || w.Name != "StatusBar" {
		t.Errorf("FrontWindow() = %q, %v; want StatusBar", w.Name, ok)
	}
}

func TestParseWindowsKinds(t *testing.T) {
	const dump = `WINDOW MANAGER WINDOWS (dumpsys window windows)
  Window #3 Window{a1 u0 Waiting For Debugger: com.example}:
    mDisplayId=0 stackId=1 mSession=Session{b1 1:1} mClient=c1
  Window #2 Window{a2 u0 com.example/com.example.Main EXITING}:
    mDisplayId=0 stackId=1 mSession=Session{b2 1:1} mClient=c2
  Window #1 Window{a3 u0 Starting com.example}:
    mDisplayId=0 stackId=1 mSession=Session{b3 1:1} mClient=c3
  Window #0 Window{a4 u0 com.android.launcher3/com.android.launcher3.Launcher}:
    mDisplayId=0 stackId=0 mSession=Session{b4 1:1} mClient=c4
  mCurrentFocus=Window{a1 u0 Application Error: com.example}
`
	s, err := ParseWindows(dump)
	if err != nil {
		t.Fatal("ParseWindows failed: ", err)
	}
	type kind struct {
		Name string
		Kind wm.WindowKind
	}
	var got []kind
	for _, w := range s.Windows {
		got = append(got, kind{w.Name, w.Kind})
	}
	want := []kind{
		{"com.android.launcher3/com.android.launcher3.Launcher", wm.WindowNormal},
		{"com.example", wm.WindowStarting},
		{"com.example/com.example.Main", wm.WindowExiting},
		{"com.example", wm.WindowDebugger},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Window kinds mismatch (-got +want):\n%s", diff)
	}
	if s.FocusedWindow != "com.example" {
		t.Errorf("FocusedWindow = %q; want the package of the error dialog", s.FocusedWindow)
	}
}

func TestParseWindowsSecondaryDisplay(t *testing.T) {
	const dump = `WINDOW MANAGER DISPLAY CONTENTS (dumpsys window displays)
  Display: mDisplayId=0
    init=1080x1920 420dpi cur=1920x1080 app=1920x1017 rng=1080x1017-1794x1731
    mStackId=1
    mFillsParent=true
  Display: mDisplayId=3
    init=1280x720 160dpi cur=1280x720 app=1280x720 rng=720x720-1280x1280
    mStackId=7
    mFillsParent=false
    mBounds=[0,0][640,480]
WINDOW MANAGER WINDOWS (dumpsys window windows)
  Window #0 Window{a1 u0 com.example/com.example.Second}:
    mDisplayId=3 stackId=7 mSession=Session{b1 1:1} mClient=c1
`
	s, err := ParseWindows(dump)
	if err != nil {
		t.Fatal("ParseWindows failed: ", err)
	}
	d, ok := s.DisplayByID(3)
	if !ok {
		t.Fatal("Display 3 not found")
	}
	if d.Density != 160 || d.DisplayRect != (wm.Rect{Width: 1280, Height: 720}) || d.IsDefault() {
		t.Errorf("Display 3 = %+v", d)
	}
	if d0, _ := s.DisplayByID(0); d0.DisplayRect != (wm.Rect{Width: 1920, Height: 1080}) {
		t.Errorf("Display 0 uses %v; want the current size, not the initial one", d0.DisplayRect)
	}
	st, ok := s.StackByID(7)
	if !ok || st.DisplayID != 3 || st.Fullscreen {
		t.Errorf("StackByID(7) = %+v, %v; want a non-fullscreen stack on display 3", st, ok)
	}
	if id, ok := s.FrontStackID(3); !ok || id != 7 {
		t.Errorf("FrontStackID(3) = %d, %v; want 7, true", id, ok)
	}
}

func TestParseWindowsErrors(t *testing.T) {
	base := readTestData(t, "windows.txt")
	for _, tc := range []struct {
		name     string
		dump     string
		wantText string
	}{
		{
			name: "missing windows section",
			dump: strings.Replace(base, "WINDOW MANAGER WINDOWS", "WINDOW MANAGER POLICY STATE", 1),
		},
		{
			name:     "malformed stack bounds",
			dump:     strings.Replace(base, "    mBounds=[0,0][1080,1920]\n      taskId=10", "    mBounds=[0,0][1080,x]\n      taskId=10", 1),
			wantText: "mBounds=[0,0][1080,x]",
		},
		{
			name:     "malformed display density",
			dump:     strings.Replace(base, "420dpi cur=", "x20dpi cur=", 1),
			wantText: "init=1080x1920 x20dpi cur=1080x1920 app=1080x1794 rng=1080x1017-1794x1731",
		},
		{
			name:     "malformed freeze duration",
			dump:     strings.Replace(base, "mLastDisplayFreezeDuration=+1s3ms", "mLastDisplayFreezeDuration=soon", 1),
			wantText: "mLastDisplayFreezeDuration=soon due to Window{5d6e7f8 u0 com.example/com.example.Main}",
		},
		{
			name:     "bad shown flag",
			dump:     strings.Replace(base, "Surface: shown=true layer=21010", "Surface: shown=yes layer=21010", 1),
			wantText: "Surface: shown=yes layer=21010 alpha=1.0 rect=(0.0,0.0) 1080.0 x 1920.0",
		},
		{
			name: "window on unknown display",
			dump: strings.Replace(base, "mDisplayId=0 stackId=1 mSession=Session{2b3c4d", "mDisplayId=5 stackId=1 mSession=Session{2b3c4d", 1),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseWindows(tc.dump)
			var me *wmerrors.MalformedDumpError
			if !errors.As(err, &me) {
				t.Fatalf("ParseWindows returned %v; want MalformedDumpError", err)
			}
			if me.Dump != "windows" {
				t.Errorf("Dump = %q; want windows", me.Dump)
			}
			if tc.wantText != "" && me.Text != tc.wantText {
				t.Errorf("Text = %q; want %q", me.Text, tc.wantText)
			}
		})
	}
}

func TestParseWindowsEmptySections(t *testing.T) {
	s, err := ParseWindows("WINDOW MANAGER WINDOWS (dumpsys window windows)\n")
	if err != nil {
		t.Fatal("ParseWindows failed: ", err)
	}
	if diff := cmp.Diff(s, &wm.WindowSnapshot{}, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ParseWindows returned unexpected snapshot (-got +want):\n%s", diff)
	}
	if _, ok := s.FrontWindow(); ok {
		t.Error("FrontWindow() found a window in an empty dump")
	}
}
