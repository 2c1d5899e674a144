// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

// snapshotGen builds random snapshots that satisfy the layout rules the
// renderers rely on: display 0 first, stacks grouped per display with the
// last display's group first, and unique IDs throughout.
type snapshotGen struct {
	r    *rand.Rand
	next int
}

func newSnapshotGen(seed int64) *snapshotGen {
	return &snapshotGen{r: rand.New(rand.NewSource(seed))}
}

func (g *snapshotGen) id() int {
	g.next++
	return g.next
}

func (g *snapshotGen) coin() bool { return g.r.Intn(2) == 0 }

func (g *snapshotGen) rect() wm.Rect {
	l, t := g.r.Intn(400)-100, g.r.Intn(400)-100
	return wm.NewRectLTRB(l, t, l+g.r.Intn(1200), t+g.r.Intn(1200))
}

func (g *snapshotGen) optRect() *wm.Rect {
	if g.coin() {
		return nil
	}
	return wm.RectPtr(g.rect())
}

func (g *snapshotGen) displayIDs() []int {
	ids := []int{wm.DefaultDisplayID}
	for i, n := 0, g.r.Intn(3); i < n; i++ {
		ids = append(ids, 2+i)
	}
	return ids
}

func (g *snapshotGen) configuration() wm.Configuration {
	orientations := []string{"", "port", "land"}
	return wm.Configuration{
		SmallestWidthDp: 300 + g.r.Intn(500),
		WidthDp:         300 + g.r.Intn(1000),
		HeightDp:        300 + g.r.Intn(1000),
		DensityDpi:      []int{160, 240, 320, 420}[g.r.Intn(4)],
		Orientation:     orientations[g.r.Intn(len(orientations))],
	}
}

var genStates = []wm.ActivityState{
	wm.StateInitializing, wm.StateCreated, wm.StateStarted, wm.StateResumed,
	wm.StatePausing, wm.StatePaused, wm.StateStopping, wm.StateStopped,
	wm.StateFinishing, wm.StateDestroying, wm.StateDestroyed,
}

func (g *snapshotGen) activities() *wm.ActivitySnapshot {
	s := &wm.ActivitySnapshot{
		FocusedStack: wm.InvalidStackID,
		Keyguard:     wm.KeyguardControllerState{Showing: g.coin(), Occluded: g.coin()},
	}
	displays := g.displayIDs()
	groups := make([][]wm.Stack, len(displays))
	var resumed []string
	for di, d := range displays {
		display := wm.Display{ID: d}
		resumedOnDisplay := false
		for i, n := 0, g.r.Intn(4); i < n; i++ {
			st := wm.Stack{ID: g.id(), DisplayID: d, Fullscreen: g.coin(), Sleeping: g.coin(), Bounds: g.optRect()}
			for j, n := 0, g.r.Intn(3); j < n; j++ {
				t := wm.Task{
					ID:                      g.id(),
					StackID:                 st.ID,
					Fullscreen:              g.coin(),
					Bounds:                  g.optRect(),
					MinWidth:                -1,
					MinHeight:               -1,
					LastNonFullscreenBounds: g.optRect(),
					TaskType:                g.r.Intn(4) - 1,
				}
				if g.coin() {
					t.MinWidth, t.MinHeight = 100+g.r.Intn(400), 100+g.r.Intn(400)
				}
				if g.coin() {
					t.ResizeMode = wm.ResizeModeResizeable
				}
				pkg := fmt.Sprintf("com.example%d", t.ID)
				for k, n := 0, 1+g.r.Intn(3); k < n; k++ {
					a := wm.Activity{
						Name:        fmt.Sprintf("%s/.Activity%d", pkg, k),
						State:       genStates[g.r.Intn(len(genStates))],
						Visible:     g.coin(),
						FrontOfTask: k == 0,
						ProcID:      -1,
						TaskID:      t.ID,
					}
					if a.State == wm.StateResumed {
						if resumedOnDisplay {
							a.State = wm.StatePaused
						} else {
							resumedOnDisplay = true
							st.ResumedActivity = a.Name
							resumed = append(resumed, a.Name)
						}
					}
					if g.coin() {
						a.ProcID = 1000 + g.r.Intn(9000)
					}
					t.Activities = append(t.Activities, a)
				}
				if g.coin() {
					t.RealActivity = t.Activities[0].Name
				}
				if g.coin() {
					t.OrigActivity = pkg + "/.Alias"
				}
				st.Tasks = append(st.Tasks, t)
			}
			display.StackIDs = append(display.StackIDs, st.ID)
			groups[di] = append(groups[di], st)
		}
		s.Displays = append(s.Displays, display)
	}
	for di := len(groups) - 1; di >= 0; di-- {
		s.Stacks = append(s.Stacks, groups[di]...)
	}

	if len(s.Stacks) > 0 && g.coin() {
		s.FocusedStack = s.Stacks[g.r.Intn(len(s.Stacks))].ID
	}
	if len(resumed) > 0 && g.coin() {
		s.ResumedActivity = resumed[g.r.Intn(len(resumed))]
	}
	if g.coin() {
		c := g.configuration()
		s.GlobalConfiguration = &c
	}
	for _, d := range displays {
		if g.coin() {
			if s.DisplayConfigurations == nil {
				s.DisplayConfigurations = make(map[int]wm.Configuration)
			}
			s.DisplayConfigurations[d] = g.configuration()
		}
	}
	return s
}

var genWindowKinds = []wm.WindowKind{wm.WindowNormal, wm.WindowStarting, wm.WindowExiting, wm.WindowDebugger}

var genTransitions = []string{"", wm.TransitActivityOpen, wm.TransitTaskOpen, wm.TransitTaskClose, wm.TransitKeyguardGoingAway}

func (g *snapshotGen) windows() *wm.WindowSnapshot {
	s := &wm.WindowSnapshot{
		Rotation:                  g.r.Intn(4),
		LastOrientation:           g.r.Intn(3) - 1,
		StableBounds:              g.optRect(),
		DefaultPinnedStackBounds:  g.optRect(),
		PinnedStackMovementBounds: g.optRect(),
		DisplayFrozen:             g.coin(),
		DockedStackMinimized:      g.coin(),
		LastDisplayFreezeDuration: time.Duration(g.r.Intn(200000)) * time.Millisecond,
		LastTransition:            genTransitions[g.r.Intn(len(genTransitions))],
	}
	if g.coin() {
		s.AppTransitionState = wm.AppStateIdle
	}

	displays := g.displayIDs()
	groups := make([][]wm.WindowStack, len(displays))
	var stackIDs []int
	for di, d := range displays {
		// Only the sizes of the display rectangles are reported.
		w, h := 600+g.r.Intn(1500), 600+g.r.Intn(1500)
		s.Displays = append(s.Displays, wm.WindowDisplay{
			ID:          d,
			Density:     []int{160, 240, 320, 420}[g.r.Intn(4)],
			DisplayRect: wm.NewRectLTRB(0, 0, w, h),
			AppRect:     wm.NewRectLTRB(0, 0, w, h-g.r.Intn(200)),
		})
		for i, n := 0, g.r.Intn(4); i < n; i++ {
			st := wm.WindowStack{
				ID:                                g.id(),
				DisplayID:                         d,
				Fullscreen:                        g.coin(),
				Bounds:                            g.optRect(),
				AnimationBackgroundSurfaceShowing: g.coin(),
			}
			for j, n := 0, g.r.Intn(3); j < n; j++ {
				t := wm.WindowTask{ID: g.id(), Fullscreen: g.coin(), Bounds: g.optRect(), TempInsetBounds: g.optRect()}
				for k, n := 0, g.r.Intn(3); k < n; k++ {
					t.AppTokens = append(t.AppTokens, fmt.Sprintf("com.example%d/.Activity%d", t.ID, k))
				}
				st.Tasks = append(st.Tasks, t)
			}
			stackIDs = append(stackIDs, st.ID)
			groups[di] = append(groups[di], st)
		}
	}
	for di := len(groups) - 1; di >= 0; di-- {
		s.Stacks = append(s.Stacks, groups[di]...)
	}

	frame := func() wm.Rect {
		l, t := g.r.Intn(500), g.r.Intn(500)
		return wm.NewRectLTRB(l, t, l+g.r.Intn(1000), t+g.r.Intn(1000))
	}
	for i, n := 0, g.r.Intn(7); i < n; i++ {
		win := wm.WindowState{
			Name:               fmt.Sprintf("com.example%d/com.example%d.Activity", i, i),
			Hash:               fmt.Sprintf("%x", 0x100000+g.r.Intn(0xeffffff)),
			Kind:               genWindowKinds[g.r.Intn(len(genWindowKinds))],
			DisplayID:          displays[g.r.Intn(len(displays))],
			StackID:            wm.InvalidStackID,
			Shown:              g.coin(),
			Layer:              g.r.Intn(40000),
			Type:               []int{wm.TypeBaseApplication, wm.TypeApplication, 3, wm.TypeStatusBar}[g.r.Intn(4)],
			Frame:              frame(),
			ContainingFrame:    g.rect(),
			ParentFrame:        g.rect(),
			ContentFrame:       g.rect(),
			ContentInsets:      g.rect(),
			SurfaceInsets:      g.rect(),
			GivenContentInsets: g.rect(),
			CropRect:           g.rect(),
		}
		if len(stackIDs) > 0 && g.coin() {
			win.StackID = stackIDs[g.r.Intn(len(stackIDs))]
		}
		s.Windows = append(s.Windows, win)
	}
	if len(s.Windows) > 0 && g.coin() {
		s.FocusedWindow = s.Windows[g.r.Intn(len(s.Windows))].Name
	}
	if g.coin() {
		s.FocusedApp = "com.example0/.Activity0"
	}
	if g.coin() {
		s.InputMethodWindowHash = fmt.Sprintf("%x", 0x100000+g.r.Intn(0xeffffff))
	}
	return s
}

func TestGeneratedActivitiesRoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		want := newSnapshotGen(seed).activities()
		if err := want.Validate(); err != nil {
			t.Fatalf("Seed %d generated an invalid snapshot: %v", seed, err)
		}
		dump := RenderActivities(want)
		got, err := ParseActivities(dump)
		if err != nil {
			t.Fatalf("Seed %d: ParseActivities failed on rendered dump: %v\n%s", seed, err, dump)
		}
		if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("Seed %d: round trip changed the snapshot (-got +want):\n%s\ndump:\n%s", seed, diff, dump)
		}
	}
}

func TestGeneratedWindowsRoundTrip(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		want := newSnapshotGen(seed).windows()
		if err := want.Validate(); err != nil {
			t.Fatalf("Seed %d generated an invalid snapshot: %v", seed, err)
		}
		dump := RenderWindows(want)
		got, err := ParseWindows(dump)
		if err != nil {
			t.Fatalf("Seed %d: ParseWindows failed on rendered dump: %v\n%s", seed, err, dump)
		}
		if diff := cmp.Diff(got, want, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("Seed %d: round trip changed the snapshot (-got +want):\n%s\ndump:\n%s", seed, diff, dump)
		}
	}
}

func FuzzParseActivities(f *testing.F) {
	f.Add(readTestData(f, "activities.txt"))
	f.Add(RenderActivities(multiDisplayActivities()))
	for seed := int64(1); seed <= 8; seed++ {
		f.Add(RenderActivities(newSnapshotGen(seed).activities()))
	}
	f.Fuzz(func(t *testing.T, dump string) {
		snap, err := ParseActivities(dump)
		if err != nil {
			var mde *wmerrors.MalformedDumpError
			if !errors.As(err, &mde) {
				t.Fatalf("ParseActivities returned %T, want *wmerrors.MalformedDumpError: %v", errors.Cause(err), err)
			}
			return
		}
		if err := snap.Validate(); err != nil {
			t.Fatalf("ParseActivities accepted a dump that fails validation: %v", err)
		}
	})
}

func FuzzParseWindows(f *testing.F) {
	f.Add(readTestData(f, "windows.txt"))
	f.Add(RenderWindows(multiDisplayWindows()))
	for seed := int64(1); seed <= 8; seed++ {
		f.Add(RenderWindows(newSnapshotGen(seed).windows()))
	}
	f.Fuzz(func(t *testing.T, dump string) {
		snap, err := ParseWindows(dump)
		if err != nil {
			var mde *wmerrors.MalformedDumpError
			if !errors.As(err, &mde) {
				t.Fatalf("ParseWindows returned %T, want *wmerrors.MalformedDumpError: %v", errors.Cause(err), err)
			}
			return
		}
		if err := snap.Validate(); err != nil {
			t.Fatalf("ParseWindows accepted a dump that fails validation: %v", err)
		}
	})
}
