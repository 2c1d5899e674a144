// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wm

import (
	"regexp"
	"strings"
)

// Stack IDs assigned by the activity manager.
const (
	InvalidStackID    = -1
	HomeStackID       = 0
	FullscreenStackID = 1
	FreeformStackID   = 2
	DockedStackID     = 3
	PinnedStackID     = 4
	RecentsStackID    = 5
	AssistantStackID  = 6
)

// DefaultDisplayID is the ID of the built-in display.
const DefaultDisplayID = 0

// Task types reported as taskType=N.
const (
	ApplicationActivityType = 0
	HomeActivityType        = 1
	RecentsActivityType     = 2
)

// ResizeModeResizeable is the mResizeMode of resizeable tasks.
const ResizeModeResizeable = "RESIZE_MODE_RESIZEABLE"

// App transitions reported as mLastUsedAppTransition.
const (
	TransitActivityOpen                 = "TRANSIT_ACTIVITY_OPEN"
	TransitActivityClose                = "TRANSIT_ACTIVITY_CLOSE"
	TransitTaskOpen                     = "TRANSIT_TASK_OPEN"
	TransitTaskClose                    = "TRANSIT_TASK_CLOSE"
	TransitWallpaperOpen                = "TRANSIT_WALLPAPER_OPEN"
	TransitWallpaperClose               = "TRANSIT_WALLPAPER_CLOSE"
	TransitWallpaperIntraOpen           = "TRANSIT_WALLPAPER_INTRA_OPEN"
	TransitWallpaperIntraClose          = "TRANSIT_WALLPAPER_INTRA_CLOSE"
	TransitKeyguardGoingAway            = "TRANSIT_KEYGUARD_GOING_AWAY"
	TransitKeyguardGoingAwayOnWallpaper = "TRANSIT_KEYGUARD_GOING_AWAY_ON_WALLPAPER"
	TransitKeyguardOcclude              = "TRANSIT_KEYGUARD_OCCLUDE"
	TransitKeyguardUnocclude            = "TRANSIT_KEYGUARD_UNOCCLUDE"
)

// AppStateIdle is the mAppTransitionState when no transition is running.
const AppStateIdle = "APP_STATE_IDLE"

// Window types reported in mAttrs as ty=N.
const (
	TypeBaseApplication = 1
	TypeApplication     = 2
	TypeStatusBar       = 2000
	TypeInputMethod     = 2011
	TypeWallpaper       = 2013
	TypeNavigationBar   = 2019
)

// ActivityComponentName returns the component name of activity name in pkg
// as printed by the activity manager, e.g. "com.example/.Main".
// Names that already contain a dot are taken as fully qualified.
func ActivityComponentName(pkg, name string) string {
	sep := "."
	if strings.Contains(name, ".") {
		sep = ""
	}
	return pkg + "/" + sep + name
}

// WindowName returns the name of the main window of activity name in pkg as
// printed by the window manager, e.g. "com.example/com.example.Main".
func WindowName(pkg, name string) string {
	prefix := ""
	if !strings.Contains(name, ".") {
		prefix = pkg + "."
	}
	return pkg + "/" + prefix + name
}

var shortComponent = regexp.MustCompile(`^(.*)/\.`)

// WindowNameForActivity converts an activity component name to the name of
// its window: "com.example/.Main" becomes "com.example/com.example.Main".
func WindowNameForActivity(component string) string {
	return shortComponent.ReplaceAllString(component, "$1/$1.")
}

// PackageOf returns the package part of a component name.
func PackageOf(component string) string {
	if i := strings.Index(component, "/"); i >= 0 {
		return component[:i]
	}
	return component
}

// DpToPx converts density independent pixels to pixels at density dpi.
func DpToPx(dp float64, dpi int) int {
	return int(dp*float64(dpi)/160 + 0.5)
}
