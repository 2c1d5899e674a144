// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import "regexp"

// FormatVersion names the dump grammar implemented here. Every pattern the
// parsers rely on is declared in this file; a change in the device's dump
// format is handled by editing this file and bumping the version.
const FormatVersion = "android-7.1"

// Commands run on the device.
const (
	ActivitiesCommand = "dumpsys activity activities"
	WindowsCommand    = "dumpsys window -a"
	WMSizeCommand     = "wm size"
	WMDensityCommand  = "wm density"
)

// Dump names used in errors.
const (
	activitiesDump = "activities"
	windowsDump    = "windows"
	metricsDump    = "display metrics"
	tokenDump      = "token"
)

// Patterns are matched against whole trimmed lines.
var (
	// Activity manager, top level.
	amHeader            = regexp.MustCompile(`^ACTIVITY MANAGER ACTIVITIES\b.*$`)
	amDisplay           = regexp.MustCompile(`^Display #(\d+).*$`)
	amStack             = regexp.MustCompile(`^Stack #(\d+):.*$`)
	amResumedActivity   = regexp.MustCompile(`^ResumedActivity: ActivityRecord\{(.+) u(\d+) (\S+) (\S+)\}$`)
	amFocusedStack      = regexp.MustCompile(`^mFocusedStack=ActivityStack\{(.+) stackId=(\d+), (.+)\}(.+)$`)
	amKeyguard          = regexp.MustCompile(`^KeyguardController:$`)
	amKeyguardShowing   = regexp.MustCompile(`^mKeyguardShowing=(\S+)$`)
	amKeyguardOccluded  = regexp.MustCompile(`^mOccluded=(\S+)$`)
	amGlobalConfig      = regexp.MustCompile(`^mGlobalConfiguration: (.+)$`)
	amOverrideConfigs   = regexp.MustCompile(`^Display override configurations:$`)
	amOverrideConfEntry = regexp.MustCompile(`^(\d+): (\{.*\})$`)

	// Activity manager, stack level.
	amTaskID               = regexp.MustCompile(`^Task id #(\d+)$`)
	amStackResumedActivity = regexp.MustCompile(`^mResumedActivity: ActivityRecord\{(.+) u(\d+) (\S+) (\S+)\}$`)
	amSleeping             = regexp.MustCompile(`^isSleeping=(\S+)$`)

	// Activity manager, task level.
	amTaskRecord              = regexp.MustCompile(`^\* TaskRecord\{(\S+) #(\d+) (\S+)=(\S+) U=(\d+) StackId=(\d+) sz=(\d+)\}$`)
	amLastNonFullscreenBounds = regexp.MustCompile(`^mLastNonFullscreenBounds=(.+)$`)
	amOrigActivity            = regexp.MustCompile(`^origActivity=(\S+)$`)
	amRealActivity            = regexp.MustCompile(`^realActivity=(\S+)$`)
	amTaskType                = regexp.MustCompile(`^autoRemoveRecents=(\S+) isPersistable=(\S+) numFullscreen=(\d+) taskType=(\d+) mTaskToReturnTo=(\d+)$`)
	amResizeMode              = regexp.MustCompile(`^.*mResizeMode=(\S+).*$`)
	amMinWidth                = regexp.MustCompile(`^mMinWidth=(-?\d+)$`)
	amMinHeight               = regexp.MustCompile(`^mMinHeight=(-?\d+)$`)

	// Activity manager, activity level.
	amHist        = regexp.MustCompile(`^\* Hist #(\d+): ActivityRecord\{(\S+) u(\d+) (\S+) t(\d+)\}$`)
	amState       = regexp.MustCompile(`^state=(\S+).*$`)
	amVisibility  = regexp.MustCompile(`^keysPaused=(\S+) inHistory=(\S+) visible=(\S+) sleeping=(\S+) idle=(\S+) mStartingWindowState=(\S+)$`)
	amFrontOfTask = regexp.MustCompile(`^frontOfTask=(\S+) task=TaskRecord\{(\S+) #(\d+) A=(\S+) U=(\d+) StackId=(\d+) sz=(\d+)\}$`)
	amProcess     = regexp.MustCompile(`^app=ProcessRecord\{(\S+) (\d+):(\S+)/(.+)\}$`)

	// Activity manager containers.
	amFullscreen = regexp.MustCompile(`^mFullscreen=(\S+)$`)
	amBounds     = regexp.MustCompile(`^mBounds=(.+)$`)
)

// Exit patterns end the extraction of a nested block: a block owns every
// line up to, not including, the first line matching one of them.
var (
	amTopExits      = []*regexp.Regexp{amDisplay, amStack, amResumedActivity, amFocusedStack, amKeyguard, amGlobalConfig, amOverrideConfigs}
	amTaskExits     = append(append([]*regexp.Regexp(nil), amTopExits...), amTaskID, amStackResumedActivity, amSleeping)
	amActivityExits = append(append([]*regexp.Regexp(nil), amTaskExits...), amHist)
)

// rectToken matches the [l,t][r,b] rectangle notation loosely; values are
// validated by DecodeBracketRect.
const rectToken = `(\[[^\]]*\]\[[^\]]*\])`

var (
	// Window manager, top level.
	wmHeader                = regexp.MustCompile(`^WINDOW MANAGER WINDOWS\b.*$`)
	wmSection               = regexp.MustCompile(`^WINDOW MANAGER .*$`)
	wmWindow                = regexp.MustCompile(`^Window #(\d+) Window\{([0-9a-fA-F]+) u(\d+) (.+)\}:$`)
	wmStartingWindow        = regexp.MustCompile(`^Window #(\d+) Window\{([0-9a-fA-F]+) u(\d+) Starting (.+)\}:$`)
	wmExitingWindow         = regexp.MustCompile(`^Window #(\d+) Window\{([0-9a-fA-F]+) u(\d+) (.+) EXITING\}:$`)
	wmDebuggerWindow        = regexp.MustCompile(`^Window #(\d+) Window\{([0-9a-fA-F]+) u(\d+) Waiting For Debugger: (.+)\}:$`)
	wmFocusedWindow         = regexp.MustCompile(`^mCurrentFocus=Window\{([0-9a-fA-F]+) u(\d+) (\S+)\}$`)
	wmAppErrorFocus         = regexp.MustCompile(`^mCurrentFocus=Window\{([0-9a-fA-F]+) u(\d+) Application Error: (\S+)\}$`)
	wmDebuggerFocus         = regexp.MustCompile(`^mCurrentFocus=Window\{([0-9a-fA-F]+) u(\d+) Waiting For Debugger: (\S+)\}$`)
	wmFocusedApp            = regexp.MustCompile(`^mFocusedApp=AppWindowToken\{(.+) token=Token\{(.+) ActivityRecord\{(.+) u(\d+) (\S+) (\S+)$`)
	wmStableBounds          = regexp.MustCompile(`^mStable=\((-?\d+),(-?\d+)\)-\((-?\d+),(-?\d+)\)$`)
	wmDefaultPinnedBounds   = regexp.MustCompile(`^defaultBounds=` + rectToken + `$`)
	wmPinnedMovementBounds  = regexp.MustCompile(`^movementBounds=` + rectToken + `$`)
	wmRotation              = regexp.MustCompile(`^mRotation=(\d).*$`)
	wmLastOrientation       = regexp.MustCompile(`^.*mLastOrientation=(-?\d+)$`)
	wmLastTransition        = regexp.MustCompile(`^mLastUsedAppTransition=(.+)$`)
	wmAppTransitionState    = regexp.MustCompile(`^mAppTransitionState=(.+)$`)
	wmStackID               = regexp.MustCompile(`^mStackId=(\d+)$`)
	wmInputMethodWindow     = regexp.MustCompile(`^mInputMethodWindow=Window\{([0-9a-fA-F]+) u\d+ .+\}.*$`)
	wmDisplayID             = regexp.MustCompile(`^Display: mDisplayId=(\d+).*$`)
	wmDisplayFrozen         = regexp.MustCompile(`^mDisplayFrozen=([a-z]*) .*$`)
	wmDockedStackMinimized  = regexp.MustCompile(`^mMinimizedDock=([a-z]*)$`)
	wmDisplayFreezeDuration = regexp.MustCompile(`^mLastDisplayFreezeDuration=(\S+)(?: due to .+)?$`)

	// Window manager displays.
	wmDisplayInfo = regexp.MustCompile(`^(.+) (\S+dpi) cur=(\S+) app=(\S+) (.+)$`)

	// Window manager stacks and tasks.
	wmTaskID              = regexp.MustCompile(`^taskId=(\d+)$`)
	wmAnimationBackground = regexp.MustCompile(`^mWindowAnimationBackgroundSurface:.*$`)
	wmTempInsetBounds     = regexp.MustCompile(`^mTempInsetBounds=` + rectToken + `$`)
	wmAppToken            = regexp.MustCompile(`^Activity #(\d+) AppWindowToken\{(\S+) token=Token\{(\S+) ActivityRecord\{(\S+) u(\d+) (\S+) t(\d+)\}\}\}$`)
	wmFillsParent         = regexp.MustCompile(`^mFillsParent=(\S+)$`)
	wmBounds              = regexp.MustCompile(`^mBounds=` + rectToken + `$`)

	// Window manager window fields.
	wmWindowAssociation  = regexp.MustCompile(`^mDisplayId=(\d+) stackId=(-?\d+) (.+)$`)
	wmMainFrame          = regexp.MustCompile(`^mFrame=` + rectToken + `.+$`)
	wmFrames             = regexp.MustCompile(`^Frames: containing=` + rectToken + ` parent=` + rectToken + `$`)
	wmContentFrame       = regexp.MustCompile(`^content=` + rectToken + ` .+$`)
	wmSurfaceInsets      = regexp.MustCompile(`^Cur insets.+surface=` + rectToken + `.+$`)
	wmContentInsets      = regexp.MustCompile(`^Cur insets.+content=` + rectToken + `.+$`)
	wmGivenContentInsets = regexp.MustCompile(`^mGivenContentInsets=` + rectToken + `.+$`)
	wmCrop               = regexp.MustCompile(`^.+mLastClipRect=` + rectToken + `.*$`)
	wmSurface            = regexp.MustCompile(`^Surface: shown=(\S+) layer=(\d+) alpha=[\d.]+ rect=\([\d.-]+,[\d.-]+\) [\d.]+ x [\d.]+.*$`)
	wmAttrs              = regexp.MustCompile(`^mAttrs=WM\.LayoutParams\{.*ty=(\d+).*\}$`)
)

var (
	wmTopExits = []*regexp.Regexp{
		wmSection, wmDisplayID, wmStackID, wmWindow,
		wmFocusedWindow, wmAppErrorFocus, wmDebuggerFocus, wmFocusedApp,
		wmLastTransition, wmAppTransitionState, wmDefaultPinnedBounds, wmPinnedMovementBounds,
		wmDockedStackMinimized, wmInputMethodWindow, wmStableBounds, wmRotation,
		wmLastOrientation, wmDisplayFrozen, wmDisplayFreezeDuration,
	}
	wmTaskExits = append(append([]*regexp.Regexp(nil), wmTopExits...), wmTaskID, wmAnimationBackground)
)

var (
	// wm size / wm density output.
	physicalSize    = regexp.MustCompile(`^Physical size: (\S+)$`)
	overrideSize    = regexp.MustCompile(`^Override size: (\S+)$`)
	physicalDensity = regexp.MustCompile(`^Physical density: (\S+)$`)
	overrideDensity = regexp.MustCompile(`^Override density: (\S+)$`)
)

// Token shapes checked by the decoders.
var (
	rectPattern        = regexp.MustCompile(`^Rect\((-?\d+), (-?\d+) - (-?\d+), (-?\d+)\)$`)
	bracketRectPattern = regexp.MustCompile(`^\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]$`)
	sizePattern        = regexp.MustCompile(`^(\d+)x(\d+)$`)
	densityPattern     = regexp.MustCompile(`^(\d+)dpi$`)
	dpPattern          = regexp.MustCompile(`^(sw|w|h)(\d+)dp$`)
	durationPattern    = regexp.MustCompile(`^([+-])?(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?(?:(\d+)ms)?$`)
	configDpToken      = regexp.MustCompile(`^(sw|w|h)\S*dp$`)
	configDensityToken = regexp.MustCompile(`^\d\S*dpi$`)
)
