// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wmstate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/poll"
	"chromiumos/wmharness/common/wmerrors"
)

// WaitFor re-samples both managers until pred holds. On timeout the last
// state is returned with an error wrapping a *wmerrors.TimeoutError.
func (h *Harness) WaitFor(ctx context.Context, desc string, pred func(*wm.State) bool) (*wm.State, error) {
	st, err := poll.WaitForSnapshot(ctx, h.policy, desc, h.Snapshot, pred)
	if err != nil {
		return st, errors.Wrapf(err, "failed waiting for %s", desc)
	}
	return st, nil
}

// TryWaitFor is WaitFor for conditions that may legitimately never hold,
// e.g. on devices lacking a feature. ok reports whether pred held.
func (h *Harness) TryWaitFor(ctx context.Context, desc string, pred func(*wm.State) bool) (st *wm.State, ok bool, err error) {
	return poll.WaitForSnapshotOrNil(ctx, h.policy, desc, h.Snapshot, pred)
}

// WaitForWithActivities waits until pred holds on the activity manager state.
func (h *Harness) WaitForWithActivities(ctx context.Context, desc string, pred func(*wm.ActivitySnapshot) bool) (*wm.State, error) {
	return h.WaitFor(ctx, desc, func(st *wm.State) bool { return pred(st.Activities) })
}

// WaitForWithWindows waits until pred holds on the window manager state.
func (h *Harness) WaitForWithWindows(ctx context.Context, desc string, pred func(*wm.WindowSnapshot) bool) (*wm.State, error) {
	return h.WaitFor(ctx, desc, func(st *wm.State) bool { return pred(st.Windows) })
}

// TryWaitForWithActivities is the TryWaitFor counterpart of
// WaitForWithActivities.
func (h *Harness) TryWaitForWithActivities(ctx context.Context, desc string, pred func(*wm.ActivitySnapshot) bool) (*wm.State, bool, error) {
	return h.TryWaitFor(ctx, desc, func(st *wm.State) bool { return pred(st.Activities) })
}

// TryWaitForWithWindows is the TryWaitFor counterpart of WaitForWithWindows.
func (h *Harness) TryWaitForWithWindows(ctx context.Context, desc string, pred func(*wm.WindowSnapshot) bool) (*wm.State, bool, error) {
	return h.TryWaitFor(ctx, desc, func(st *wm.State) bool { return pred(st.Windows) })
}

// WaitForAllStoppedActivities waits until no activity is started. Only the
// activity manager is sampled. Activities still running once the attempts
// are used up are reported as an assertion failure.
func (h *Harness) WaitForAllStoppedActivities(ctx context.Context) (*wm.ActivitySnapshot, error) {
	p := h.policy.WithInterval(h.stoppedInterval)
	as, ok, err := poll.WaitForSnapshotOrNil(ctx, p, "all activities stopped", h.fetcher.Activities,
		func(as *wm.ActivitySnapshot) bool { return !as.ContainsStartedActivities() })
	if err != nil {
		return nil, err
	}
	if !ok {
		return as, wmerrors.Failf("no started activities", startedActivities(as), "activities are still started")
	}
	return as, nil
}

func startedActivities(as *wm.ActivitySnapshot) []string {
	var names []string
	for _, a := range as.Activities() {
		if a.State != wm.StateStopped && a.State != wm.StateDestroyed {
			names = append(names, fmt.Sprintf("%s:%s", a.Name, a.State))
		}
	}
	return names
}

// WaitForHomeActivityVisible waits for a valid state with the launcher
// visible.
func (h *Harness) WaitForHomeActivityVisible(ctx context.Context) (*wm.State, error) {
	return h.waitForValidState(ctx, false, func(st *wm.State) []WaitForActivity {
		name, ok := st.Activities.HomeActivityName()
		if !ok {
			return nil
		}
		return []WaitForActivity{Activity(name)}
	})
}

// WaitForRecentsActivityVisible reports whether recents became visible.
// Devices without recents report false without an error.
func (h *Harness) WaitForRecentsActivityVisible(ctx context.Context) (bool, error) {
	_, ok, err := h.TryWaitForWithActivities(ctx, "recents activity to be visible", (*wm.ActivitySnapshot).IsRecentsActivityVisible)
	return ok, err
}

// WaitForKeyguardShowingAndNotOccluded waits for the lock screen.
func (h *Harness) WaitForKeyguardShowingAndNotOccluded(ctx context.Context) (*wm.State, error) {
	return h.WaitForWithActivities(ctx, "keyguard showing", func(as *wm.ActivitySnapshot) bool {
		return as.Keyguard.Showing && !as.Keyguard.Occluded
	})
}

// WaitForKeyguardShowingAndOccluded waits for an activity shown over the
// lock screen.
func (h *Harness) WaitForKeyguardShowingAndOccluded(ctx context.Context) (*wm.State, error) {
	return h.WaitForWithActivities(ctx, "keyguard showing and occluded", func(as *wm.ActivitySnapshot) bool {
		return as.Keyguard.Showing && as.Keyguard.Occluded
	})
}

// WaitForKeyguardGone waits for the lock screen to go away.
func (h *Harness) WaitForKeyguardGone(ctx context.Context) (*wm.State, error) {
	return h.WaitForWithActivities(ctx, "keyguard gone", func(as *wm.ActivitySnapshot) bool {
		return !as.Keyguard.Showing
	})
}

// WaitForRotation waits until the display rotation is rotation.
func (h *Harness) WaitForRotation(ctx context.Context, rotation int) (*wm.State, error) {
	return h.WaitForWithWindows(ctx, fmt.Sprintf("rotation %d", rotation), func(ws *wm.WindowSnapshot) bool {
		return ws.Rotation == rotation
	})
}

// WaitForDisplayUnfrozen waits until the display is no longer frozen.
func (h *Harness) WaitForDisplayUnfrozen(ctx context.Context) (*wm.State, error) {
	return h.WaitForWithWindows(ctx, "display unfrozen", func(ws *wm.WindowSnapshot) bool {
		return !ws.DisplayFrozen
	})
}

// WaitForActivityState waits until component is in one of states.
func (h *Harness) WaitForActivityState(ctx context.Context, component string, states ...wm.ActivityState) (*wm.State, error) {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	desc := fmt.Sprintf("activity %s in state %s", component, strings.Join(names, "|"))
	return h.WaitForWithActivities(ctx, desc, func(as *wm.ActivitySnapshot) bool {
		return as.HasActivityState(component, states...)
	})
}

// WaitForFocusedStack waits until stackID has focus.
func (h *Harness) WaitForFocusedStack(ctx context.Context, stackID int) (*wm.State, error) {
	return h.WaitForWithActivities(ctx, fmt.Sprintf("focused stack %d", stackID), func(as *wm.ActivitySnapshot) bool {
		return as.FocusedStackID() == stackID
	})
}

// WaitForAppTransitionIdle waits until no app transition is running.
func (h *Harness) WaitForAppTransitionIdle(ctx context.Context) (*wm.State, error) {
	return h.WaitForWithWindows(ctx, "app transition idle", func(ws *wm.WindowSnapshot) bool {
		return ws.AppTransitionState == wm.AppStateIdle
	})
}

// WaitForDebuggerWindowVisible waits for a visible "Waiting For Debugger"
// window whose name starts with pkg, and for the activity records to be
// visible. It is used for launches with the debugger flag, where the real
// activity window does not show up.
func (h *Harness) WaitForDebuggerWindowVisible(ctx context.Context, pkg string, records ...string) (*wm.State, error) {
	return h.WaitFor(ctx, "debugger window", func(st *wm.State) bool {
		if !hasDebuggerWindow(st.Windows, pkg) {
			logging.ContextLog(ctx, "Debugger window not available yet")
			return false
		}
		for _, r := range records {
			if !st.Activities.IsActivityVisible(r) {
				logging.ContextLogf(ctx, "Activity record %s not visible yet", r)
				return false
			}
		}
		return true
	})
}

func hasDebuggerWindow(ws *wm.WindowSnapshot, pkg string) bool {
	for _, w := range ws.PrefixMatchingVisibleWindows(pkg) {
		if w.Kind == wm.WindowDebugger {
			return true
		}
	}
	return false
}
