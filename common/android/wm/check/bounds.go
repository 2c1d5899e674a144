// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package check

import (
	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/wmerrors"
)

// Default minimal task sizes applied by the window manager to tasks that do
// not declare their own.
const (
	DefaultResizableTaskSizeDp = 220
	DefaultPinnedTaskSizeDp    = 108
)

// MinimalTaskSize returns the default minimal task size in pixels on a
// display of density dpi.
func MinimalTaskSize(stackID, dpi int) int {
	if stackID == wm.PinnedStackID {
		return wm.DpToPx(DefaultPinnedTaskSizeDp, dpi)
	}
	return wm.DpToPx(DefaultResizableTaskSizeDp, dpi)
}

// ValidBounds checks that stacks and tasks have the same fullscreen state
// and bounds in both managers. With compareTaskAndStackBounds set it also
// checks each task against its stack, taking minimal task sizes into
// account, and each stack against its display.
func ValidBounds(st *wm.State, compareTaskAndStackBounds bool) error {
	am, w := st.Activities, st.Windows

	homeResizable := false
	if t, ok := am.HomeTask(); ok {
		homeResizable = t.Resizeable()
	}

	for _, as := range am.Stacks {
		ws, ok := w.StackByID(as.ID)
		if !ok {
			return wmerrors.Failf(as.ID, nil, "stack %d is in activity manager but not in window manager", as.ID)
		}
		if as.Fullscreen != ws.Fullscreen {
			return wmerrors.Failf(as.Fullscreen, ws.Fullscreen, "stack fullscreen state in activity and window manager must be equal, stack %d", as.ID)
		}
		if as.Fullscreen {
			if as.Bounds != nil {
				return wmerrors.Failf(nil, *as.Bounds, "stack bounds in activity manager must be null, stack %d", as.ID)
			}
		} else if !rectsEqual(as.Bounds, ws.Bounds) {
			return wmerrors.Failf(rectValue(as.Bounds), rectValue(ws.Bounds), "stack bounds in activity and window manager must be equal, stack %d", as.ID)
		}

		display, ok := w.DisplayByID(as.DisplayID)
		if !ok {
			return wmerrors.Failf(as.DisplayID, nil, "stack %d is on display %d unknown to window manager", as.ID, as.DisplayID)
		}
		if compareTaskAndStackBounds && as.Bounds != nil && !display.DisplayRect.Empty() &&
			!display.DisplayRect.Contains(*as.Bounds) {
			return wmerrors.Failf(display.DisplayRect, *as.Bounds, "stack %d must lie within display %d", as.ID, display.ID)
		}

		for _, at := range as.Tasks {
			wt, ok := ws.TaskByID(at.ID)
			if !ok {
				return wmerrors.Failf(at.ID, nil, "task %d is in activity manager but not in window manager, stack %d", at.ID, as.ID)
			}
			if err := taskBounds(as, ws, at, wt, display, homeResizable, w.DockedStackMinimized, compareTaskAndStackBounds); err != nil {
				return err
			}
		}
	}
	return nil
}

func taskBounds(as wm.Stack, ws wm.WindowStack, at wm.Task, wt wm.WindowTask, display wm.WindowDisplay,
	homeResizable, dockMinimized, compareTaskAndStackBounds bool) error {
	if at.Fullscreen != wt.Fullscreen {
		return wmerrors.Failf(at.Fullscreen, wt.Fullscreen, "task fullscreen state in activity and window manager must be equal, task %d, stack %d", at.ID, as.ID)
	}
	if at.Fullscreen {
		if at.Bounds != nil {
			return wmerrors.Failf(nil, *at.Bounds, "task bounds in activity manager must be null for fullscreen task %d", at.ID)
		}
		return nil
	}
	if at.Bounds == nil || wt.Bounds == nil {
		if at.Bounds != wt.Bounds {
			return wmerrors.Failf(rectValue(at.Bounds), rectValue(wt.Bounds), "task bounds in activity and window manager must be equal, task %d, stack %d", at.ID, as.ID)
		}
		return nil
	}
	aBounds, wBounds := *at.Bounds, *wt.Bounds
	landscape := display.DisplayRect.Width > display.DisplayRect.Height

	if !homeResizable && dockMinimized && landscape {
		// A minimized dock with a fixed-size launcher in landscape moves the
		// task offscreen to the left, so only size and y are comparable.
		if aBounds.Width != wBounds.Width || aBounds.Height != wBounds.Height || aBounds.Top != wBounds.Top {
			return wmerrors.Failf(aBounds, wBounds, "task bounds in activity and window manager must match in size and y, task %d, stack %d", at.ID, as.ID)
		}
		if as.Bounds != nil {
			sb := *as.Bounds
			if sb.Width != wBounds.Width || sb.Height != wBounds.Height || sb.Top != wBounds.Top {
				return wmerrors.Failf(sb, wBounds, "task and stack bounds must match in size and y, task %d, stack %d", at.ID, as.ID)
			}
		}
		return nil
	}

	if aBounds != wBounds {
		return wmerrors.Failf(aBounds, wBounds, "task bounds in activity and window manager must be equal, task %d, stack %d", at.ID, as.ID)
	}
	if !compareTaskAndStackBounds || as.ID == wm.FreeformStackID || as.Bounds == nil {
		return nil
	}

	sb := *as.Bounds
	minWidth, minHeight := at.MinWidth, at.MinHeight
	if minWidth == -1 {
		minWidth = MinimalTaskSize(as.ID, display.Density)
	}
	if minHeight == -1 {
		minHeight = MinimalTaskSize(as.ID, display.Density)
	}

	switch {
	case sb.Width >= minWidth && sb.Height >= minHeight || as.ID == wm.PinnedStackID:
		if sb != wBounds {
			return wmerrors.Failf(sb, wBounds, "task bounds must be equal to stack bounds, task %d, stack %d", at.ID, as.ID)
		}
	case as.ID == wm.DockedStackID && homeResizable && dockMinimized:
		var wsb wm.Rect
		if ws.Bounds != nil {
			wsb = *ws.Bounds
		}
		if !landscape {
			if sb.Width != wBounds.Width {
				return wmerrors.Failf(sb.Width, wBounds.Width, "task width must be equal to stack width, task %d, stack %d", at.ID, as.ID)
			}
			if sb.Height >= wBounds.Height {
				return wmerrors.Failf(sb.Height, wBounds.Height, "task height must be greater than stack height, task %d, stack %d", at.ID, as.ID)
			}
			if wBounds.Left != wsb.Left {
				return wmerrors.Failf(wsb.Left, wBounds.Left, "task and stack x position must be equal, task %d, stack %d", at.ID, as.ID)
			}
		} else {
			if sb.Width >= wBounds.Width {
				return wmerrors.Failf(sb.Width, wBounds.Width, "task width must be greater than stack width, task %d, stack %d", at.ID, as.ID)
			}
			if sb.Height != wBounds.Height {
				return wmerrors.Failf(sb.Height, wBounds.Height, "task height must be equal to stack height, task %d, stack %d", at.ID, as.ID)
			}
			if wBounds.Top != wsb.Top {
				return wmerrors.Failf(wsb.Top, wBounds.Top, "task and stack y position must be equal, task %d, stack %d", at.ID, as.ID)
			}
		}
	default:
		if want := max(minWidth, sb.Width); wBounds.Width != want {
			return wmerrors.Failf(want, wBounds.Width, "task width must be set according to minimal width, task %d, stack %d", at.ID, as.ID)
		}
		if want := max(minHeight, sb.Height); wBounds.Height != want {
			return wmerrors.Failf(want, wBounds.Height, "task height must be set according to minimal height, task %d, stack %d", at.ID, as.ID)
		}
	}
	return nil
}

// DockedTaskBounds checks that the task of component, docked to the top
// left, has the requested size raised to the minimal task size.
func DockedTaskBounds(st *wm.State, width, height int, component string) error {
	docked, ok := st.Activities.StackByID(wm.DockedStackID)
	if !ok {
		return wmerrors.Failf(wm.DockedStackID, nil, "docked stack does not exist")
	}
	display, ok := st.Windows.DisplayByID(docked.DisplayID)
	if !ok {
		return wmerrors.Failf(docked.DisplayID, nil, "display %d of docked stack is unknown to window manager", docked.DisplayID)
	}
	task, ok := st.Activities.TaskByActivityName(component, wm.InvalidStackID)
	if !ok {
		return wmerrors.Failf(component, nil, "no task contains activity %s", component)
	}
	minSize := MinimalTaskSize(wm.DockedStackID, display.Density)
	want := wm.Rect{Width: max(width, minSize), Height: max(height, minSize)}
	if task.Bounds == nil || *task.Bounds != want {
		return wmerrors.Failf(want, rectValue(task.Bounds), "docked task bounds of %s", component)
	}
	return nil
}
