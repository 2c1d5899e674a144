// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/android/adb/adbtest"
	"chromiumos/wmharness/common/wmerrors"
)

func TestFetcher(t *testing.T) {
	ch := adbtest.New().
		Add(ActivitiesCommand, readTestData(t, "activities.txt")).
		Add(WindowsCommand, readTestData(t, "windows.txt")).
		Add(WMSizeCommand, "Physical size: 1080x1920\n").
		Add(WMDensityCommand, "Physical density: 420\n")
	f := NewFetcher(ch)
	ctx := context.Background()

	as, err := f.Activities(ctx)
	if err != nil {
		t.Fatal("Activities failed: ", err)
	}
	if as.FocusedStackID() != 1 {
		t.Errorf("FocusedStackID() = %d; want 1", as.FocusedStackID())
	}
	ws, err := f.Windows(ctx)
	if err != nil {
		t.Fatal("Windows failed: ", err)
	}
	if ws.FocusedApp != "com.example/.Main" {
		t.Errorf("FocusedApp = %q", ws.FocusedApp)
	}
	dm, err := f.DisplayMetrics(ctx)
	if err != nil {
		t.Fatal("DisplayMetrics failed: ", err)
	}
	if dm.PhysicalDensity != 420 {
		t.Errorf("PhysicalDensity = %d; want 420", dm.PhysicalDensity)
	}

	// Every call goes to the device.
	if _, err := f.Activities(ctx); err != nil {
		t.Fatal("Activities failed: ", err)
	}
	if n := ch.Calls(ActivitiesCommand); n != 2 {
		t.Errorf("%q ran %d times; want 2", ActivitiesCommand, n)
	}
}

func TestFetcherErrors(t *testing.T) {
	ch := adbtest.New().
		Fail(ActivitiesCommand, errors.New("device offline")).
		Add(WindowsCommand, "no header here\n")
	f := NewFetcher(ch)
	ctx := context.Background()

	_, err := f.Activities(ctx)
	if k := wmerrors.KindOf(err); k != wmerrors.KindChannel {
		t.Errorf("Activities error kind = %v (%v); want %v", k, err, wmerrors.KindChannel)
	}
	_, err = f.Windows(ctx)
	if k := wmerrors.KindOf(err); k != wmerrors.KindMalformedDump {
		t.Errorf("Windows error kind = %v (%v); want %v", k, err, wmerrors.KindMalformedDump)
	}
	_, err = f.DisplayMetrics(ctx)
	if k := wmerrors.KindOf(err); k != wmerrors.KindChannel {
		t.Errorf("DisplayMetrics error kind = %v (%v); want %v for an unscripted command", k, err, wmerrors.KindChannel)
	}
}
