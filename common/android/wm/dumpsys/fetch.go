// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"chromiumos/wmharness/common/android/adb"
	"chromiumos/wmharness/common/android/wm"
	"chromiumos/wmharness/common/logging"
)

// Fetcher retrieves raw dumps over a device channel. It keeps no state
// between calls; every call runs the command anew.
type Fetcher struct {
	ch adb.Channel
}

// NewFetcher returns a Fetcher using ch.
func NewFetcher(ch adb.Channel) *Fetcher {
	return &Fetcher{ch: ch}
}

func (f *Fetcher) run(ctx context.Context, cmd string) (string, error) {
	out, err := f.ch.Exec(ctx, cmd)
	if err != nil {
		return "", err
	}
	logging.FromContext(ctx).Debug("Fetched dump", logging.Command(cmd), zap.Int("bytes", len(out)))
	return string(out), nil
}

// ActivityDump returns the raw activity manager dump.
func (f *Fetcher) ActivityDump(ctx context.Context) (string, error) {
	return f.run(ctx, ActivitiesCommand)
}

// WindowDump returns the raw window manager dump.
func (f *Fetcher) WindowDump(ctx context.Context) (string, error) {
	return f.run(ctx, WindowsCommand)
}

// DisplayMetricsDump returns the raw outputs of "wm size" and "wm density".
func (f *Fetcher) DisplayMetricsDump(ctx context.Context) (sizeOut, densityOut string, err error) {
	if sizeOut, err = f.run(ctx, WMSizeCommand); err != nil {
		return "", "", err
	}
	if densityOut, err = f.run(ctx, WMDensityCommand); err != nil {
		return "", "", err
	}
	return sizeOut, densityOut, nil
}

// Activities fetches and parses the activity manager dump.
func (f *Fetcher) Activities(ctx context.Context) (*wm.ActivitySnapshot, error) {
	raw, err := f.ActivityDump(ctx)
	if err != nil {
		return nil, err
	}
	s, err := ParseActivities(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse activity manager state")
	}
	return s, nil
}

// Windows fetches and parses the window manager dump.
func (f *Fetcher) Windows(ctx context.Context) (*wm.WindowSnapshot, error) {
	raw, err := f.WindowDump(ctx)
	if err != nil {
		return nil, err
	}
	s, err := ParseWindows(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse window manager state")
	}
	return s, nil
}

// DisplayMetrics fetches and parses the default display's size and density.
func (f *Fetcher) DisplayMetrics(ctx context.Context) (*wm.DisplayMetrics, error) {
	sizeOut, densityOut, err := f.DisplayMetricsDump(ctx)
	if err != nil {
		return nil, err
	}
	m, err := ParseDisplayMetrics(sizeOut, densityOut)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse display metrics")
	}
	return m, nil
}
