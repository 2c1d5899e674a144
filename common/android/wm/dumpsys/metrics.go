// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"chromiumos/wmharness/common/android/wm"
)

// ParseDisplayMetrics parses the outputs of "wm size" and "wm density".
// The physical size and density lines are mandatory; override lines are
// optional.
func ParseDisplayMetrics(sizeOut, densityOut string) (*wm.DisplayMetrics, error) {
	var dm wm.DisplayMetrics
	var foundSize, foundDensity bool

	q := newLineQueue(metricsDump, sizeOut)
	for !q.empty() {
		l := q.pop()
		if m := physicalSize.FindStringSubmatch(l.text); m != nil {
			s, err := DecodeSize(m[1])
			if err != nil {
				return nil, q.malformed(l, "physical size", err)
			}
			dm.PhysicalSize = s
			foundSize = true
			continue
		}
		if m := overrideSize.FindStringSubmatch(l.text); m != nil {
			s, err := DecodeSize(m[1])
			if err != nil {
				return nil, q.malformed(l, "override size", err)
			}
			dm.OverrideSize = &s
		}
	}
	if !foundSize {
		return nil, q.malformed(line{}, "Physical size: line", nil)
	}

	q = newLineQueue(metricsDump, densityOut)
	for !q.empty() {
		l := q.pop()
		if m := physicalDensity.FindStringSubmatch(l.text); m != nil {
			d, err := parseInt(m[1])
			if err != nil {
				return nil, q.malformed(l, "physical density", err)
			}
			dm.PhysicalDensity = d
			foundDensity = true
			continue
		}
		if m := overrideDensity.FindStringSubmatch(l.text); m != nil {
			d, err := parseInt(m[1])
			if err != nil {
				return nil, q.malformed(l, "override density", err)
			}
			dm.OverrideDensity = &d
		}
	}
	if !foundDensity {
		return nil, q.malformed(line{}, "Physical density: line", nil)
	}
	return &dm, nil
}
