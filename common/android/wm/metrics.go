// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wm

// DisplayMetrics is the size and density of the default display as reported
// by "wm size" and "wm density".
type DisplayMetrics struct {
	PhysicalSize    Size  `json:"physical_size" yaml:"physical_size"`
	OverrideSize    *Size `json:"override_size,omitempty" yaml:"override_size,omitempty"`
	PhysicalDensity int   `json:"physical_density" yaml:"physical_density"`
	OverrideDensity *int  `json:"override_density,omitempty" yaml:"override_density,omitempty"`
}

// EffectiveSize returns the override size if set, else the physical size.
func (m *DisplayMetrics) EffectiveSize() Size {
	if m.OverrideSize != nil {
		return *m.OverrideSize
	}
	return m.PhysicalSize
}

// EffectiveDensity returns the override density if set, else the physical one.
func (m *DisplayMetrics) EffectiveDensity() int {
	if m.OverrideDensity != nil {
		return *m.OverrideDensity
	}
	return m.PhysicalDensity
}
