// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package wmerrors defines the errors reported by the window manager state
// harness. Every failure surfaced to a test belongs to exactly one Kind:
// a device channel failure, a malformed dump, an exhausted wait, or a failed
// assertion.
package wmerrors
