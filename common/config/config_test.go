// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/poll"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch against Default() (-want +got):\n%s", diff)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WMHARNESS_ADB_SERIAL", "emulator-5554")
	t.Setenv("WMHARNESS_POLL_ATTEMPTS", "8")
	t.Setenv("WMHARNESS_POLL_INTERVAL", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "emulator-5554", cfg.ADBSerial)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, poll.Policy{MaxAttempts: 8, Interval: 250 * time.Millisecond}, cfg.Policy())
	assert.Equal(t, logging.Config{Level: "debug", Serial: "emulator-5554"}, cfg.Logging())
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("WMHARNESS_POLL_ATTEMPTS", "0")
	_, err := Load()
	assert.Error(t, err)
}
