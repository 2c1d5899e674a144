// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package adb

import (
	"context"
	"syscall"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"

	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/poll"
)

// KillLocalServer kills orphaned adb server processes on the host.
//
// adb kill-server is unreliable when the server is wedged, and killall can
// wait for orphan adb processes indefinitely.
func KillLocalServer(ctx context.Context, p poll.Policy) error {
	ps, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list processes")
	}

	for _, proc := range ps {
		if name, err := proc.NameWithContext(ctx); err != nil || name != "adb" {
			continue
		}
		if ppid, err := proc.PpidWithContext(ctx); err != nil || ppid != 1 {
			continue
		}

		if err := proc.SendSignalWithContext(ctx, syscall.SIGKILL); err != nil {
			// The server process might be already gone.
			logging.ContextLog(ctx, "Failed to kill adb server process: ", err)
			continue
		}

		pid := proc.Pid
		if err := poll.Poll(ctx, p, "adb server to exit", func(ctx context.Context) error {
			if running, err := process.PidExistsWithContext(ctx, pid); err == nil && running {
				return errors.Errorf("pid %d is still running", pid)
			}
			return nil
		}); err != nil {
			return errors.Wrap(err, "failed on waiting for adb server process to exit")
		}
		logging.ContextLogf(ctx, "Killed adb server process %d", pid)
	}
	return nil
}
