// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package adb provides the device control channel: running commands on an
// Android device through the adb host tool.
package adb

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/poll"
	"chromiumos/wmharness/common/wmerrors"
)

// Channel runs a shell command line on the device and returns its stdout.
// Failures are reported as *wmerrors.ChannelError.
type Channel interface {
	Exec(ctx context.Context, cmd string) ([]byte, error)
}

// Device is a Channel backed by the adb host tool.
type Device struct {
	// ADBPath is the adb binary; "adb" resolves through $PATH.
	ADBPath string
	// Serial selects the device; empty means the only attached device.
	Serial string
	// Env is appended to the environment of every adb invocation.
	Env []string
}

var _ Channel = (*Device)(nil)

// NewDevice returns a Device for serial using the adb binary at path.
func NewDevice(path, serial string) *Device {
	if path == "" {
		path = "adb"
	}
	return &Device{ADBPath: path, Serial: serial}
}

// Command returns an adb command with the device selected.
func (d *Device) Command(ctx context.Context, arg ...string) *exec.Cmd {
	var args []string
	if d.Serial != "" {
		args = append(args, "-s", d.Serial)
	}
	cmd := exec.CommandContext(ctx, d.ADBPath, append(args, arg...)...)
	if len(d.Env) > 0 {
		cmd.Env = append(os.Environ(), d.Env...)
	}
	return cmd
}

// Exec runs the shell command line cmd on the device.
func (d *Device) Exec(ctx context.Context, cmd string) ([]byte, error) {
	c := d.Command(ctx, "exec-out", cmd)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Wrap(ctx.Err(), err.Error())
		}
		return out, &wmerrors.ChannelError{Command: cmd, Output: append(out, stderr.Bytes()...), Err: err}
	}
	return out, nil
}

var deviceState = regexp.MustCompile(`^device\s*$`)

// WaitForDevice polls until adb reports the device as online.
func (d *Device) WaitForDevice(ctx context.Context, p poll.Policy) error {
	return poll.Poll(ctx, p, "device to come online", func(ctx context.Context) error {
		out, err := d.Command(ctx, "get-state").Output()
		if err != nil {
			return errors.Wrap(err, "adb get-state failed")
		}
		if state := strings.TrimSpace(string(out)); !deviceState.MatchString(state) {
			return errors.Errorf("device is %q", state)
		}
		logging.ContextLogf(ctx, "Device %s is online", d.describe())
		return nil
	})
}

func (d *Device) describe() string {
	if d.Serial == "" {
		return "(default)"
	}
	return d.Serial
}
