// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package adbtest provides a scripted adb.Channel for tests.
package adbtest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/wmerrors"
)

// Channel replays canned outputs per command line. When a command has several
// outputs queued they are returned in order and the last one repeats.
type Channel struct {
	mu      sync.Mutex
	outputs map[string][]string
	errs    map[string]error
	calls   map[string]int
	log     []string
}

// New returns an empty Channel.
func New() *Channel {
	return &Channel{
		outputs: make(map[string][]string),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

// Add queues outputs for cmd.
func (c *Channel) Add(cmd string, outputs ...string) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs[cmd] = append(c.outputs[cmd], outputs...)
	return c
}

// Fail makes cmd fail with err.
func (c *Channel) Fail(cmd string, err error) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[cmd] = err
	return c
}

// Exec implements adb.Channel.
func (c *Channel) Exec(ctx context.Context, cmd string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.calls[cmd]
	c.calls[cmd] = n + 1
	c.log = append(c.log, cmd)

	if err, ok := c.errs[cmd]; ok {
		return nil, &wmerrors.ChannelError{Command: cmd, Err: err}
	}
	outs, ok := c.outputs[cmd]
	if !ok || len(outs) == 0 {
		return nil, &wmerrors.ChannelError{Command: cmd, Err: errors.New("unexpected command")}
	}
	if n >= len(outs) {
		n = len(outs) - 1
	}
	return []byte(outs[n]), nil
}

// Calls returns how many times cmd was executed.
func (c *Channel) Calls(cmd string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[cmd]
}

// Log returns every executed command line in order.
func (c *Channel) Log() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}
