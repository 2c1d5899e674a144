// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command wmstate inspects and waits on the window and activity manager
// state of an Android device.
package main

import (
	"context"
	"os"
	"os/signal"

	"chromiumos/wmharness/common/wmerrors"
)

// Exit codes by error kind.
const (
	exitOK        = 0
	exitError     = 1
	exitAssertion = 2
	exitTimeout   = 3
	exitChannel   = 4
	exitMalformed = 5
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch wmerrors.KindOf(err) {
	case wmerrors.KindAssertion:
		return exitAssertion
	case wmerrors.KindTimeout:
		return exitTimeout
	case wmerrors.KindChannel:
		return exitChannel
	case wmerrors.KindMalformedDump:
		return exitMalformed
	}
	return exitError
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(openDevice).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}
