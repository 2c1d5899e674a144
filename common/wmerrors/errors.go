// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wmerrors

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Kind classifies harness errors.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindChannel
	KindMalformedDump
	KindTimeout
	KindAssertion
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindChannel:       "channel",
	KindMalformedDump: "malformed dump",
	KindTimeout:       "timeout",
	KindAssertion:     "assertion",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ChannelError is returned when the device control channel failed to run a
// command or the device is unreachable.
type ChannelError struct {
	// Command is the command line sent to the device.
	Command string
	// Output holds whatever the command printed before failing, if anything.
	Output []byte
	Err    error
}

func (e *ChannelError) Error() string {
	msg := fmt.Sprintf("channel: %q failed: %v", e.Command, e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ChannelError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *ChannelError) Cause() error { return e.Err }

// MalformedDumpError is returned when dump text does not follow the expected
// grammar. Line is 1-based; zero means the error is not tied to a single
// line (e.g. a mandatory section is missing).
type MalformedDumpError struct {
	// Dump names the dump being parsed, e.g. "activities".
	Dump string
	// Version is the grammar version the parser implements.
	Version string
	Line    int
	Text    string
	// Expected describes the pattern or token shape that did not match.
	Expected string
	Err      error
}

func (e *MalformedDumpError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed %s dump", e.Dump)
	if e.Version != "" {
		fmt.Fprintf(&b, " (grammar %s)", e.Version)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d %q", e.Line, e.Text)
	} else if e.Text != "" {
		fmt.Fprintf(&b, " at %q", e.Text)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, ": expected %s", e.Expected)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *MalformedDumpError) Unwrap() error { return e.Err }

// TimeoutError is returned when a condition did not hold within the polling
// budget. The caller still receives the last observed snapshot.
type TimeoutError struct {
	// Condition describes what was being waited for.
	Condition string
	Attempts  int
	Elapsed   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s after %d attempt(s) (%v)", e.Condition, e.Attempts, e.Elapsed.Round(time.Millisecond))
}

// AssertionFailure is returned when an explicit post-condition did not hold.
type AssertionFailure struct {
	Message  string
	Expected interface{}
	Actual   interface{}
}

func (e *AssertionFailure) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", e.Message, describe(e.Expected), describe(e.Actual))
}

func describe(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%+v", x)
	}
}

// Failf returns an AssertionFailure with a formatted message.
func Failf(expected, actual interface{}, format string, args ...interface{}) *AssertionFailure {
	return &AssertionFailure{Message: fmt.Sprintf(format, args...), Expected: expected, Actual: actual}
}

// KindOf reports the kind of the first taxonomy error found in err's chain.
func KindOf(err error) Kind {
	var ce *ChannelError
	var me *MalformedDumpError
	var te *TimeoutError
	var af *AssertionFailure
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ce):
		return KindChannel
	case errors.As(err, &me):
		return KindMalformedDump
	case errors.As(err, &te):
		return KindTimeout
	case errors.As(err, &af):
		return KindAssertion
	}
	return KindUnknown
}

// IsTimeout reports whether err is or wraps a TimeoutError.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}
