// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package wmerrors

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestKindOf(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"channel", &ChannelError{Command: "dumpsys", Err: errors.New("exit status 1")}, KindChannel},
		{"wrapped-dump", errors.Wrap(&MalformedDumpError{Dump: "windows"}, "parse"), KindMalformedDump},
		{"timeout", errors.Wrap(&TimeoutError{Condition: "x", Attempts: 5}, "wait"), KindTimeout},
		{"assertion", Failf(1, 2, "focused stack"), KindAssertion},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf(%v) = %v; want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want []string
	}{
		{&MalformedDumpError{Dump: "activities", Version: "v1", Line: 12, Text: "Rect(a,b-c,d)", Expected: "Rect(l, t - r, b)"},
			[]string{"activities", "line 12", `"Rect(a,b-c,d)"`, "Rect(l, t - r, b)"}},
		{&MalformedDumpError{Dump: "display metrics", Expected: "Physical size"},
			[]string{"display metrics", "expected Physical size"}},
		{&TimeoutError{Condition: "home visible", Attempts: 5, Elapsed: 4 * time.Second},
			[]string{"home visible", "5 attempt"}},
		{&ChannelError{Command: "dumpsys window -a", Output: []byte("error: no devices\n"), Err: errors.New("exit status 1")},
			[]string{"dumpsys window -a", "no devices", "exit status 1"}},
		{Failf(true, false, "activity %s is not visible", "a/.B"),
			[]string{"a/.B is not visible", "expected true, got false"}},
	} {
		msg := tc.err.Error()
		for _, w := range tc.want {
			if !strings.Contains(msg, w) {
				t.Errorf("%T.Error() returned %q; should contain %q", tc.err, msg, w)
			}
		}
	}
}

func TestChannelErrorCause(t *testing.T) {
	cause := errors.New("signal: killed")
	err := errors.Wrap(&ChannelError{Command: "wm size", Err: cause}, "fetch")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(%v, %v) = false; want true", err, cause)
	}
}
