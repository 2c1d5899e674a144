// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package adb

import (
	"regexp"
	"strings"
)

var safeShellWord = regexp.MustCompile(`^[A-Za-z0-9@%_+=:,./-]+$`)

// Escape quotes s for /bin/sh.
func Escape(s string) string {
	if safeShellWord.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// EscapeSlice quotes every element of args and joins them with spaces.
func EscapeSlice(args []string) string {
	words := make([]string, len(args))
	for i, a := range args {
		words[i] = Escape(a)
	}
	return strings.Join(words, " ")
}
