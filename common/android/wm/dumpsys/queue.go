// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package dumpsys

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"chromiumos/wmharness/common/wmerrors"
)

// line is a trimmed dump line together with its 1-based position.
type line struct {
	num  int
	text string
}

// lineQueue hands out dump lines in order. Parsers peek at the head to
// decide whether a nested block has ended before consuming it.
type lineQueue struct {
	dump  string
	lines []line
	pos   int
}

func newLineQueue(dump, text string) *lineQueue {
	raw := strings.Split(text, "\n")
	q := &lineQueue{dump: dump, lines: make([]line, 0, len(raw))}
	for i, s := range raw {
		q.lines = append(q.lines, line{num: i + 1, text: strings.TrimSpace(s)})
	}
	return q
}

func (q *lineQueue) empty() bool {
	return q.pos >= len(q.lines)
}

func (q *lineQueue) peek() line {
	return q.lines[q.pos]
}

func (q *lineQueue) pop() line {
	l := q.lines[q.pos]
	q.pos++
	return l
}

// doneExtracting reports whether the current block has no more lines: the
// queue is drained or the next line opens a block owned by a caller.
func (q *lineQueue) doneExtracting(exits []*regexp.Regexp) bool {
	if q.empty() {
		return true
	}
	head := q.peek().text
	for _, re := range exits {
		if re.MatchString(head) {
			return true
		}
	}
	return false
}

// contains reports whether any line matches re.
func (q *lineQueue) contains(re *regexp.Regexp) bool {
	for _, l := range q.lines {
		if re.MatchString(l.text) {
			return true
		}
	}
	return false
}

// malformed builds the error reported for line l. err may be a decoder
// error, in which case its token and expectation are kept.
func (q *lineQueue) malformed(l line, expected string, err error) error {
	e := &wmerrors.MalformedDumpError{
		Dump:     q.dump,
		Version:  FormatVersion,
		Line:     l.num,
		Text:     l.text,
		Expected: expected,
		Err:      err,
	}
	var de *wmerrors.MalformedDumpError
	if errors.As(err, &de) {
		if de.Expected != "" {
			e.Expected = de.Expected
		}
		e.Err = de.Err
	}
	return e
}
