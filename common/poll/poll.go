// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package poll implements the condition waiter used to re-sample device state
// until it satisfies a predicate.
//
// Every attempt fetches and parses a fresh snapshot; nothing observed in an
// earlier attempt is reused.
package poll

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"chromiumos/wmharness/common/logging"
	"chromiumos/wmharness/common/wmerrors"
)

// Defaults used when a Policy field is left zero.
const (
	DefaultMaxAttempts = 5
	DefaultInterval    = time.Second
)

// Policy controls how long a wait keeps re-sampling.
type Policy struct {
	// MaxAttempts is the number of fetch/parse/evaluate cycles.
	MaxAttempts int
	// Interval is the sleep between two attempts.
	Interval time.Duration
	// Timeout, if positive, additionally bounds the total wait: no attempt
	// is started once the next one would begin after Timeout.
	Timeout time.Duration
}

// DefaultPolicy returns 5 attempts one second apart.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Interval: DefaultInterval}
}

// WithAttempts returns a copy of p using n attempts.
func (p Policy) WithAttempts(n int) Policy {
	p.MaxAttempts = n
	return p
}

// WithInterval returns a copy of p sleeping d between attempts.
func (p Policy) WithInterval(d time.Duration) Policy {
	p.Interval = d
	return p
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Interval < 0 {
		p.Interval = 0
	}
	return p
}

// FetchFunc retrieves raw dump text from the device.
type FetchFunc func(ctx context.Context) (string, error)

// ParseFunc turns raw dump text into a snapshot.
type ParseFunc[S any] func(raw string) (S, error)

// WaitFor repeatedly fetches, parses and evaluates pred until it holds or the
// policy is exhausted. It performs exactly k fetches when pred first holds on
// attempt k, and exactly p.MaxAttempts when it never holds. On exhaustion it
// returns the last snapshot together with a *wmerrors.TimeoutError.
//
// Fetch and parse errors are returned immediately with the zero snapshot.
func WaitFor[S any](ctx context.Context, p Policy, desc string, fetch FetchFunc, parse ParseFunc[S], pred func(S) bool) (S, error) {
	return waitFor(ctx, p, desc, func(ctx context.Context) (S, error) {
		var zero S
		raw, err := fetch(ctx)
		if err != nil {
			return zero, err
		}
		s, err := parse(raw)
		if err != nil {
			return zero, err
		}
		return s, nil
	}, pred)
}

// WaitForSnapshot is like WaitFor for callers whose snapshot is produced by a
// single function, e.g. one that fetches and parses two dumps in sequence.
func WaitForSnapshot[S any](ctx context.Context, p Policy, desc string, get func(ctx context.Context) (S, error), pred func(S) bool) (S, error) {
	return waitFor(ctx, p, desc, get, pred)
}

// WaitForOrNil is WaitFor for optional conditions: a timeout is not an error.
// ok reports whether pred held. The last snapshot is returned either way.
func WaitForOrNil[S any](ctx context.Context, p Policy, desc string, fetch FetchFunc, parse ParseFunc[S], pred func(S) bool) (s S, ok bool, err error) {
	s, err = WaitFor(ctx, p, desc, fetch, parse, pred)
	return tolerateTimeout(ctx, s, err)
}

// WaitForSnapshotOrNil is the WaitForSnapshot counterpart of WaitForOrNil.
func WaitForSnapshotOrNil[S any](ctx context.Context, p Policy, desc string, get func(ctx context.Context) (S, error), pred func(S) bool) (s S, ok bool, err error) {
	s, err = waitFor(ctx, p, desc, get, pred)
	return tolerateTimeout(ctx, s, err)
}

// WaitForOrFail is WaitFor for mandatory conditions. The timeout is returned
// wrapped with desc so the failure reads as a test failure.
func WaitForOrFail[S any](ctx context.Context, p Policy, desc string, fetch FetchFunc, parse ParseFunc[S], pred func(S) bool) (S, error) {
	s, err := WaitFor(ctx, p, desc, fetch, parse, pred)
	if err != nil {
		return s, errors.Wrapf(err, "failed waiting for %s", desc)
	}
	return s, nil
}

func tolerateTimeout[S any](ctx context.Context, s S, err error) (S, bool, error) {
	if err == nil {
		return s, true, nil
	}
	var te *wmerrors.TimeoutError
	if errors.As(err, &te) {
		logging.ContextLogf(ctx, "Proceeding without %s: %v", te.Condition, te)
		return s, false, nil
	}
	return s, false, err
}

func waitFor[S any](ctx context.Context, p Policy, desc string, get func(ctx context.Context) (S, error), pred func(S) bool) (S, error) {
	p = p.normalized()
	log := logging.FromContext(ctx)
	start := time.Now()

	var last S
	for attempt := 1; ; attempt++ {
		s, err := get(ctx)
		if err != nil {
			var zero S
			return zero, err
		}
		last = s
		if pred(s) {
			return s, nil
		}
		log.Debug("Condition not met", zap.String("condition", desc), logging.Attempt(attempt, p.MaxAttempts))

		elapsed := time.Since(start)
		if attempt >= p.MaxAttempts || (p.Timeout > 0 && elapsed+p.Interval > p.Timeout) {
			return last, &wmerrors.TimeoutError{Condition: desc, Attempts: attempt, Elapsed: elapsed}
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return last, errors.Wrapf(err, "interrupted waiting for %s", desc)
		}
	}
}

// Poll is the plain-condition variant used for device plumbing: f is retried
// while it returns an error. The last error is wrapped in the timeout.
func Poll(ctx context.Context, p Policy, desc string, f func(ctx context.Context) error) error {
	var lastErr error
	_, err := waitFor(ctx, p, desc, func(ctx context.Context) (struct{}, error) {
		lastErr = f(ctx)
		return struct{}{}, nil
	}, func(struct{}) bool { return lastErr == nil })
	if err != nil && lastErr != nil {
		return errors.Wrapf(err, "last error: %v", lastErr)
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
