// Copyright 2022 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type loggerKey struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger attached to ctx, or a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok && l != nil {
		return l
	}
	return NewNop()
}

// ContextLog formats its arguments using default formatting and logs them at
// info level via the logger attached to ctx.
func ContextLog(ctx context.Context, args ...interface{}) {
	FromContext(ctx).WithOptions(zap.AddCallerSkip(1)).Info(fmt.Sprint(args...))
}

// ContextLogf is like ContextLog but formats its arguments using fmt.Sprintf.
func ContextLogf(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).WithOptions(zap.AddCallerSkip(1)).Info(fmt.Sprintf(format, args...))
}
