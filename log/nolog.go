// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package log

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/luxfi/log"
	"go.uber.org/zap"

	"github.com/luxfi/ir/irutil"
)

// NoLog is the default logger a Replica or Client falls back to when
// constructed with a nil log.Logger. It discards Log/With/Trace/Crit
// traffic outright, but the level-tagged methods an IR node actually
// calls during view changes and recovery (Debug/Info/Warn/Error) retain
// their most recent rendering so tests can assert a handler logged
// without wiring a real sink. Values are rendered with
// irutil.MaybeString so a message type that doesn't implement
// fmt.Stringer still logs as something readable instead of a raw %v
// dump or, for a nil interface, a panic.
type NoLog struct {
	mu   sync.Mutex
	last string
}

// NewNoOpLogger returns a new no-op logger.
func NewNoOpLogger() log.Logger {
	return &NoLog{}
}

// Geth-style methods

// With adds context fields (variadic key-value pairs)
func (n *NoLog) With(ctx ...interface{}) log.Logger {
	return n
}

// New is an alias for With
func (n *NoLog) New(ctx ...interface{}) log.Logger {
	return n
}

// Log logs at the specified level
func (*NoLog) Log(level slog.Level, msg string, ctx ...interface{}) {}

// Trace logs at trace level
func (*NoLog) Trace(msg string, ctx ...interface{}) {}

// Debug logs at debug level, retaining the rendered line for Last.
func (n *NoLog) Debug(msg string, ctx ...interface{}) { n.record(msg, ctx) }

// Info logs at info level, retaining the rendered line for Last.
func (n *NoLog) Info(msg string, ctx ...interface{}) { n.record(msg, ctx) }

// Warn logs at warn level, retaining the rendered line for Last.
func (n *NoLog) Warn(msg string, ctx ...interface{}) { n.record(msg, ctx) }

// Error logs at error level, retaining the rendered line for Last.
func (n *NoLog) Error(msg string, ctx ...interface{}) { n.record(msg, ctx) }

// Crit logs at critical level
func (*NoLog) Crit(msg string, ctx ...interface{}) {}

// record renders msg and its key/value pairs with irutil.MaybeString and
// keeps the result as the most recently observed log line.
func (n *NoLog) record(msg string, ctx []interface{}) {
	var b strings.Builder
	b.WriteString(msg)
	for _, v := range ctx {
		b.WriteByte(' ')
		b.WriteString(irutil.MaybeString(v))
	}
	n.mu.Lock()
	n.last = b.String()
	n.mu.Unlock()
}

// Last returns the most recently rendered Debug/Info/Warn/Error line, or
// "" if none has been logged yet. Intended for tests that need to assert
// a handler logged a particular event without standing up a real sink.
func (n *NoLog) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// WriteLog logs a message at the specified level
func (*NoLog) WriteLog(level slog.Level, msg string, attrs ...any) {}

// Enabled checks if a level is enabled
func (*NoLog) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

// Handler returns the slog handler
func (*NoLog) Handler() slog.Handler {
	return nil
}

// Node compatibility methods

// Fatal logs at fatal level
func (*NoLog) Fatal(msg string, fields ...zap.Field) {}

// Verbo logs at verbose level
func (*NoLog) Verbo(msg string, fields ...zap.Field) {}

// WithFields adds structured context
func (n *NoLog) WithFields(fields ...zap.Field) log.Logger {
	return n
}

// WithOptions adds options
func (n *NoLog) WithOptions(opts ...zap.Option) log.Logger {
	return n
}

// Additional methods

// SetLevel sets the logging level
func (*NoLog) SetLevel(level slog.Level) {}

// GetLevel returns the current logging level
func (*NoLog) GetLevel() slog.Level {
	return slog.Level(0)
}

// EnabledLevel checks if a level is enabled
func (*NoLog) EnabledLevel(lvl slog.Level) bool {
	return false
}

// StopOnPanic stops on panic
func (*NoLog) StopOnPanic() {}

// RecoverAndPanic recovers and panics
func (*NoLog) RecoverAndPanic(f func()) {
	f()
}

// RecoverAndExit recovers and exits
func (*NoLog) RecoverAndExit(f, exit func()) {
	f()
}

// Stop stops the logger
func (*NoLog) Stop() {}

// Write implements io.Writer
func (*NoLog) Write(p []byte) (n int, err error) {
	return len(p), nil
}