// Package logging defines the structured-logging contract for the
// engine.  Components log through the Logger interface with typed
// Fields; the zap adapter in this package is the only code that
// touches the logging library, so the backend can change without
// disturbing analysis code.  A process-wide default covers the few
// paths with no injection point, such as signal handlers.
package logging

import (
	"sync/atomic"
	"time"
)

// Field is one typed key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String builds a string-valued Field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int-valued Field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 builds an int64-valued Field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Float64 builds a float64-valued Field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Bool builds a bool-valued Field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Duration builds a Field holding an elapsed time.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Any builds a Field for values with no typed constructor.  The
// encoder renders it through reflection, so prefer the typed forms on
// hot paths.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Err builds the conventional "error" Field.  A nil error renders as
// the literal "<nil>" so the key still appears in the entry.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err}
}

// Logger is the leveled structured logger handed to every component.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs the message and terminates the process.  Startup
	// wiring only; request paths return errors instead.
	Fatal(msg string, fields ...Field)

	// With returns a child logger that carries the given fields on
	// every subsequent entry.  The receiver is unchanged.
	With(fields ...Field) Logger

	// Named returns a child logger with name appended to the dotted
	// logger name, as in "server.conformer".
	Named(name string) Logger
}

// LevelSetter is implemented by loggers whose minimum severity can be
// retuned at runtime.  The config watcher uses it to apply log.level
// changes without restarting the server.
type LevelSetter interface {
	SetLevel(level string)
}

// nop discards every entry.  Tests use it, and so do components
// constructed before the real logger exists.
type nop struct{}

func (nop) Debug(string, ...Field) {}
func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}
func (nop) Fatal(string, ...Field) {}

func (n nop) With(...Field) Logger { return n }
func (n nop) Named(string) Logger  { return n }

// NewNopLogger returns a Logger that drops everything.
func NewNopLogger() Logger { return nop{} }

// defaultLogger holds the process-wide logger.  It is read on logging
// paths, so it sits behind an atomic box rather than a mutex.
var defaultLogger atomic.Value

type loggerBox struct{ Logger }

// SetDefault installs l as the process-wide logger.  Nil is ignored,
// so a failed construction path cannot clear a working logger.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger.Store(loggerBox{l})
	}
}

// Default returns the process-wide logger, or a no-op one before
// SetDefault has run.  Prefer constructor injection; Default exists
// for code with no wiring path.
func Default() Logger {
	if box, ok := defaultLogger.Load().(loggerBox); ok {
		return box.Logger
	}
	return nop{}
}
