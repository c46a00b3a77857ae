package logging

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig selects the level, encoding, and sinks for NewLogger.
// The zero value means info-level JSON on stdout, with the logger's
// own errors on stderr.
type LogConfig struct {
	Level            string   // "debug", "info", "warn", "error"
	Format           string   // "json" (default) or "console"
	OutputPaths      []string // entry sinks: "stdout", "stderr", or file paths
	ErrorOutputPaths []string // sinks for logger-internal errors
}

// zapLogger adapts *zap.Logger to the Logger interface.  The atomic
// level is shared by every child made through With and Named, so
// SetLevel on any of them retunes the whole family.
type zapLogger struct {
	z     *zap.Logger
	level zap.AtomicLevel
}

// NewLogger builds the zap-backed Logger for cfg.  It assembles the
// core by hand instead of going through zap.Config so the atomic
// level stays on the returned logger for later SetLevel calls.
func NewLogger(cfg LogConfig) (Logger, error) {
	outPaths := cfg.OutputPaths
	if len(outPaths) == 0 {
		outPaths = []string{"stdout"}
	}
	errPaths := cfg.ErrorOutputPaths
	if len(errPaths) == 0 {
		errPaths = []string{"stderr"}
	}

	sink, _, err := zap.Open(outPaths...)
	if err != nil {
		return nil, fmt.Errorf("logging: open output %v: %w", outPaths, err)
	}
	errSink, _, err := zap.Open(errPaths...)
	if err != nil {
		return nil, fmt.Errorf("logging: open error output %v: %w", errPaths, err)
	}

	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	z := zap.New(
		zapcore.NewCore(newEncoder(cfg.Format), sink, level),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.ErrorOutput(errSink),
	)
	return &zapLogger{z: z, level: level}, nil
}

// NewLoggerFromCore wraps an existing core, typically an observer
// core in tests.  Level control stays with the core, so SetLevel has
// no effect on the result.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core), level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

// newEncoder returns the console encoder for "console" and the JSON
// encoder for anything else.  Both stamp ISO 8601 times under "ts".
func newEncoder(format string) zapcore.Encoder {
	if format == "console" {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.TimeKey = "ts"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "ts"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(ec)
}

// parseLevel maps a config string to a zap level.  Unparseable input
// returns info so a typo in config never silences the process.
func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, zapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, zapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, zapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, zapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, zapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(zapFields(fields)...), level: l.level}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name), level: l.level}
}

// SetLevel retunes the minimum emitted severity.  It satisfies
// LevelSetter.
func (l *zapLogger) SetLevel(level string) {
	l.level.SetLevel(parseLevel(level))
}

// zapField translates one Field to its zap counterpart.  The typed
// cases cover every constructor in this package; anything else takes
// zap.Any's reflection path.
func (f Field) zapField() zap.Field {
	switch v := f.Value.(type) {
	case string:
		return zap.String(f.Key, v)
	case int:
		return zap.Int(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case float64:
		return zap.Float64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case time.Duration:
		return zap.Duration(f.Key, v)
	case error:
		return zap.NamedError(f.Key, v)
	default:
		return zap.Any(f.Key, v)
	}
}

func zapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = f.zapField()
	}
	return out
}
