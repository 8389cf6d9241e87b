// Package rlog provides a structured logger for a pipeline: a root
// logger, `.With("stage", name)` children, decorators that log per-frame
// stage errors, and strftime-formatted frame timestamps in log lines.
// cmd/suo uses only the root logger; it does not wrap stages with the
// decorators. The package is
// grounded on the teacher's own (declared-but-unwired) dependency on
// github.com/charmbracelet/log and its timestampPrefix() idiom in
// src/xmit.go for rendering a frame's on-air time with
// github.com/lestrrat-go/strftime.
package rlog

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"

	"github.com/kg7gio/suo/pkg/radio"
)

// defaultTimestampFormat matches the teacher's own default, the strftime
// pattern xmit.go falls back to when no --timestamp-format flag is given.
// New registers %f as the zero-padded three-digit milliseconds.
const defaultTimestampFormat = "%Y-%m-%d %H:%M:%S.%f"

// Logger wraps a *log.Logger with a compiled strftime pattern so frame
// timestamps render consistently across every Warn/Info/Debug call a
// stage makes.
type Logger struct {
	base   *log.Logger
	ts     *strftime.Strftime
	format string
}

// New returns a root Logger writing to w at level, rendering frame
// timestamps with timestampFormat (a strftime pattern; the empty string
// selects defaultTimestampFormat).
func New(w io.Writer, level log.Level, timestampFormat string) (*Logger, error) {
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}
	pattern, err := strftime.New(timestampFormat, strftime.WithMilliseconds('f'))
	if err != nil {
		return nil, err
	}
	base := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return &Logger{base: base, ts: pattern, format: timestampFormat}, nil
}

// With returns a child Logger tagged with stage, sharing the parent's
// strftime pattern.
func (l *Logger) With(stage string) *Logger {
	return &Logger{base: l.base.With("stage", stage), ts: l.ts, format: l.format}
}

// FrameTime renders a radio.Timestamp (nanoseconds since the Unix epoch)
// using the configured strftime pattern.
func (l *Logger) FrameTime(ts radio.Timestamp) string {
	s, err := l.ts.FormatString(time.Unix(0, int64(ts)).UTC())
	if err != nil {
		return time.Unix(0, int64(ts)).UTC().Format(time.RFC3339Nano)
	}
	return s
}

func (l *Logger) Info(msg string, keyvals ...interface{})  { l.base.Info(msg, keyvals...) }
func (l *Logger) Warn(msg string, keyvals ...interface{})  { l.base.Warn(msg, keyvals...) }
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.base.Error(msg, keyvals...) }
func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.base.Debug(msg, keyvals...) }

// ParseLevel adapts a --log-level flag value ("debug", "info", "warn",
// "error") to a log.Level, defaulting to log.InfoLevel on an unrecognized
// value.
func ParseLevel(s string) log.Level {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
