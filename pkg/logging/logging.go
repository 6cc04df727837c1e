// Package logging provides the structured logging facade used across the server.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the logging interface used by all server components.
// Trailing arguments are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

// Level represents the minimum severity a logger will emit.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// New creates a Logger writing human-readable output to stderr at the
// given level. Unknown levels fall back to info.
func New(level Level) Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

// NewWithWriter creates a Logger writing to w at the given level.
func NewWithWriter(w io.Writer, level Level) Logger {
	lvl, err := zerolog.ParseLevel(string(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

func (l *zerologLogger) Debug(msg string, keyvals ...interface{}) {
	l.emit(l.zl.Debug(), msg, keyvals)
}

func (l *zerologLogger) Info(msg string, keyvals ...interface{}) {
	l.emit(l.zl.Info(), msg, keyvals)
}

func (l *zerologLogger) Warn(msg string, keyvals ...interface{}) {
	l.emit(l.zl.Warn(), msg, keyvals)
}

func (l *zerologLogger) Error(msg string, keyvals ...interface{}) {
	l.emit(l.zl.Error(), msg, keyvals)
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, keyvals []interface{}) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	ev.Msg(msg)
}

// NoopLogger discards all log messages. Useful as a default in tests.
type NoopLogger struct{}

func (NoopLogger) Debug(msg string, keyvals ...interface{}) {}
func (NoopLogger) Info(msg string, keyvals ...interface{})  {}
func (NoopLogger) Warn(msg string, keyvals ...interface{})  {}
func (NoopLogger) Error(msg string, keyvals ...interface{}) {}
