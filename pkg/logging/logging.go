// Package logging provides the structured logger used across the codec and
// the CLI. Loggers carry Fields and are derived per component with
// WithFields.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fields are key/value pairs attached to a log entry.
type Fields map[string]any

// Level is a logging severity.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	return l.zerolog().String()
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is a leveled, structured logger.
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zeroLogger struct {
	zl zerolog.Logger
}

var std = NewDefaultLogger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
}

// NewDefaultLogger writes human readable entries to stderr.
func NewDefaultLogger() Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

// New writes JSON entries to w.
func New(w io.Writer) Logger {
	return &zeroLogger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// Nop discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

// SetLevel sets the minimum level for every logger.
func SetLevel(l Level) {
	zerolog.SetGlobalLevel(l.zerolog())
}

// SetDefault replaces the logger behind the package level functions.
func SetDefault(l Logger) {
	if l != nil {
		std = l
	}
}

// Error logs err on the package level logger.
func Error(err error, msg string, fields ...Fields) { std.Error(err, msg, fields...) }

func (l *zeroLogger) Debug(msg string, fields ...Fields) {
	emit(l.zl.Debug(), msg, fields)
}

func (l *zeroLogger) Info(msg string, fields ...Fields) {
	emit(l.zl.Info(), msg, fields)
}

func (l *zeroLogger) Warn(msg string, fields ...Fields) {
	emit(l.zl.Warn(), msg, fields)
}

func (l *zeroLogger) Error(err error, msg string, fields ...Fields) {
	emit(l.zl.Error().Err(err), msg, fields)
}

func (l *zeroLogger) WithFields(fields Fields) Logger {
	return &zeroLogger{zl: l.zl.With().Fields(map[string]any(fields)).Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []Fields) {
	for _, f := range fields {
		ev = ev.Fields(map[string]any(f))
	}
	ev.Msg(msg)
}
