package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fields are structured key/value pairs attached to a log line.
type Fields = map[string]interface{}

// Options configures a Logger.
type Options struct {
	// Env selects the output format: "development" prints colored console
	// lines, anything else prints JSON.
	Env string
	// Level is a zerolog level name. Empty means debug in development and
	// info otherwise.
	Level string
	// Out defaults to stdout.
	Out io.Writer
}

// Logger wraps zerolog.Logger and provides structured logging capabilities.
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger from opts.
func New(opts Options) *Logger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	zlog := zerolog.New(out).
		Level(parseLevel(opts.Level, opts.Env)).
		With().
		Timestamp().
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

func parseLevel(level, env string) zerolog.Level {
	if level != "" {
		if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			return l
		}
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields Fields) {
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	event.Msg(msg)
}

// Debug logs a debug message with optional fields.
func (l *Logger) Debug(msg string, fields Fields) {
	l.emit(l.zlog.Debug(), msg, fields)
}

// Info logs an info message with optional fields.
func (l *Logger) Info(msg string, fields Fields) {
	l.emit(l.zlog.Info(), msg, fields)
}

// Warn logs a warning message with optional fields.
func (l *Logger) Warn(msg string, fields Fields) {
	l.emit(l.zlog.Warn(), msg, fields)
}

// Error logs an error message with an error and optional fields.
func (l *Logger) Error(msg string, err error, fields Fields) {
	l.emit(l.zlog.Error().Err(err), msg, fields)
}

// Fatal logs a fatal message and exits the application.
func (l *Logger) Fatal(msg string, err error, fields Fields) {
	l.emit(l.zlog.Fatal().Err(err), msg, fields)
}

// With creates a child logger with additional context fields.
func (l *Logger) With(fields Fields) *Logger {
	ctx := l.zlog.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithRequestID creates a child logger with a request ID field.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("request_id", requestID).Logger()}
}

// Component creates a child logger tagged with the emitting component.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zlog: l.zlog.With().Str("component", name).Logger()}
}

// GetZerolog returns the underlying zerolog.Logger for advanced usage.
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}
