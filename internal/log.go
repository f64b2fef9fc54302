package internal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG/TRACE to a level, defaulting to INFO
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	case "TRACE":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger provides leveled logging
type Logger struct {
	level LogLevel
	zl    zerolog.Logger
}

// NewLogger creates a console logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr }), level)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level LogLevel) *Logger {
	zl := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &Logger{level: level, zl: zl}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

// With returns a child logger tagged with a component name
func (l *Logger) With(component string) *Logger {
	return &Logger{level: l.level, zl: l.zl.With().Str("component", component).Logger()}
}

// Zerolog exposes the underlying logger for structured fields
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) {
	l.zl.Trace().Msg(fmt.Sprintf(format, args...))
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
