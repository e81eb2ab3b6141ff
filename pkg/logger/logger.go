// Package logger wraps zerolog with the handful of helpers the server and CLI
// use. A process-wide default is available through Default.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

// New returns a JSON logger writing to w at info level.
func New(w io.Writer) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	zl := zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(zerolog.InfoLevel)

	return &Logger{zl: zl}
}

// NewConsole returns a human-readable logger for interactive use.
func NewConsole(w io.Writer) *Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
}

// NewFormat returns a console logger for format "console" and a JSON logger
// otherwise.
func NewFormat(w io.Writer, format string) *Logger {
	if format == "console" {
		return NewConsole(w)
	}
	return New(w)
}

func (l *Logger) WithLevel(level zerolog.Level) *Logger {
	return &Logger{zl: l.zl.Level(level)}
}

// WithFields returns a child logger carrying the given string fields.
func (l *Logger) WithFields(kv map[string]string) *Logger {
	ctx := l.zl.With()
	for k, v := range kv {
		ctx = ctx.Str(k, v)
	}
	return &Logger{zl: ctx.Logger()}
}

func (l *Logger) Debug() *zerolog.Event {
	return l.zl.Debug()
}

func (l *Logger) Info() *zerolog.Event {
	return l.zl.Info()
}

func (l *Logger) Warn() *zerolog.Event {
	return l.zl.Warn()
}

func (l *Logger) Error(err error) *zerolog.Event {
	return l.zl.Error().Err(err)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Fatal(err error, msg string) {
	l.zl.Fatal().Err(err).Msg(msg)
}

// ParseLevel maps a config value such as "debug" or "WARN" to a level.
// Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(os.Stderr)
)

// Default returns the process-wide logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
