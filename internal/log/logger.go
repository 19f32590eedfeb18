// Package log provides structured logging for codexd.
//
// This package defines a Logger interface backed by Go's stdlib slog.
// Components accept a Logger explicitly; a global default exists for the
// command layer.
//
// The launcher is usually started from Explorer with no console attached,
// so Setup can mirror log records to an append-only file.
//
// Verbosity levels:
//   - ERROR (--quiet): Errors only
//   - WARN (default): Warnings, e.g. a bundled runtime older than the app expects
//   - INFO (--verbose): Resolved paths and launch parameters
//   - DEBUG (--debug): Every candidate considered and every helper failure
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Logger is the interface for structured logging.
// Methods match slog's signature for easy integration.
type Logger interface {
	// Debug logs at DEBUG level: candidates considered, helper failures.
	Debug(msg string, args ...any)

	// Info logs at INFO level: resolved tools and launch parameters.
	Info(msg string, args ...any)

	// Warn logs at WARN level: recoverable problems.
	Warn(msg string, args ...any)

	// Error logs at ERROR level: failures that abort the launch.
	Error(msg string, args ...any)

	// With returns a Logger that adds the given key-value pairs to every entry.
	With(args ...any) Logger
}

// slogLogger wraps slog.Logger to implement the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *slogLogger) Error(msg string, args ...any) {
	s.l.Error(msg, args...)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

// noopLogger discards all log output.
type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the global logger configured at startup.
// Returns a noop logger if SetDefault has not been called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the global logger. Called once from main after the
// verbosity flags are parsed.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Options configures Setup.
type Options struct {
	Level  slog.Level
	Stderr io.Writer // console sink; nil disables it
	File   string    // optional log file, opened for append
}

// Setup builds a text logger writing to the console sink and, when
// opts.File is set, to that file. The returned closer releases the file.
func Setup(opts Options) (Logger, io.Closer, error) {
	var sinks []io.Writer
	if opts.Stderr != nil {
		sinks = append(sinks, opts.Stderr)
	}

	closer := io.Closer(nopCloser{})
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, f)
		closer = f
	}

	if len(sinks) == 0 {
		return NewNoop(), closer, nil
	}

	h := slog.NewTextHandler(io.MultiWriter(sinks...), &slog.HandlerOptions{Level: opts.Level})
	return New(h), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
