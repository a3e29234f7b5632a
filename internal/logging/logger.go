// Package logging provides structured logging for the skills CLI using slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level aliases for convenience.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	defaultOnce   sync.Once
)

// Options configures the logger behavior.
type Options struct {
	// Level sets the minimum log level. Defaults to LevelWarn so command
	// output is not interleaved with log lines.
	Level slog.Level
	// Output sets the output destination. Defaults to os.Stderr.
	Output io.Writer
	// JSON enables JSON output format.
	JSON bool
	// AddSource includes source file and line in log output.
	AddSource bool
}

// DefaultOptions returns options suitable for CLI usage.
func DefaultOptions() Options {
	return Options{
		Level:  LevelWarn,
		Output: os.Stderr,
	}
}

// New creates a new logger with the given options.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	return slog.New(handler)
}

// Default returns the default logger, creating it if necessary.
func Default() *slog.Logger {
	defaultOnce.Do(func() {
		mu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(DefaultOptions())
		}
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the default logger and installs it as slog's default.
func SetDefault(logger *slog.Logger) {
	defaultOnce.Do(func() {})
	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// With returns a logger that includes the given attributes in every output.
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// WithContext returns the logger stored in ctx, or the default logger.
func WithContext(ctx context.Context) *slog.Logger {
	if l := FromContext(ctx); l != nil {
		return l
	}
	return Default()
}

// Debug logs at debug level using the default logger.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Info logs at info level using the default logger.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// Error logs at error level using the default logger.
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

type loggerKey struct{}

// NewContext returns a context with the logger attached.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the logger from context, or nil if not present.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return nil
}

// Common attribute keys.
const (
	KeySkill     = "skill"
	KeyPath      = "path"
	KeySource    = "source"
	KeyOperation = "operation"
	KeyCount     = "count"
	KeyError     = "error"
	KeyURL       = "url"
	KeyStatus    = "status"
	KeyFormat    = "format"
)

// Skill returns a slog attribute naming a skill.
func Skill(name string) slog.Attr {
	return slog.String(KeySkill, name)
}

// Path returns a slog attribute for a filesystem path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Source returns a slog attribute for an install source (path, zip or URL).
func Source(s string) slog.Attr {
	return slog.String(KeySource, s)
}

// Operation returns a slog attribute for the command being run.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Err returns a slog attribute for an error. A nil error yields an empty attribute.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Count returns a slog attribute for item counts.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// URL returns a slog attribute for a remote URL.
func URL(u string) slog.Attr {
	return slog.String(KeyURL, u)
}

// Status returns a slog attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Format returns a slog attribute for an output format.
func Format(f string) slog.Attr {
	return slog.String(KeyFormat, f)
}
