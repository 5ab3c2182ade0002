// Package logging builds the leveled logger handed to the merge pipeline.
//
// A run logs to up to two destinations: the console, for the operator
// watching the batch, and a timestamped file that keeps every detail
// (skipped rows, missing attachments, per-record failures) for later review.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LevelCritical marks errors that abort the whole batch.
const LevelCritical = slog.Level(12)

// Destination names a place log records can go.
type Destination string

// Recognized destinations.
const (
	DestinationConsole Destination = "console"
	DestinationFile    Destination = "file"
)

// ErrLogFile indicates the log file could not be created.
var ErrLogFile = errors.New("failed to create log file")

// fileTimeLayout matches the timestamp operators expect in the log file.
const fileTimeLayout = "2006-01-02 15:04:05"

// Options selects destinations and their levels.
// A nil Console disables console output; an empty FilePath disables the file.
type Options struct {
	Console      io.Writer
	ConsoleLevel slog.Level
	FilePath     string
	FileLevel    slog.Level
}

// Logger is a *slog.Logger that may own an open log file.
type Logger struct {
	*slog.Logger
	file  *os.File
	path  string
	dests []Destination
}

// New creates a Logger writing to the destinations enabled in opts.
func New(opts Options) (*Logger, error) {
	var handlers []slog.Handler
	l := &Logger{}

	if opts.Console != nil {
		l.dests = append(l.dests, DestinationConsole)
		handlers = append(handlers, slog.NewTextHandler(opts.Console, &slog.HandlerOptions{
			Level:       opts.ConsoleLevel,
			ReplaceAttr: consoleAttr,
		}))
	}

	if opts.FilePath != "" {
		if dir := filepath.Dir(opts.FilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrLogFile, err)
			}
		}
		f, err := os.Create(opts.FilePath) // #nosec G304 -- operator-chosen log path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLogFile, err)
		}
		l.file = f
		l.path = opts.FilePath
		l.dests = append(l.dests, DestinationFile)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:       opts.FileLevel,
			ReplaceAttr: fileAttr,
		}))
	}

	switch len(handlers) {
	case 0:
		l.Logger = slog.New(slog.DiscardHandler)
	case 1:
		l.Logger = slog.New(handlers[0])
	default:
		l.Logger = slog.New(fanout(handlers))
	}
	return l, nil
}

// Path returns the log file path, or "" when file logging is disabled.
func (l *Logger) Path() string {
	return l.path
}

// Destinations lists the destinations this logger writes to.
func (l *Logger) Destinations() []Destination {
	return l.dests
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Critical logs msg at LevelCritical.
func Critical(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelCritical, msg, args...)
}

// ParseLevel converts a level name to slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// levelName renders levels the way the batch report names them.
func levelName(level slog.Level) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARNING"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// consoleAttr drops the timestamp and normalizes level and error keys.
func consoleAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return commonAttr(a)
}

// fileAttr formats timestamps for humans and normalizes level and error keys.
func fileAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.String(slog.TimeKey, a.Value.Time().Format(fileTimeLayout))
	}
	return commonAttr(a)
}

func commonAttr(a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelName(lvl))
		}
	case "error":
		a.Key = "err"
	}
	return a
}

// fanout forwards every record to each handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
