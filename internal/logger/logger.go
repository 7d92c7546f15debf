package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog with helpers for table loading and forwarding events
type Logger struct {
	*slog.Logger
}

// New creates a JSON logger at the given level. Silent mode discards
// all log output; decision lines on the output sink are unaffected.
func New(logLevel string, silent bool) *Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(logLevel),
		AddSource: logLevel == "debug",
	}

	var w io.Writer = os.Stderr
	if silent {
		w = io.Discard
	}

	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, opts)),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a logger tagged with a component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
	}
}

// TableLoaded reports the outcome of loading one table file
func (l *Logger) TableLoaded(kind, file string, entries int) {
	l.Info("Table loaded",
		slog.String("table", kind),
		slog.String("file", file),
		slog.Int("entries", entries))
}

// RecordSkipped reports a malformed line discarded during a table load
func (l *Logger) RecordSkipped(kind string, lineNum int, line, reason string) {
	l.Warn("Bad entry, skipping to next line",
		slog.String("table", kind),
		slog.Int("line", lineNum),
		slog.String("content", line),
		slog.String("reason", reason))
}

// DuplicateNetwork reports a route network that was already loaded
func (l *Logger) DuplicateNetwork(lineNum int, network string) {
	l.Warn("Duplicate route network, earlier entry keeps priority",
		slog.Int("line", lineNum),
		slog.String("network", network))
}

// AddressSkipped reports an input destination that failed to parse
func (l *Logger) AddressSkipped(lineNum int, line, reason string) {
	l.Warn("Bad destination address, skipping",
		slog.Int("line", lineNum),
		slog.String("content", line),
		slog.String("reason", reason))
}

// RunCompleted reports the end-of-run decision counters
func (l *Logger) RunCompleted(processed, direct, forwarded, unreachable, skipped int, durationMs int64) {
	l.Info("Packets done processing",
		slog.Int("processed", processed),
		slog.Int("direct", direct),
		slog.Int("forwarded", forwarded),
		slog.Int("unreachable", unreachable),
		slog.Int("skipped", skipped),
		slog.Int64("duration_ms", durationMs))
}
