package logger

import (
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFromString creates a logger from a level name such as "debug" or "warn".
// Unknown names fall back to info.
func NewFromString(w io.Writer, level string) *Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return NewWithLevel(w, lvl)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// PageLoaded logs a parsed source document
func (l *Logger) PageLoaded(source, title string, frames int) {
	l.Debug("page loaded",
		"source", source,
		"title", title,
		"frames", frames)
}

// FrameSkipped logs an iframe whose document could not be loaded
func (l *Logger) FrameSkipped(src string, err error) {
	l.Debug("frame skipped",
		"src", src,
		"error", err)
}

// CandidateSkipped logs an element left out of the scan
func (l *Logger) CandidateSkipped(kind string, reason string) {
	l.Debug("candidate skipped",
		"kind", kind,
		"reason", reason)
}

// ScanCompleted logs the result of a scan
func (l *Logger) ScanCompleted(tables, lists, triggers int, duration time.Duration) {
	l.Info("scan completed",
		"tables", tables,
		"lists", lists,
		"triggers", triggers,
		"duration", duration.Round(time.Millisecond))
}

// Delivered logs a Markdown document handed to a deliverer
func (l *Logger) Delivered(filename string, bytes int) {
	l.Info("delivered",
		"file", filename,
		"bytes", bytes)
}

// ArchiveFailed logs a delivered document that could not be archived
func (l *Logger) ArchiveFailed(filename string, err error) {
	l.Warn("archive failed",
		"file", filename,
		"error", err)
}

// Failure logs an uncaught failure on the diagnostic channel
func (l *Logger) Failure(name, message string, fields map[string]any) {
	kv := []interface{}{"name", name}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		kv = append(kv, k, fields[k])
	}
	l.Error(message, kv...)
}
