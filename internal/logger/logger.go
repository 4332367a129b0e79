// Package logger provides the logging interface and its no-op and
// writer-backed implementations. The CLI logs through it; the directive
// scanner, the resolver, and the module cache write no log lines.
package logger

import (
	"fmt"
	"io"
)

// Logger is the logging interface stored on a compile State and used by
// the CLI.
// All output is written to the configured io.Writer (typically os.Stderr).
type Logger interface {
	// Debugf logs verbose/trace information: cache hits/misses, import
	// pre-load order, purge results (shown when verbose enabled).
	Debugf(format string, args ...interface{})
	// Warnf logs recoverable anomalies: FIFO eviction, sandbox denials,
	// type-coercion mismatches (always shown).
	Warnf(format string, args ...interface{})
	// Errorf logs conditions that end up in a compile's accumulated error
	// list (always shown).
	Errorf(format string, args ...interface{})
}

// NoOpLogger discards all log output (zero allocation).
type NoOpLogger struct{}

// Debugf is a no-op.
func (NoOpLogger) Debugf(string, ...interface{}) {}

// Warnf is a no-op.
func (NoOpLogger) Warnf(string, ...interface{}) {}

// Errorf is a no-op.
func (NoOpLogger) Errorf(string, ...interface{}) {}

// StdLogger writes to an io.Writer with optional verbose output.
type StdLogger struct {
	w       io.Writer
	verbose bool
}

// New creates a logger that writes to w.
// If verbose is true, Debugf messages are shown.
// Warnf and Errorf messages are always shown.
func New(w io.Writer, verbose bool) Logger {
	return &StdLogger{w: w, verbose: verbose}
}

// Nop returns a no-op logger that discards all output.
func Nop() Logger {
	return NoOpLogger{}
}

// Debugf logs a debug message if verbose is enabled.
func (l *StdLogger) Debugf(format string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l.w, "[DEBUG] "+format+"\n", args...)
	}
}

// Warnf logs a warning message (always shown).
func (l *StdLogger) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "[WARN] "+format+"\n", args...)
}

// Errorf logs an error message (always shown).
func (l *StdLogger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "[ERROR] "+format+"\n", args...)
}
