package yamlext

import (
	"io"

	"github.com/yaml-extend/yaml-extend-sub001/internal/logger"
)

// Logger defines the logging interface accepted by NewState. Compile
// itself writes no log lines; the yamlext CLI logs a Result's Errors at
// Errorf and its ImportedErrors at Warnf. All output is written to the
// configured io.Writer (typically os.Stderr).
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NewLogger creates a logger that writes to w. If verbose is true, Debugf
// messages are shown; Warnf and Errorf are always shown.
func NewLogger(w io.Writer, verbose bool) Logger {
	return logger.New(w, verbose)
}

// NopLogger returns a no-op logger that discards all output.
func NopLogger() Logger {
	return logger.Nop()
}
