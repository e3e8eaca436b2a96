package utils

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

// NewLogger returns the stderr logger used by every command.
func NewLogger(verbose bool) *pterm.Logger {
	level := pterm.LogLevelWarn
	if verbose {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(level).WithWriter(os.Stderr)
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelError).WithWriter(io.Discard)
}

// LoggerOrDiscard returns logger, or a discarding logger when it is nil.
func LoggerOrDiscard(logger *pterm.Logger) *pterm.Logger {
	if logger == nil {
		return DiscardLogger()
	}
	return logger
}
