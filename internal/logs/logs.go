// Package logs holds the process-wide structured logger.
package logs

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(io.Discard, log.Options{})

// InitLogger points the logger at w (stderr when nil). verbose enables debug output.
func InitLogger(w io.Writer, verbose bool) {
	if w == nil {
		w = os.Stderr
	}
	logger = log.NewWithOptions(w, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// Logger returns the current logger.
func Logger() *log.Logger { return logger }

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }

func Info(msg string, args ...any) { logger.Info(msg, args...) }

func Warn(msg string, args ...any) { logger.Warn(msg, args...) }

func Error(msg string, args ...any) { logger.Error(msg, args...) }
