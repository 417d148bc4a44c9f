// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
//
// Everything logs to stderr: in server mode stdout carries the msgpack stream.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a new default charm log on stderr.
func New(prefix string) *log.Logger {
	return NewWithConfig(Config{
		Prefix:    prefix,
		Level:     log.GetLevel(),
		Timestamp: true,
	})
}

// Setup configures the global charm logger used by packages that call log.Debug and friends directly.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
	log.SetTimeFormat("15:04:05.000")
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return
	}
	log.SetLevel(log.InfoLevel)
}
