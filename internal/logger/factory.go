package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Config describes a charm logger. A nil Output means stderr.
type Config struct {
	Prefix    string
	Level     log.Level
	Caller    bool
	Timestamp bool
	Formatter log.Formatter
	Output    io.Writer
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(cfg Config) *log.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Prefix:          cfg.Prefix,
		Level:           cfg.Level,
		ReportCaller:    cfg.Caller,
		ReportTimestamp: cfg.Timestamp,
		Formatter:       cfg.Formatter,
	})
}

// NewFile creates a logger appending to path, for the terminal UI which owns the screen.
// The caller closes the returned file.
func NewFile(path, prefix string, level log.Level) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l := NewWithConfig(Config{
		Prefix:    prefix,
		Level:     level,
		Timestamp: true,
		Formatter: log.LogfmtFormatter,
		Output:    f,
	})
	return l, f, nil
}
