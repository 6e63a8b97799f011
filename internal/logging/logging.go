// Package logging builds the diagnostic logger used by todo-ci. Records go to
// stderr, and optionally to a size-rotated file, so they never mix with the
// report on stdout.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ccollicutt/todoci/pkg/config"
)

// Rotation defaults for the optional log file.
const (
	DefaultFileMaxSizeMB  = 10
	DefaultFileMaxBackups = 3
	DefaultFileMaxAgeDays = 28
)

// New returns a logger for cfg writing to w and, when cfg.File is set, to a
// rotated file. The returned closer releases the file and is never nil.
func New(w io.Writer, cfg config.LogConfig) (*log.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    DefaultFileMaxSizeMB,
			MaxBackups: DefaultFileMaxBackups,
			MaxAge:     DefaultFileMaxAgeDays,
		}
		w = io.MultiWriter(w, lj)
		closer = lj
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: cfg.File != "",
		Prefix:          "todo-ci",
	})

	return logger, closer
}

// ParseLevel converts a level name to a log.Level, defaulting to warn.
func ParseLevel(s string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// ParseFormatter converts a format name to a log.Formatter, defaulting to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
