package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger builds the application logger from the log settings. An unknown
// level falls back to warn.
func NewLogger(w io.Writer, c Config) *log.Logger {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	formatter := log.TextFormatter
	switch c.LogFormat {
	case "logfmt":
		formatter = log.LogfmtFormatter
	case "json":
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: formatter != log.TextFormatter,
		Prefix:          "taskline",
	})
}
