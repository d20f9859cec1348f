// Package logging builds the structured loggers shared by the binaries.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/skyraid/internal/config"
)

// LevelEnv names the variable that selects the log level.
const LevelEnv = "SKYRAID_LOG_LEVEL"

// New returns a timestamped logger writing to w. The level comes from
// SKYRAID_LOG_LEVEL and defaults to info.
func New(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	logger.SetLevel(Level(config.GetEnv(LevelEnv, "")))
	return logger
}

// Level parses name, falling back to info for empty or unknown names.
func Level(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil || name == "" {
		return log.InfoLevel
	}
	return level
}
