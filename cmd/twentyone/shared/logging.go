package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging for the CLI. The level string comes
// from the config file; the debug flag overrides it.
func SetupLogger(debug bool, level string) *log.Logger {
	logLevel := log.InfoLevel
	if parsed, err := log.ParseLevel(level); err == nil && level != "" {
		logLevel = parsed
	}
	if debug {
		logLevel = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           logLevel,
		ReportTimestamp: true,
	})
}
