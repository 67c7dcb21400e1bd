package cli

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newConsoleLogger creates the logger for operator-facing diagnostics.
// Run results go through the output formatters; this logger only covers
// setup and teardown noise, so it writes to stderr.
func newConsoleLogger(verbose, quiet bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	switch {
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
