// Package logging builds the logrus logger shared by the CLI, the session API and the backend client.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures logger construction.
type Options struct {
	Verbose bool      // Debug level when set, warnings otherwise
	JSON    bool      // Emit JSON lines instead of text
	Out     io.Writer // Defaults to stderr
}

// New returns a logger configured from opts.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	return logger
}

// Discard returns a logger that drops everything. Used by tests and library callers
// that do not care about request logs.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
