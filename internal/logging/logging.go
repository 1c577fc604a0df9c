// Package logging sets up the diagnostic logger. Diagnostics always go to a
// separate stream from the flattened output.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Fields used across packages when logging.
const (
	Subsys     = "subsys"
	Source     = "source"
	Query      = "query"
	Depth      = "depth"
	Keys       = "keys"
	Scalars    = "scalars"
	Collisions = "collisions"
	Extracted  = "extracted"
)

// NewLogger returns a text logger writing to w. Only warnings and errors are
// emitted unless debug is set.
func NewLogger(w io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	logger.SetLevel(logrus.WarnLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return NewLogger(io.Discard, false)
}
