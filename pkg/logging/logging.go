// Package logging builds the logrus logger shared by every tabtree component.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLevel keeps the CLI quiet unless something goes wrong.
const DefaultLevel = logrus.WarnLevel

// New returns a logger writing to stderr at the named level. An unknown or
// empty level falls back to DefaultLevel.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stderr)
}

// NewWithOutput is New with an explicit writer.
func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel is logrus.ParseLevel with a default instead of an error.
func ParseLevel(level string) logrus.Level {
	if level == "" {
		return DefaultLevel
	}
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return DefaultLevel
	}
	return l
}

// Component returns an entry tagged with the component name. A nil logger
// yields a discarding one.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	if logger == nil {
		logger = Discard()
	}
	return logger.WithField("component", name)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
