// Package xlog provides the structured logger used across the engine.
// It is a thin, project-specific wrapper over logrus: one place to set
// the level and field conventions instead of scattering
// logrus.WithField calls with inconsistent keys.
package xlog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger handed to every component.
type Logger = logrus.FieldLogger

// New builds a Logger writing to stderr at the given level. An invalid
// level string falls back to info, matching logrus.ParseLevel's zero
// value behavior being surprising otherwise.
func New(level string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)
	return l
}

// Nop returns a logger that discards everything, for tests that don't
// want log noise but still need a Logger to satisfy a constructor.
func Nop() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
