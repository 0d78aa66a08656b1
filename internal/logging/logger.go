// Package logging configures the shared logrus logger.
package logging

import (
	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}
