// Package logging builds the per-component logrus loggers.
package logging

import "github.com/sirupsen/logrus"

// TimestampFormat is the timestamp layout of every log line.
const TimestampFormat = "2006-01-02 15:04:05"

// New returns a text logger with full timestamps at the process-wide level.
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
	})
	logger.SetLevel(logrus.GetLevel())
	return logger
}
