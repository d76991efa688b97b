package logging

import "github.com/sirupsen/logrus"

// LogrusLogger adapts a logrus entry to Logger. Fields become logrus fields.
type LogrusLogger struct{ E *logrus.Entry }

// Debug logs at debug level.
func (l LogrusLogger) Debug(msg string, f Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}

// Info logs at info level.
func (l LogrusLogger) Info(msg string, f Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }

// Warn logs at warn level.
func (l LogrusLogger) Warn(msg string, f Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }

// Error logs at error level.
func (l LogrusLogger) Error(msg string, f Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
