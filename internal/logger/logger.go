// Package logger provides leveled logging for the slidecast pipeline.
package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return l
}

// SetLevel sets the minimum log level from a config string
// (debug, info, warn, error). Unknown values fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}
