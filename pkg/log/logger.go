// Package log is the process-wide structured logger.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is nil until Init is called; the helpers below are no-ops until then.
var Logger *logrus.Logger

// Init creates Logger at level, writing JSON to stdout.
func Init(level string) {
	InitWithOutput(level, os.Stdout)
}

// InitWithOutput is Init writing to w, used by tests to capture entries.
func InitWithOutput(level string, w io.Writer) {
	Logger = logrus.New()
	Logger.SetOutput(w)
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	Logger.SetLevel(logLevel)
}

// IsSensitive reports whether a field key likely carries a credential.
func IsSensitive(key string) bool {
	k := strings.ToLower(key)
	k = strings.NewReplacer("-", "", "_", "").Replace(k)
	switch {
	case k == "authorization":
		return true
	case strings.Contains(k, "token"),
		strings.Contains(k, "secret"),
		strings.Contains(k, "password"):
		return true
	default:
		return false
	}
}

// Redact masks values of sensitive keys.
func Redact(fields map[string]interface{}) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if IsSensitive(k) {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = v
	}
	return out
}

// WithFields returns an entry carrying redacted fields. It falls back to a
// discarding logger when Init has not run.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	l := Logger
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	return l.WithFields(Redact(fields))
}

func Debugf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Debugf(format, args...)
	}
}

func Info(args ...interface{}) {
	if Logger != nil {
		Logger.Info(args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Infof(format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Warnf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Errorf(format, args...)
	}
}

func Fatalf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Fatalf(format, args...)
	}
	os.Exit(1)
}
