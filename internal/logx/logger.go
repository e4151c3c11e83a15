// Package logx wraps logrus with the small set of conveniences the rest of
// the registry relies on: a WithFunc() that stamps the caller's function
// name onto every entry, and constructors driven by plain config values
// instead of a global.
package logx

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config selects the logger's level and output format.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "text"
	Pretty bool   // force colors on text output
}

// Logger is a thin wrapper around *logrus.Logger adding caller-aware fields.
type Logger struct {
	*logrus.Logger
}

// New builds a Logger from Config, defaulting to info/text on bad input.
func New(cfg Config) *Logger {
	base := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	switch cfg.Format {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.Pretty,
		})
	}

	return &Logger{Logger: base}
}

// WithFunc attaches the calling function's short name as a "func" field.
func (l *Logger) WithFunc() *logrus.Entry {
	name := "unknown"
	if pc, _, _, ok := runtime.Caller(1); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			full := fn.Name()
			if idx := strings.LastIndex(full, "."); idx != -1 {
				name = full[idx+1:]
			} else {
				name = full
			}
		}
	}
	return l.WithField("func", name)
}
