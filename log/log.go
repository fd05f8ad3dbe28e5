package log

import (
	"io"
	"os"

	"github.com/harlequix/secded/internal/encoding"
	log "github.com/sirupsen/logrus"
)

// Logger is a module scoped logrus entry.
type Logger struct {
	*log.Entry
}

var base = newBase()

func newBase() *log.Logger {
	l := log.New()
	l.SetFormatter(&log.TextFormatter{
		DisableColors:    false,
		DisableTimestamp: false,
	})
	// stdout carries encoded and decoded data
	l.SetOutput(os.Stderr)
	l.SetLevel(log.ErrorLevel)
	return l
}

// NewLogger returns a logger tagged with the module name. All loggers share
// one base so SetVerbosity and AddTracer apply to every module.
func NewLogger(module string) *Logger {
	return &Logger{base.WithField("name", module)}
}

// Base exposes the shared logrus logger.
func Base() *log.Logger {
	return base
}

// SetOutput redirects every module logger.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// LevelFor maps a verbosity ordinal onto a logrus level.
func LevelFor(v encoding.Verbosity) log.Level {
	switch {
	case v <= encoding.Quiet:
		return log.ErrorLevel
	case v == encoding.OnlyErrors:
		return log.WarnLevel
	case v == encoding.Results:
		return log.InfoLevel
	default:
		return log.TraceLevel
	}
}

// SetVerbosity sets the level of every module logger.
func SetVerbosity(v encoding.Verbosity) {
	base.SetLevel(LevelFor(v))
}

// With returns a child logger carrying an extra field.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{l.WithField(key, value)}
}
