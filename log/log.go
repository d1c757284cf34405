// Package log provides an opiniated logging facility with 4 log levels,
// backed by go.uber.org/zap.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents a log level
type Level uint

const (
	Lsilent Level = 0
	Lerror  Level = 1
	Lwarn   Level = 2
	Linfo   Level = 3
	Ldebug  Level = 4
)

// String returns a string representing the log level.
func (level Level) String() string {
	names := []string{
		"SILENT",
		"ERROR",
		"WARN",
		"INFO",
		"DEBUG",
	}

	if level > Ldebug {
		return "UNKNOWN"
	}

	return names[level]
}

func (level Level) zap() zapcore.Level {
	switch level {
	case Lerror:
		return zapcore.ErrorLevel
	case Lwarn:
		return zapcore.WarnLevel
	case Linfo:
		return zapcore.InfoLevel
	case Ldebug:
		return zapcore.DebugLevel
	}

	// Silent: nothing passes the filter.
	return zapcore.FatalLevel + 1
}

type Fields map[string]interface{}

// Logger is an interface that provides means for writing log messages.
//
// There are 4 log levels available (debug, info, warn, error) with
// increasing severity. The component is a string that represents who
// wrote the message.
type Logger interface {
	// WithOutput returns a new Logger that writes to the provided
	// writer with the provided level.
	WithOutput(w io.Writer, level Level) Logger

	// WithComponent returns a new Logger with the given component.
	WithComponent(component string) Logger

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger

	WithError(err error) Logger

	// Debug writes a message with the debug log level. The message
	// will be formatted according to fmt.Printf().
	Debug(format string, args ...interface{})

	// Info writes a message with the info log level.
	Info(format string, args ...interface{})

	// Warn writes a message with the warn log level.
	Warn(format string, args ...interface{})

	// Error writes a message with the error log level.
	Error(format string, args ...interface{})
}

// logger is an implementation of the Logger interface.
type logger struct {
	sugar     *zap.SugaredLogger
	component string
	fields    []interface{}
}

// New returns an implementation of the Logger interface that writes
// to stderr with the info level.
func New(component string) Logger {
	return &logger{
		sugar:     newSugar(os.Stderr, Linfo),
		component: component,
	}
}

func newSugar(w io.Writer, level Level) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level.zap(),
	)

	return zap.New(core).Sugar()
}

func (l *logger) clone() *logger {
	clone := &logger{
		sugar:     l.sugar,
		component: l.component,
	}

	clone.fields = append(clone.fields, l.fields...)

	return clone
}

func (l *logger) WithOutput(w io.Writer, level Level) Logger {
	clone := l.clone()
	clone.sugar = newSugar(w, level)

	return clone
}

func (l *logger) WithComponent(component string) Logger {
	clone := l.clone()
	clone.component = component

	return clone
}

func (l *logger) WithField(key string, value interface{}) Logger {
	clone := l.clone()
	clone.fields = append(clone.fields, key, value)

	return clone
}

func (l *logger) WithFields(fields Fields) Logger {
	clone := l.clone()

	for key, value := range fields {
		clone.fields = append(clone.fields, key, value)
	}

	return clone
}

func (l *logger) WithError(err error) Logger {
	return l.WithField("error", err)
}

func (l *logger) emit() *zap.SugaredLogger {
	sugar := l.sugar

	if len(l.component) != 0 {
		sugar = sugar.With("component", l.component)
	}

	if len(l.fields) != 0 {
		sugar = sugar.With(l.fields...)
	}

	return sugar
}

func (l *logger) Debug(format string, args ...interface{}) {
	l.emit().Debugf(format, args...)
}

func (l *logger) Info(format string, args ...interface{}) {
	l.emit().Infof(format, args...)
}

func (l *logger) Warn(format string, args ...interface{}) {
	l.emit().Warnf(format, args...)
}

func (l *logger) Error(format string, args ...interface{}) {
	l.emit().Errorf(format, args...)
}
