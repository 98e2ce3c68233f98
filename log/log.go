// Package log provides a small structured logging facility with four levels
// and per-component loggers.
package log

import (
	"fmt"
	"maps"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/buildlens/core/encoding/json"
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

var levelNames = []string{
	"SILENT",
	"ERROR",
	"WARN",
	"INFO",
	"DEBUG",
}

// String returns a string representing the log level.
func (level Level) String() string {
	if level > Ldebug {
		return "UNKNOWN"
	}

	return levelNames[level]
}

func (level *Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(level.String())
}

// ParseLevel converts a level name (silent, error, warn, info, debug) into a Level.
// Unknown names yield Linfo and false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silent":
		return Lsilent, true
	case "error":
		return Lerror, true
	case "warn", "warning":
		return Lwarn, true
	case "info":
		return Linfo, true
	case "debug":
		return Ldebug, true
	}

	return Linfo, false
}

type Fields map[string]interface{}

// Logger writes structured messages to an output.
//
// A message is written if its level has the same or a higher severity than
// the level of the output. The component names who wrote the message.
type Logger interface {
	// WithOutput returns a Logger that writes to w.
	WithOutput(w Writer) Logger

	// WithComponent returns a Logger for another component.
	WithComponent(component string) Logger

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger

	// WithError adds the error as field "error". A nil error is ignored.
	WithError(err error) Logger

	// Log writes the message. The message is formatted according to fmt.Sprintf
	// if args are given. The default level is debug.
	Log(format string, args ...interface{})

	Debug() Logger
	Info() Logger
	Warn() Logger
	Error() Logger

	// Write implements io.Writer. Each write is logged as one debug message.
	Write(p []byte) (int, error)

	Close()
}

type logger struct {
	output     Writer
	component  string
	modulePath string
}

// New returns a Logger for the given component without any output.
func New(component string) Logger {
	l := &logger{
		component: component,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		l.modulePath = info.Path
	}

	return l
}

func (l *logger) Close() {
	if l.output != nil {
		l.output.Close()
	}
}

func (l *logger) clone() *logger {
	return &logger{
		output:     l.output,
		component:  l.component,
		modulePath: l.modulePath,
	}
}

func (l *logger) WithOutput(w Writer) Logger {
	clone := l.clone()
	clone.output = w

	return clone
}

func (l *logger) WithComponent(component string) Logger {
	clone := l.clone()
	clone.component = component

	return clone
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return newEvent(l).WithField(key, value)
}

func (l *logger) WithFields(f Fields) Logger {
	return newEvent(l).WithFields(f)
}

func (l *logger) WithError(err error) Logger {
	return newEvent(l).WithError(err)
}

func (l *logger) Log(format string, args ...interface{}) {
	newEvent(l).Log(format, args...)
}

func (l *logger) Debug() Logger { return newEvent(l).Debug() }
func (l *logger) Info() Logger  { return newEvent(l).Info() }
func (l *logger) Warn() Logger  { return newEvent(l).Warn() }
func (l *logger) Error() Logger { return newEvent(l).Error() }

func (l *logger) Write(p []byte) (int, error) {
	return newEvent(l).Write(p)
}

// Event is a single log message.
type Event struct {
	logger *logger

	Time      time.Time
	Level     Level
	Component string
	Caller    string
	Message   string

	Data Fields
}

func newEvent(l *logger) *Event {
	return &Event{
		logger:    l,
		Component: l.component,
		Data:      Fields{},
	}
}

func (e *Event) clone() *Event {
	return &Event{
		logger:    e.logger,
		Time:      e.Time,
		Level:     e.Level,
		Component: e.Component,
		Caller:    e.Caller,
		Message:   e.Message,
		Data:      maps.Clone(e.Data),
	}
}

func (e *Event) Close() {
	e.logger.Close()
}

func (e *Event) WithOutput(w Writer) Logger {
	return e.logger.WithOutput(w)
}

func (e *Event) WithComponent(component string) Logger {
	clone := e.clone()
	clone.Component = component

	return clone
}

// maxFields caps the number of fields of a single event.
const maxFields = 256

func (e *Event) WithField(key string, value interface{}) Logger {
	return e.WithFields(Fields{key: value})
}

func (e *Event) WithFields(f Fields) Logger {
	if len(e.Data)+len(f) > maxFields {
		return e
	}

	clone := e.clone()

	for k, v := range f {
		clone.Data[k] = v
	}

	return clone
}

func (e *Event) WithError(err error) Logger {
	if err == nil {
		return e
	}

	return e.WithFields(Fields{
		"error": err,
	})
}

func (e *Event) withLevel(level Level) Logger {
	clone := e.clone()
	clone.Level = level

	return clone
}

func (e *Event) Debug() Logger { return e.withLevel(Ldebug) }
func (e *Event) Info() Logger  { return e.withLevel(Linfo) }
func (e *Event) Warn() Logger  { return e.withLevel(Lwarn) }
func (e *Event) Error() Logger { return e.withLevel(Lerror) }

func (e *Event) Log(format string, args ...interface{}) {
	if e.logger.output == nil {
		return
	}

	_, file, line, _ := runtime.Caller(1)
	file = strings.TrimPrefix(file, e.logger.modulePath)

	n := e.clone()
	n.logger = nil
	n.Time = time.Now()
	n.Caller = fmt.Sprintf("%s:%d", file, line)

	if n.Level == Lsilent {
		n.Level = Ldebug
	}

	if len(args) == 0 {
		n.Message = format
	} else {
		n.Message = fmt.Sprintf(format, args...)
	}

	e.logger.output.Write(n)
}

func (e *Event) Write(p []byte) (int, error) {
	e.Log("%s", strings.TrimSpace(string(p)))

	return len(p), nil
}
