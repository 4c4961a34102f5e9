package log

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Well-known field keys.
const (
	ComponentKey = "component"
	ConnKey      = "conn"
	ErrorKey     = "error"
)

// Entry represents a single formatted log record.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
}

// Logger is the logging interface handed to every component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})

	// With returns a child logger that adds fields to every record.
	With(fields ...Field) Logger
	WithError(err error) Logger
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter renders an entry to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted entries.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption configures a logger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements Logger on top of a slog handler that feeds the
// formatter and outputs.
type BaseLogger struct {
	level      Level
	fields     Fields
	formatter  Formatter
	outputs    []Output
	slogLogger *slog.Logger
}

// NewLogger creates a new logger with the given options. Without options it
// writes JSON at info level to stderr.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:     InfoLevel,
		fields:    Fields{},
		formatter: &JSONFormatter{},
	}
	for _, option := range options {
		option(logger)
	}
	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}
	logger.slogLogger = slog.New(newEntryHandler(logger))
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.level = level
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		l.formatter = formatter
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) {
		l.outputs = append(l.outputs, output)
	}
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

// Fatal logs at error severity, closes outputs and exits the process.
func (l *BaseLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, fields)
	for _, out := range l.outputs {
		_ = out.Close()
	}
	os.Exit(1)
}

func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.logArgs(DebugLevel, msg, args) }
func (l *BaseLogger) Infof(msg string, args ...interface{})  { l.logArgs(InfoLevel, msg, args) }
func (l *BaseLogger) Warnf(msg string, args ...interface{})  { l.logArgs(WarnLevel, msg, args) }
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.logArgs(ErrorLevel, msg, args) }

// With returns a copy carrying the additional fields.
func (l *BaseLogger) With(fields ...Field) Logger {
	nl := *l
	nl.fields = make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		nl.fields[k] = v
	}
	for _, f := range fields {
		nl.fields[f.Key] = f.Value
	}
	return &nl
}

// WithError attaches err under the "error" key.
func (l *BaseLogger) WithError(err error) Logger { return l.With(Err(err)) }

// WithComponent tags records with a component name.
func (l *BaseLogger) WithComponent(component string) Logger { return l.With(Component(component)) }

// SetLevel sets the minimum level for this logger.
func (l *BaseLogger) SetLevel(level Level) { l.level = level }

// GetLevel returns the minimum level.
func (l *BaseLogger) GetLevel() Level { return l.level }

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	l.emit(level, msg, attrsOf(l.fields, fields))
}

func (l *BaseLogger) logArgs(level Level, msg string, args []interface{}) {
	if level < l.level {
		return
	}
	l.emit(level, msg, attrsOf(l.fields, pairsOf(args)))
}

func (l *BaseLogger) emit(level Level, msg string, attrs []slog.Attr) {
	var pcs [1]uintptr
	// skip runtime.Callers, emit, log/logArgs, and the public method
	runtime.Callers(4, pcs[:])
	r := slog.NewRecord(time.Now(), toSlogLevel(level), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.slogLogger.Handler().Handle(context.Background(), r)
}
