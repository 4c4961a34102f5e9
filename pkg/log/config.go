package log

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// OutputConfig selects one output. Type is "console", "file" or "null".
type OutputConfig struct {
	Type string `json:"type" yaml:"type"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config declares a logger.
type Config struct {
	Level  string         `json:"level" yaml:"level"`
	Format string         `json:"format" yaml:"format"`
	Output []OutputConfig `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	// RedactKeys are replaced with "[REDACTED]" in every record.
	RedactKeys []string `json:"redactKeys,omitempty" yaml:"redactKeys,omitempty"`

	// SampleInitial and SampleThereafter enable per-message sampling when
	// SampleThereafter > 0.
	SampleInitial    int `json:"sampleInitial,omitempty" yaml:"sampleInitial,omitempty"`
	SampleThereafter int `json:"sampleThereafter,omitempty" yaml:"sampleThereafter,omitempty"`
}

// ParseLevel maps a level name to a Level. The empty string is info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// ApplyConfig builds a logger from cfg and installs it as the default.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	opts := []LoggerOption{WithLevel(level), WithFormatter(formatter)}
	for _, oc := range cfg.Output {
		switch strings.ToLower(oc.Type) {
		case "", "console":
			opts = append(opts, WithOutput(NewConsoleOutput()))
		case "file":
			if oc.Path == "" {
				return nil, fmt.Errorf("log: file output requires a path")
			}
			fo, err := NewFileOutput(oc.Path)
			if err != nil {
				return nil, fmt.Errorf("log: open %s: %w", oc.Path, err)
			}
			opts = append(opts, WithOutput(fo))
		case "null":
			opts = append(opts, WithOutput(NullOutput{}))
		default:
			return nil, fmt.Errorf("log: unknown output type %q", oc.Type)
		}
	}

	l := NewLogger(opts...).(*BaseLogger)
	h := newEntryHandler(l).
		withRedactions(cfg.RedactKeys).
		withSampler(cfg.SampleInitial, cfg.SampleThereafter)
	l.slogLogger = slog.New(h)
	SetDefaultLogger(l)
	return l, nil
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewLogger(WithFormatter(&TextFormatter{}))
)

// GetDefaultLogger returns the process-wide logger.
func GetDefaultLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}
