package log

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
)

// levelFatal sits above slog's error level so Fatal survives the round trip
// through slog.Record.
const levelFatal = slog.LevelError + 4

// entryHandler is the slog.Handler behind every BaseLogger. It turns records
// into Entries and writes them through the logger's formatter and outputs.
type entryHandler struct {
	logger *BaseLogger
	attrs  []slog.Attr
	prefix string
	redact map[string]struct{}
	sample *sampler
}

func newEntryHandler(logger *BaseLogger) *entryHandler {
	return &entryHandler{logger: logger}
}

func (h *entryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return fromSlogLevel(level) >= h.logger.level
}

func (h *entryHandler) Handle(_ context.Context, r slog.Record) error {
	if h.sample != nil && !h.sample.allow(r.Level, r.Message) {
		return nil
	}
	fields := make(Fields, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		h.put(fields, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.put(fields, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
		return true
	})

	entry := &Entry{
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Fields:    fields,
		Timestamp: r.Time,
		Caller:    callerOf(r.PC),
	}
	formatted, err := h.logger.formatter.Format(entry)
	if err != nil {
		return err
	}
	for _, out := range h.logger.outputs {
		_ = out.Write(entry, formatted)
	}
	return nil
}

func (h *entryHandler) put(fields Fields, a slog.Attr) {
	if _, ok := h.redact[a.Key]; ok {
		fields[a.Key] = "[REDACTED]"
		return
	}
	fields[a.Key] = a.Value.Resolve().Any()
}

func (h *entryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &nh
}

// WithGroup flattens groups into dotted key prefixes.
func (h *entryHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

func (h *entryHandler) withRedactions(keys []string) *entryHandler {
	if len(keys) == 0 {
		return h
	}
	nh := *h
	nh.redact = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		nh.redact[k] = struct{}{}
	}
	return &nh
}

func (h *entryHandler) withSampler(initial, thereafter int) *entryHandler {
	if thereafter <= 0 {
		return h
	}
	nh := *h
	nh.sample = newSampler(initial, thereafter)
	return &nh
}

func callerOf(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return ""
	}
	return f.File + ":" + strconv.Itoa(f.Line)
}

// sampler passes the first initial records of each (level, message) pair,
// then one in every thereafter.
type sampler struct {
	mu         sync.Mutex
	initial    uint64
	thereafter uint64
	seen       map[string]uint64
}

func newSampler(initial, thereafter int) *sampler {
	s := &sampler{thereafter: 1, seen: make(map[string]uint64)}
	if initial > 0 {
		s.initial = uint64(initial)
	}
	if thereafter > 0 {
		s.thereafter = uint64(thereafter)
	}
	return s
}

func (s *sampler) allow(level slog.Level, msg string) bool {
	key := level.String() + "|" + msg
	s.mu.Lock()
	n := s.seen[key]
	s.seen[key] = n + 1
	s.mu.Unlock()
	return n < s.initial || (n-s.initial)%s.thereafter == 0
}

var slogLevels = map[Level]slog.Level{
	DebugLevel: slog.LevelDebug,
	InfoLevel:  slog.LevelInfo,
	WarnLevel:  slog.LevelWarn,
	ErrorLevel: slog.LevelError,
	FatalLevel: levelFatal,
}

func toSlogLevel(level Level) slog.Level {
	if sl, ok := slogLevels[level]; ok {
		return sl
	}
	return slog.LevelInfo
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level >= levelFatal:
		return FatalLevel
	case level >= slog.LevelError:
		return ErrorLevel
	case level >= slog.LevelWarn:
		return WarnLevel
	case level >= slog.LevelInfo:
		return InfoLevel
	default:
		return DebugLevel
	}
}

// attrsOf builds the record attributes for base fields plus call-site fields.
func attrsOf(base Fields, fields []Field) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(base)+len(fields))
	for k, v := range base {
		attrs = append(attrs, slog.Any(k, v))
	}
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	return attrs
}

// pairsOf converts k1, v1, k2, v2, ... into fields. Non-string keys and a
// dangling value are keyed by position.
func pairsOf(args []interface{}) []Field {
	fields := make([]Field, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields = append(fields, F("arg"+strconv.Itoa(i), args[i]))
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = "arg" + strconv.Itoa(i)
		}
		fields = append(fields, F(key, args[i+1]))
	}
	return fields
}
