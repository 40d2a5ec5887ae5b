package runtime

import (
	"context"
	"log/slog"
	goruntime "runtime"
	"strings"

	"github.com/drblury/mqlog/internal/runtime/logmessage"
	"github.com/drblury/mqlog/internal/runtime/record"
)

// DefaultLoggerName is the record name used when a source does not name its
// logger.
const DefaultLoggerName = "root"

// LoggerNameKey is the attribute key that overrides the record name.
const LoggerNameKey = "logger"

// SlogHandlerOptions configures a SlogHandler.
type SlogHandlerOptions struct {
	// Level is the minimum level handled. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// LevelMapper converts slog levels to record levels. Defaults to SlogLevel.
	LevelMapper func(slog.Level) int
	// Name is the record name when no "logger" attribute is present.
	Name string
}

// SlogHandler is a slog.Handler that forwards every record to a Handler.
type SlogHandler struct {
	handler *Handler
	opts    SlogHandlerOptions
	attrs   []slog.Attr
	groups  []string
}

// NewSlogHandler returns a slog.Handler emitting through h. A nil h is
// replaced by a handler without a channel.
func NewSlogHandler(h *Handler, opts *SlogHandlerOptions) *SlogHandler {
	if h == nil {
		h = NewHandler(nil)
	}
	s := &SlogHandler{handler: h}
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.Level == nil {
		s.opts.Level = slog.LevelInfo
	}
	if s.opts.LevelMapper == nil {
		s.opts.LevelMapper = SlogLevel
	}
	if s.opts.Name == "" {
		s.opts.Name = DefaultLoggerName
	}
	return s
}

// SlogLevel maps a slog level to the log level enum.
func SlogLevel(level slog.Level) int {
	switch {
	case level >= slog.LevelError+4:
		return int(logmessage.LevelCritical)
	case level >= slog.LevelError:
		return int(logmessage.LevelError)
	case level >= slog.LevelWarn:
		return int(logmessage.LevelWarning)
	case level >= slog.LevelInfo:
		return int(logmessage.LevelInfo)
	default:
		return int(logmessage.LevelDebug)
	}
}

func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.opts.Level.Level()
}

// Handle converts r and emits it. Delivery failures go to the handler's
// ErrorHandler, so Handle always returns nil.
func (s *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := &record.Record{
		Name:     s.opts.Name,
		Level:    s.opts.LevelMapper(r.Level),
		Template: r.Message,
		Extra:    make(map[string]any, len(s.attrs)+r.NumAttrs()),
	}
	if !r.Time.IsZero() {
		rec.Created = record.Epoch(r.Time)
	}
	rec.Func, rec.Line = caller(r.PC)

	prefix := strings.Join(s.groups, ".")
	for _, a := range s.attrs {
		flatten(rec.Extra, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(rec.Extra, prefix, a)
		return true
	})

	if name, ok := rec.Extra[LoggerNameKey].(string); ok && name != "" {
		rec.Name = name
	}

	s.handler.Emit(ctx, rec)
	return nil
}

func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	next := s.clone()
	prefix := strings.Join(s.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a = slog.Group(prefix, a)
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	next := s.clone()
	next.groups = append(next.groups, name)
	return next
}

func (s *SlogHandler) clone() *SlogHandler {
	return &SlogHandler{
		handler: s.handler,
		opts:    s.opts,
		attrs:   append([]slog.Attr(nil), s.attrs...),
		groups:  append([]string(nil), s.groups...),
	}
}

// flatten writes a into extra, joining group keys with ".".
func flatten(extra map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			flatten(extra, key, ga)
		}
		return
	}
	extra[key] = a.Value.Any()
}

// caller resolves the function name and line of pc. The function name is
// reduced to its unqualified form.
func caller(pc uintptr) (string, int) {
	if pc == 0 {
		return "", 0
	}
	frame, _ := goruntime.CallersFrames([]uintptr{pc}).Next()
	return shortFuncName(frame.Function), frame.Line
}

func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
