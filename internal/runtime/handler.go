package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/drblury/mqlog/internal/runtime/config"
	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	"github.com/drblury/mqlog/internal/runtime/logging"
	"github.com/drblury/mqlog/internal/runtime/logmessage"
	"github.com/drblury/mqlog/internal/runtime/record"
	"github.com/drblury/mqlog/internal/runtime/serializer"
	transportpkg "github.com/drblury/mqlog/internal/runtime/transport"
)

// Keys of the wrapped wire mapping.
const (
	KeyLog     = "log"
	KeyMessage = "msg"
)

// Stage names the step of Emit that failed.
type Stage string

const (
	StagePrepare   Stage = "prepare"
	StageResolve   Stage = "resolve"
	StageNormalize Stage = "normalize"
	StageSend      Stage = "send"
)

// EmitError is the single error a failed Emit hands to the ErrorHandler.
type EmitError struct {
	Stage Stage
	Err   error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("mqlog: emit failed during %s: %v", e.Stage, e.Err)
}

func (e *EmitError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives records that could not be delivered. It is called at
// most once per record.
type ErrorHandler func(rec *record.Record, err *EmitError)

// DefaultErrorHandler writes a short diagnostic to os.Stderr.
func DefaultErrorHandler(rec *record.Record, err *EmitError) {
	WriteErrorTo(os.Stderr)(rec, err)
}

// WriteErrorTo returns an ErrorHandler writing diagnostics to w.
func WriteErrorTo(w io.Writer) ErrorHandler {
	return func(rec *record.Record, err *EmitError) {
		origin, template := "<nil>", ""
		if rec != nil {
			origin, template = rec.Origin(), rec.Template
		}
		_, _ = fmt.Fprintf(w, "--- Logging error ---\n%v\nRecord: %s %q\n", err, origin, template)
	}
}

// Handler turns raw log records into normalized log messages and sends them
// through a Channel. Every record runs prepare, resolve, normalize and send
// on the caller's goroutine.
type Handler struct {
	channel      *Channel
	errorHandler ErrorHandler
	logger       logging.ServiceLogger
	factory      transportpkg.Factory
	registerer   prometheus.Registerer
	metrics      *HandlerMetrics
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(fn ErrorHandler) HandlerOption {
	return func(h *Handler) {
		if fn != nil {
			h.errorHandler = fn
		}
	}
}

// WithLogger sets the logger for mqlog's own warnings. It defaults to
// slog.Default().
func WithLogger(logger logging.ServiceLogger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetrics registers handler counters with registerer.
func WithMetrics(registerer prometheus.Registerer) HandlerOption {
	return func(h *Handler) { h.registerer = registerer }
}

// WithTransportFactory sets the factory used by NewHandlerFromParams.
func WithTransportFactory(factory transportpkg.Factory) HandlerOption {
	return func(h *Handler) {
		if factory != nil {
			h.factory = factory
		}
	}
}

// NewHandler returns a handler sending through ch. A nil ch is allowed; every
// record then fails at the send stage.
func NewHandler(ch *Channel, opts ...HandlerOption) *Handler {
	h := &Handler{
		channel:      ch,
		errorHandler: DefaultErrorHandler,
		logger:       logging.NewSlogServiceLogger(slog.Default()),
		factory:      transportpkg.DefaultFactory(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registerer != nil {
		metrics, err := NewHandlerMetrics(h.registerer)
		if err != nil {
			h.logger.Warn("mqlog: handler metrics disabled", err, nil)
		}
		h.metrics = metrics
	}
	return h
}

// NewHandlerFromParams is NewHandler with the optional configuration path.
// When params is non-nil and ch is nil, params are decoded into a
// config.Config, a transport is built and its publisher becomes the channel.
// A failure is logged as a warning and the handler keeps ch. params is never
// modified.
func NewHandlerFromParams(ctx context.Context, params map[string]any, ch *Channel, opts ...HandlerOption) *Handler {
	h := NewHandler(ch, opts...)
	if params == nil || ch != nil {
		return h
	}

	configured, err := h.configure(ctx, params)
	if err != nil {
		h.logger.Warn("mqlog: could not configure handler", err, logging.LogFields{"component": "handler"})
		return h
	}
	h.channel = configured
	return h
}

func (h *Handler) configure(ctx context.Context, params map[string]any) (*Channel, error) {
	cfg, err := config.FromParams(params)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	t, caps, err := h.factory.Build(ctx, cfg, logging.NewWatermillAdapter(h.logger))
	if err != nil {
		return nil, fmt.Errorf("mqlog: build %s transport: %w", cfg.PubSubSystem, err)
	}
	if t.Publisher == nil {
		return nil, errspkg.ErrPublisherRequired
	}

	h.logger.Debug("mqlog: handler configured", logging.LogFields{
		"destination":   cfg.Channel,
		"pubsub_system": caps.Name,
	})
	return NewChannel(cfg.Channel, NewWatermillPublisher(t.Publisher, WithMaxMessageSize(caps.MaxMessageSize))), nil
}

// Channel returns the channel records are sent through, or nil.
func (h *Handler) Channel() *Channel {
	return h.channel
}

// Emit processes one record. It never returns an error and never panics;
// failures go to the ErrorHandler exactly once. A hung publish blocks Emit.
func (h *Handler) Emit(ctx context.Context, rec *record.Record) {
	if ctx == nil {
		ctx = context.Background()
	}
	destination := h.channel.Name()

	if err := h.emit(ctx, rec); err != nil {
		h.metrics.recordFailure(destination, err.Stage)
		h.handleError(rec, err)
		return
	}
	h.metrics.recordSent(destination)
}

// Close is a no-op. The handler does not own the publisher.
func (h *Handler) Close() error {
	return nil
}

func (h *Handler) emit(ctx context.Context, rec *record.Record) (emitErr *EmitError) {
	stage := StagePrepare
	defer func() {
		if r := recover(); r != nil {
			emitErr = &EmitError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if rec == nil {
		return &EmitError{Stage: stage, Err: errspkg.ErrRecordRequired}
	}
	prepare(rec)

	stage = StageResolve
	msg := resolve(rec)

	stage = StageNormalize
	wrapped := normalize(msg, rec.Message)

	stage = StageSend
	if err := h.channel.Send(ctx, wrapped); err != nil {
		return &EmitError{Stage: stage, Err: err}
	}
	return nil
}

func (h *Handler) handleError(rec *record.Record, err *EmitError) {
	defer func() {
		// A failing error handler must not reach the logging call site.
		_ = recover()
	}()
	h.errorHandler(rec, err)
}

// prepare renders the message and drops the arguments and attached error,
// which do not cross the serialization boundary.
func prepare(rec *record.Record) {
	rec.Message = rec.Render()
	rec.Args = nil
	rec.Err = nil
}

// resolve picks the message fields from the record's metadata, falling back
// to the record itself.
func resolve(rec *record.Record) *logmessage.LogMessage {
	logType := rec.Origin()
	if v := firstPresent(rec, record.KeyLogType, record.KeyType); v != nil {
		logType = fmt.Sprint(v)
	}

	timestamp := firstPresent(rec, record.KeyDatetime)
	if timestamp == nil && rec.Created != 0 {
		timestamp = rec.Created
	}

	msg := logmessage.New(
		logmessage.WithLogType(logType),
		logmessage.WithLevel(logmessage.Level(rec.Level)),
		logmessage.WithStatusCode(lookup(rec, record.KeyStatusCode)),
		logmessage.WithTimestamp(timestamp),
	)
	msg.ObjectName = optionalText(lookup(rec, record.KeyObjectName))
	msg.ObjectID = optionalText(lookup(rec, record.KeyObjectID))
	msg.Message = rec.Message
	return msg
}

// normalize serializes msg, adds the rendered text under "msg" and wraps the
// result under "log".
func normalize(msg *logmessage.LogMessage, text string) map[string]any {
	fields := serializer.ToMap(msg)
	fields[KeyMessage] = text
	return map[string]any{KeyLog: fields}
}

func lookup(rec *record.Record, key string) any {
	v, _ := rec.Lookup(key)
	return v
}

// firstPresent returns the first metadata value among keys that is set and
// not a zero value.
func firstPresent(rec *record.Record, keys ...string) any {
	for _, key := range keys {
		v, ok := rec.Lookup(key)
		if !ok || v == nil {
			continue
		}
		if rv := reflect.ValueOf(v); rv.IsZero() {
			continue
		}
		return v
	}
	return nil
}

// optionalText keeps strings as they are and renders other values with
// fmt.Sprint; nil stays unset.
func optionalText(v any) *string {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return &s
}
