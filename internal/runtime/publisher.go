package runtime

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	idspkg "github.com/drblury/mqlog/internal/runtime/ids"
	metadatapkg "github.com/drblury/mqlog/internal/runtime/metadata"
)

// TracerName names the tracer used for publish spans.
const TracerName = "github.com/drblury/mqlog"

// Publisher delivers an encoded payload to a named destination. Errors are
// returned to the caller unchanged.
type Publisher interface {
	Publish(ctx context.Context, destination string, payload []byte) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, destination string, payload []byte) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, destination string, payload []byte) error {
	return f(ctx, destination, payload)
}

// WatermillPublisher publishes payloads through a Watermill publisher, one
// message per call.
type WatermillPublisher struct {
	publisher      message.Publisher
	tracer         trace.Tracer
	maxMessageSize int64
}

// WatermillPublisherOption configures a WatermillPublisher.
type WatermillPublisherOption func(*WatermillPublisher)

// WithMaxMessageSize rejects payloads larger than size bytes before they
// reach the transport. Zero disables the check.
func WithMaxMessageSize(size int64) WatermillPublisherOption {
	return func(p *WatermillPublisher) { p.maxMessageSize = size }
}

// WithTracer sets the tracer used for publish spans.
func WithTracer(tracer trace.Tracer) WatermillPublisherOption {
	return func(p *WatermillPublisher) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// NewWatermillPublisher wraps pub. The Watermill publisher's lifecycle stays
// with the caller.
func NewWatermillPublisher(pub message.Publisher, opts ...WatermillPublisherOption) *WatermillPublisher {
	p := &WatermillPublisher{
		publisher: pub,
		tracer:    otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish wraps payload in a Watermill message and publishes it on
// destination inside a producer span.
func (p *WatermillPublisher) Publish(ctx context.Context, destination string, payload []byte) error {
	if p == nil || p.publisher == nil {
		return errspkg.ErrPublisherRequired
	}
	if destination == "" {
		return errspkg.ErrTopicRequired
	}
	if p.maxMessageSize > 0 && int64(len(payload)) > p.maxMessageSize {
		return fmt.Errorf("%w: %d bytes, limit %d", errspkg.ErrPayloadTooLarge, len(payload), p.maxMessageSize)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := p.tracer.Start(ctx, "mqlog.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", destination),
			attribute.Int("messaging.message.body.size", len(payload)),
		),
	)
	defer span.End()

	msg := NewWatermillMessage(ctx, destination, payload)
	if err := p.publisher.Publish(destination, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// NewWatermillMessage builds the transport message for an encoded log
// message: a ULID id, JSON content metadata, and the trace and span ids of
// the span active in ctx.
func NewWatermillMessage(ctx context.Context, destination string, payload []byte) *message.Message {
	if ctx == nil {
		ctx = context.Background()
	}

	md := metadatapkg.ForLogMessage(destination)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		md = md.With(metadatapkg.KeyTraceID, sc.TraceID().String()).
			With(metadatapkg.KeySpanID, sc.SpanID().String())
	}

	msg := message.NewMessage(idspkg.NewMessageID(), payload)
	msg.Metadata = metadatapkg.ToWatermill(md)
	msg.SetContext(ctx)
	return msg
}
