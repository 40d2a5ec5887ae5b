package runtime

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	"github.com/drblury/mqlog/internal/runtime/jsoncodec"
	"github.com/drblury/mqlog/internal/runtime/logging"
	metadatapkg "github.com/drblury/mqlog/internal/runtime/metadata"
)

// ReceivedLog is a published log message read back from a destination.
type ReceivedLog struct {
	UUID     string
	Metadata metadatapkg.Metadata
	Log      WireLog
}

// WireLog is the decoded "log" object of the wire format.
type WireLog struct {
	LogType    *string `json:"logType"`
	ObjectName *string `json:"objectName"`
	ObjectID   *string `json:"objectId"`
	Level      *int    `json:"level"`
	StatusCode any     `json:"statusCode"`
	Timestamp  any     `json:"timestamp"`
	Message    string  `json:"msg"`
}

type wireEnvelope struct {
	Log *WireLog `json:"log"`
}

// TailFunc handles one received log message. Returning an error nacks the
// message.
type TailFunc func(ctx context.Context, log ReceivedLog) error

// DecodeLog parses a wire payload. Payloads without a "log" object are
// rejected.
func DecodeLog(payload []byte) (WireLog, error) {
	var env wireEnvelope
	if err := jsoncodec.Unmarshal(payload, &env); err != nil {
		return WireLog{}, fmt.Errorf("mqlog: decode log message: %w", err)
	}
	if env.Log == nil {
		return WireLog{}, fmt.Errorf("mqlog: decode log message: missing %q object", KeyLog)
	}
	return *env.Log, nil
}

// Tail subscribes to destination and calls fn for every log message until ctx
// is done or the subscription closes. Messages that do not decode are logged
// and acked so they do not block the stream.
func Tail(ctx context.Context, sub message.Subscriber, destination string, fn TailFunc, logger logging.ServiceLogger) error {
	if sub == nil {
		return errspkg.ErrSubscriberRequired
	}
	if fn == nil {
		return errspkg.ErrHandlerRequired
	}
	if logger == nil {
		logger = logging.NopServiceLogger()
	}

	messages, err := sub.Subscribe(ctx, destination)
	if err != nil {
		return fmt.Errorf("mqlog: subscribe to %s: %w", destination, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			handleTailMessage(ctx, msg, fn, logger)
		}
	}
}

func handleTailMessage(ctx context.Context, msg *message.Message, fn TailFunc, logger logging.ServiceLogger) {
	fields := logging.LogFields{"message_uuid": msg.UUID}

	decoded, err := DecodeLog(msg.Payload)
	if err != nil {
		logger.Warn("mqlog: skipping undecodable message", err, fields)
		msg.Ack()
		return
	}

	received := ReceivedLog{
		UUID:     msg.UUID,
		Metadata: metadatapkg.FromWatermill(msg.Metadata),
		Log:      decoded,
	}
	if err := fn(ctx, received); err != nil {
		logger.Error("mqlog: tail handler failed", err, fields)
		msg.Nack()
		return
	}
	msg.Ack()
}
