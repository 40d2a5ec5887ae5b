package runtime

import (
	"context"
	"fmt"
	"unicode/utf8"

	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	"github.com/drblury/mqlog/internal/runtime/jsoncodec"
	"github.com/drblury/mqlog/internal/runtime/serializer"
)

// Channel binds a Publisher to one destination.
type Channel struct {
	name      string
	publisher Publisher
}

// NewChannel returns a channel publishing to destination name.
func NewChannel(name string, publisher Publisher) *Channel {
	return &Channel{name: name, publisher: publisher}
}

// Name returns the destination name.
func (c *Channel) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

func (c *Channel) String() string {
	return "<Channel destination: " + c.Name() + ">"
}

// Send encodes message and publishes it once. Serializable values are
// converted with serializer.ToMap first, byte slices must be valid UTF-8 and
// are sent as text, and anything else (maps included) is encoded as is.
// Publish errors are returned unchanged.
func (c *Channel) Send(ctx context.Context, message any) error {
	if c == nil {
		return errspkg.ErrChannelRequired
	}
	if c.publisher == nil {
		return errspkg.ErrPublisherRequired
	}

	payload, err := Encode(message)
	if err != nil {
		return err
	}
	return c.publisher.Publish(ctx, c.name, payload)
}

// Encode produces the wire form of a message as Channel.Send would.
func Encode(message any) ([]byte, error) {
	value := message
	switch v := message.(type) {
	case serializer.Serializable:
		value = serializer.ToMap(v)
	case []byte:
		if !utf8.Valid(v) {
			return nil, errspkg.ErrInvalidUTF8Payload
		}
		value = string(v)
	}

	payload, err := jsoncodec.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("mqlog: encode message: %w", err)
	}
	return payload, nil
}
