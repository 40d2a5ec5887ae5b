// Package transport turns a pubsub system name into the Watermill publisher
// log messages go out through. Every backend lives in its own sub-package and
// registers a Builder from init; import transport/transports to get them all.
package transport

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Transport is what a Builder produces. Subscriber is nil unless the config
// asked for one.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// Close closes the publisher and then the subscriber, unless both are the same
// value. The first error wins.
func (t Transport) Close() error {
	var firstErr error
	if t.Publisher != nil {
		firstErr = t.Publisher.Close()
	}
	if t.Subscriber != nil && any(t.Subscriber) != any(t.Publisher) {
		if err := t.Subscriber.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Builder creates a transport from config.
type Builder func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error)

// WithOptionalSubscriber completes a transport around publisher. When cfg does
// not ask for a subscriber, newSubscriber is never called. When it fails, the
// publisher is closed and the error returned.
func WithOptionalSubscriber(cfg Config, publisher message.Publisher, newSubscriber func() (message.Subscriber, error)) (Transport, error) {
	if !cfg.GetSubscriberEnabled() {
		return Transport{Publisher: publisher}, nil
	}
	subscriber, err := newSubscriber()
	if err != nil {
		_ = publisher.Close()
		return Transport{}, err
	}
	return Transport{Publisher: publisher, Subscriber: subscriber}, nil
}

// Config is the read-only view of the settings a builder needs.
type Config interface {
	GetPubSubSystem() string
	// GetSubscriberEnabled reports whether a subscriber should be built next
	// to the publisher.
	GetSubscriberEnabled() bool

	GetKafkaBrokers() []string
	GetKafkaConsumerGroup() string

	GetRabbitMQURL() string

	GetNATSURL() string

	GetHTTPServerAddress() string
	GetHTTPPublisherURL() string

	GetIOFile() string

	GetAWSRegion() string
	GetAWSAccountID() string
	GetAWSAccessKeyID() string
	GetAWSSecretAccessKey() string
	GetAWSEndpoint() string
}
