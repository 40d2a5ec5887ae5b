// Package nats provides a NATS Core transport for mqlog.
package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"

	"github.com/drblury/mqlog/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "nats"

// ConnectionName identifies mqlog connections in NATS monitoring.
const ConnectionName = "mqlog"

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(cfg nats.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return nats.NewPublisher(cfg, logger)
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(cfg nats.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return nats.NewSubscriber(cfg, logger)
}

func init() {
	Register()
}

// Register registers the NATS transport with the default registry.
func Register() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.NATSCapabilities)
}

// connectionOptions keeps a logging connection alive across broker restarts.
func connectionOptions() []nc.Option {
	return []nc.Option{
		nc.Name(ConnectionName),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(time.Second),
	}
}

// Build publishes each destination as a core NATS subject. JetStream is not
// used, so messages published while nobody listens are gone.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	url := cfg.GetNATSURL()
	marshaler := &nats.NATSMarshaler{}
	disabled := nats.JetStreamConfig{Disabled: true}

	publisher, err := PublisherFactory(nats.PublisherConfig{
		URL:         url,
		NatsOptions: connectionOptions(),
		Marshaler:   marshaler,
		JetStream:   disabled,
	}, logger)
	if err != nil {
		return transport.Transport{}, fmt.Errorf("nats publisher: %w", err)
	}

	return transport.WithOptionalSubscriber(cfg, publisher, func() (message.Subscriber, error) {
		return SubscriberFactory(nats.SubscriberConfig{
			URL:         url,
			NatsOptions: connectionOptions(),
			Unmarshaler: marshaler,
			JetStream:   disabled,
		}, logger)
	})
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.NATSCapabilities
}
