// Package http provides an HTTP transport for mqlog. Each published message
// is POSTed to the configured base URL with the destination appended.
package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-http/v2/pkg/http"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/mqlog/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "http"

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(config http.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return http.NewPublisher(config, logger)
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(addr string, config http.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return http.NewSubscriber(addr, config, logger)
}

func init() {
	Register()
}

// Register registers the HTTP transport with the default registry.
func Register() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.HTTPCapabilities)
}

// DestinationURL joins the publisher base URL and a destination name with
// exactly one slash.
func DestinationURL(base, destination string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(destination, "/")
}

// Build creates a new HTTP transport. The subscriber side runs an HTTP
// server on the configured address and is only started when requested.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	publisherURL := cfg.GetHTTPPublisherURL()

	publisher, err := PublisherFactory(
		http.PublisherConfig{
			MarshalMessageFunc: func(topic string, msg *message.Message) (*nethttp.Request, error) {
				req, err := http.DefaultMarshalMessageFunc(DestinationURL(publisherURL, topic), msg)
				if err != nil {
					return nil, err
				}
				req.Header.Set("Content-Type", "application/json")
				return req, nil
			},
		},
		logger,
	)
	if err != nil {
		return transport.Transport{}, err
	}

	return transport.WithOptionalSubscriber(cfg, publisher, func() (message.Subscriber, error) {
		subscriber, err := SubscriberFactory(cfg.GetHTTPServerAddress(), http.SubscriberConfig{
			UnmarshalMessageFunc: http.DefaultUnmarshalMessageFunc,
		}, logger)
		if err != nil {
			return nil, err
		}
		if s, ok := subscriber.(*http.Subscriber); ok {
			go serve(s, logger)
		}
		return subscriber, nil
	})
}

func serve(s *http.Subscriber, logger watermill.LoggerAdapter) {
	if err := s.StartHTTPServer(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		logger.Error("http subscriber server stopped", err, nil)
	}
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.HTTPCapabilities
}
