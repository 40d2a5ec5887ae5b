// Package transport builds the watermill publisher a handler publishes
// through, using the registry of the root transport package.
package transport

import (
	"context"
	"strings"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/drblury/mqlog/internal/runtime/config"
	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	"github.com/drblury/mqlog/transport"

	// Import all transport packages to register them.
	_ "github.com/drblury/mqlog/transport/transports"
)

// Factory abstracts how mqlog initialises message transports.
type Factory interface {
	Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (transport.Transport, transport.Capabilities, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (transport.Transport, transport.Capabilities, error)

// Build calls f.
func (f FactoryFunc) Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (transport.Transport, transport.Capabilities, error) {
	return f(ctx, conf, logger)
}

// DefaultFactory returns the built-in transport factory that uses the
// modular transport registry.
func DefaultFactory() Factory {
	return registryFactory{registry: transport.DefaultRegistry}
}

// RegistryFactory builds transports from a specific registry.
func RegistryFactory(registry *transport.Registry) Factory {
	return registryFactory{registry: registry}
}

type registryFactory struct {
	registry *transport.Registry
}

func (f registryFactory) Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (transport.Transport, transport.Capabilities, error) {
	if conf == nil {
		return transport.Transport{}, transport.Capabilities{}, errspkg.ErrConfigRequired
	}

	normalized := *conf
	normalized.PubSubSystem = strings.ToLower(strings.TrimSpace(conf.PubSubSystem))
	if normalized.PubSubSystem == "" {
		normalized.PubSubSystem = config.DefaultPubSubSystem
	}

	t, err := f.registry.Build(ctx, &normalized, logger)
	if err != nil {
		return transport.Transport{}, transport.Capabilities{}, err
	}
	return t, f.registry.GetCapabilities(normalized.PubSubSystem), nil
}
