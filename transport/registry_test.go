package transport

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okBuilder(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
	return Transport{
		Publisher:  &mockPublisher{},
		Subscriber: &mockSubscriber{},
	}, nil
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.NotNil(t, reg)
	assert.Empty(t, reg.Names())
}

func TestRegistry_RegisterWithCapabilities(t *testing.T) {
	reg := NewRegistry()

	caps := Capabilities{Name: "test-transport", SupportsOrdering: true, MaxMessageSize: 512}
	reg.RegisterWithCapabilities("test-transport", okBuilder, caps)

	assert.True(t, reg.Has("test-transport"))
	assert.Equal(t, caps, reg.GetCapabilities("test-transport"))
}

func TestRegistry_RegisterDefaultsCapabilities(t *testing.T) {
	reg := NewRegistry()
	reg.Register("plain", okBuilder)

	caps := reg.GetCapabilities("plain")
	assert.Equal(t, "plain", caps.Name)
	assert.Zero(t, caps.MaxMessageSize)
}

func TestRegistry_Build(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test-transport", okBuilder)

	tr, err := reg.Build(context.Background(), &mockConfig{pubSubSystem: "test-transport"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, tr.Publisher)
	assert.NotNil(t, tr.Subscriber)
}

func TestRegistry_BuildPassesNopLogger(t *testing.T) {
	reg := NewRegistry()

	var got watermill.LoggerAdapter
	reg.Register("capture", func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		got = logger
		return Transport{}, nil
	})

	_, err := reg.Build(context.Background(), &mockConfig{pubSubSystem: "capture"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRegistry_Build_NilConfig(t *testing.T) {
	_, err := NewRegistry().Build(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")
}

func TestRegistry_Build_UnknownTransport(t *testing.T) {
	reg := NewRegistry()
	reg.Register("kafka", okBuilder)

	_, err := reg.Build(context.Background(), &mockConfig{pubSubSystem: "redis"}, nil)
	require.ErrorIs(t, err, ErrUnknownTransport)
	assert.Contains(t, err.Error(), `"redis"`)
	assert.Contains(t, err.Error(), "kafka")
}

func TestRegistry_Build_BuilderError(t *testing.T) {
	reg := NewRegistry()

	expectedErr := errors.New("builder error")
	reg.Register("failing", func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Transport, error) {
		return Transport{}, expectedErr
	})

	_, err := reg.Build(context.Background(), &mockConfig{pubSubSystem: "failing"}, nil)
	assert.Equal(t, expectedErr, err)
}

func TestRegistry_Has(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Has("test-transport"))

	reg.Register("test-transport", okBuilder)
	assert.True(t, reg.Has("test-transport"))
	assert.False(t, reg.Has("other-transport"))
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register("nats", okBuilder)
	reg.Register("aws", okBuilder)
	reg.Register("kafka", okBuilder)

	assert.Equal(t, []string{"aws", "kafka", "nats"}, reg.Names())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Register("transport", okBuilder)
				reg.Has("transport")
				reg.Names()
				reg.GetCapabilities("transport")
			}
		}()
	}
	wg.Wait()

	assert.True(t, reg.Has("transport"))
}

func TestPackageLevelFunctions(t *testing.T) {
	original := DefaultRegistry
	defer func() { DefaultRegistry = original }()
	DefaultRegistry = NewRegistry()

	Register("pkg", okBuilder)
	RegisterWithCapabilities("pkg-caps", okBuilder, Capabilities{Name: "pkg-caps", MaxMessageSize: 10})

	assert.True(t, DefaultRegistry.Has("pkg"))
	assert.Equal(t, int64(10), GetCapabilities("pkg-caps").MaxMessageSize)

	_, err := Build(context.Background(), &mockConfig{pubSubSystem: "pkg"}, nil)
	assert.NoError(t, err)

	_, err = Build(context.Background(), &mockConfig{pubSubSystem: "nonexistent"}, nil)
	assert.ErrorIs(t, err, ErrUnknownTransport)
}
