package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
)

type mockConfig struct {
	pubSubSystem string
	subscribe    bool
}

func (m *mockConfig) GetPubSubSystem() string       { return m.pubSubSystem }
func (m *mockConfig) GetSubscriberEnabled() bool    { return m.subscribe }
func (m *mockConfig) GetKafkaBrokers() []string     { return nil }
func (m *mockConfig) GetKafkaConsumerGroup() string { return "" }
func (m *mockConfig) GetRabbitMQURL() string        { return "" }
func (m *mockConfig) GetNATSURL() string            { return "" }
func (m *mockConfig) GetHTTPServerAddress() string  { return "" }
func (m *mockConfig) GetHTTPPublisherURL() string   { return "" }
func (m *mockConfig) GetIOFile() string             { return "" }
func (m *mockConfig) GetAWSRegion() string          { return "" }
func (m *mockConfig) GetAWSAccountID() string       { return "" }
func (m *mockConfig) GetAWSAccessKeyID() string     { return "" }
func (m *mockConfig) GetAWSSecretAccessKey() string { return "" }
func (m *mockConfig) GetAWSEndpoint() string        { return "" }

type mockPublisher struct {
	closed bool
	err    error
}

func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true
	return m.err
}

type mockSubscriber struct {
	closed bool
	err    error
}

func (m *mockSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (m *mockSubscriber) Close() error {
	m.closed = true
	return m.err
}

type mockPubSub struct {
	mockPublisher
	closes int
}

func (m *mockPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return nil, nil
}

func (m *mockPubSub) Close() error {
	m.closes++
	return nil
}

func TestConfigInterface(t *testing.T) {
	var _ Config = (*mockConfig)(nil)

	cfg := &mockConfig{pubSubSystem: "test"}
	assert.Equal(t, "test", cfg.GetPubSubSystem())
}

func TestTransportCloseClosesBothSides(t *testing.T) {
	pub := &mockPublisher{}
	sub := &mockSubscriber{}
	tr := Transport{Publisher: pub, Subscriber: sub}

	assert.NoError(t, tr.Close())
	assert.True(t, pub.closed)
	assert.True(t, sub.closed)
}

func TestTransportCloseReturnsFirstError(t *testing.T) {
	pubErr := errors.New("pub close")
	subErr := errors.New("sub close")

	err := Transport{Publisher: &mockPublisher{err: pubErr}, Subscriber: &mockSubscriber{err: subErr}}.Close()
	assert.ErrorIs(t, err, pubErr)

	err = Transport{Publisher: &mockPublisher{}, Subscriber: &mockSubscriber{err: subErr}}.Close()
	assert.ErrorIs(t, err, subErr)
}

func TestTransportCloseSharedPubSubOnce(t *testing.T) {
	ps := &mockPubSub{}
	tr := Transport{Publisher: ps, Subscriber: ps}

	assert.NoError(t, tr.Close())
	assert.Equal(t, 1, ps.closes)
}

func TestTransportCloseEmpty(t *testing.T) {
	assert.NoError(t, Transport{}.Close())
}

func TestWithOptionalSubscriberPublishOnly(t *testing.T) {
	pub := &mockPublisher{}
	called := false

	tr, err := WithOptionalSubscriber(&mockConfig{}, pub, func() (message.Subscriber, error) {
		called = true
		return &mockSubscriber{}, nil
	})

	assert.NoError(t, err)
	assert.False(t, called)
	assert.Same(t, pub, tr.Publisher)
	assert.Nil(t, tr.Subscriber)
}

func TestWithOptionalSubscriberBuildsSubscriber(t *testing.T) {
	pub := &mockPublisher{}
	sub := &mockSubscriber{}

	tr, err := WithOptionalSubscriber(&mockConfig{subscribe: true}, pub, func() (message.Subscriber, error) {
		return sub, nil
	})

	assert.NoError(t, err)
	assert.Same(t, sub, tr.Subscriber)
	assert.False(t, pub.closed)
}

func TestWithOptionalSubscriberClosesPublisherOnFailure(t *testing.T) {
	pub := &mockPublisher{}
	boom := errors.New("subscriber failed")

	tr, err := WithOptionalSubscriber(&mockConfig{subscribe: true}, pub, func() (message.Subscriber, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.True(t, pub.closed)
	assert.Nil(t, tr.Publisher)
}
