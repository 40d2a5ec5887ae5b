package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-aws/sns"
	"github.com/ThreeDotsLabs/watermill-aws/sqs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drblury/mqlog/transport"
	"github.com/drblury/mqlog/transport/transporttest"
)

func TestRegister(t *testing.T) {
	original := transport.DefaultRegistry
	defer func() { transport.DefaultRegistry = original }()
	transport.DefaultRegistry = transport.NewRegistry()

	Register()

	caps := transport.GetCapabilities(TransportName)
	assert.Equal(t, "aws", caps.Name)
	assert.Equal(t, int64(262144), caps.MaxMessageSize)
}

func stubAWS(t *testing.T) {
	t.Helper()
	originalConfigLoader := DefaultConfigLoader
	originalTopicResolver := TopicResolverFactory
	originalPubFactory := PublisherFactory
	originalSubFactory := SubscriberFactory
	t.Cleanup(func() {
		DefaultConfigLoader = originalConfigLoader
		TopicResolverFactory = originalTopicResolver
		PublisherFactory = originalPubFactory
		SubscriberFactory = originalSubFactory
	})

	DefaultConfigLoader = func(ctx context.Context, opts ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "eu-west-1"}, nil
	}
	TopicResolverFactory = func(accountID, region string) (*sns.GenerateArnTopicResolver, error) {
		return &sns.GenerateArnTopicResolver{}, nil
	}
	PublisherFactory = func(cfg sns.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
		return &transporttest.Publisher{}, nil
	}
	SubscriberFactory = func(cfg sns.SubscriberConfig, sqsCfg sqs.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
		return &transporttest.Subscriber{}, nil
	}
}

func TestBuild(t *testing.T) {
	t.Run("publisher only by default", func(t *testing.T) {
		stubAWS(t)

		var got sns.PublisherConfig
		PublisherFactory = func(cfg sns.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
			got = cfg
			return &transporttest.Publisher{}, nil
		}

		cfg := &transporttest.Config{AWSRegion: "us-east-1", AWSAccountID: "123456789012"}
		tr, err := Build(context.Background(), cfg, watermill.NopLogger{})

		require.NoError(t, err)
		assert.NotNil(t, tr.Publisher)
		assert.Nil(t, tr.Subscriber)
		assert.Equal(t, "us-east-1", got.AWSConfig.Region)
		assert.Empty(t, got.OptFns)
	})

	t.Run("custom endpoint overrides resolvers", func(t *testing.T) {
		stubAWS(t)

		var gotPub sns.PublisherConfig
		var gotSQS sqs.SubscriberConfig
		var gotAccount string
		TopicResolverFactory = func(accountID, region string) (*sns.GenerateArnTopicResolver, error) {
			gotAccount = accountID
			return &sns.GenerateArnTopicResolver{}, nil
		}
		PublisherFactory = func(cfg sns.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
			gotPub = cfg
			return &transporttest.Publisher{}, nil
		}
		SubscriberFactory = func(cfg sns.SubscriberConfig, sqsCfg sqs.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
			gotSQS = sqsCfg
			return &transporttest.Subscriber{}, nil
		}

		cfg := &transporttest.Config{AWSRegion: "us-east-1", AWSEndpoint: "http://localhost:4566", Subscribe: true}
		tr, err := Build(context.Background(), cfg, watermill.NopLogger{})

		require.NoError(t, err)
		assert.NotNil(t, tr.Subscriber)
		assert.Equal(t, localstackAccountID, gotAccount)
		assert.Len(t, gotPub.OptFns, 1)
		assert.Len(t, gotSQS.OptFns, 1)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		stubAWS(t)

		_, err := Build(context.Background(), &transporttest.Config{AWSEndpoint: "localhost"}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "failed to parse AWS endpoint")
	})

	t.Run("config loader fails", func(t *testing.T) {
		stubAWS(t)
		DefaultConfigLoader = func(ctx context.Context, opts ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("config error")
		}

		_, err := Build(context.Background(), &transporttest.Config{AWSRegion: "us-east-1"}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "config error")
	})

	t.Run("topic resolver fails", func(t *testing.T) {
		stubAWS(t)
		TopicResolverFactory = func(accountID, region string) (*sns.GenerateArnTopicResolver, error) {
			return nil, errors.New("resolver error")
		}

		_, err := Build(context.Background(), &transporttest.Config{AWSRegion: "us-east-1"}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "resolver error")
	})

	t.Run("publisher factory fails", func(t *testing.T) {
		stubAWS(t)
		PublisherFactory = func(cfg sns.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
			return nil, errors.New("publisher error")
		}

		_, err := Build(context.Background(), &transporttest.Config{AWSRegion: "us-east-1"}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "publisher error")
	})

	t.Run("subscriber factory fails", func(t *testing.T) {
		stubAWS(t)
		pub := &transporttest.Publisher{}
		PublisherFactory = func(cfg sns.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
			return pub, nil
		}
		SubscriberFactory = func(cfg sns.SubscriberConfig, sqsCfg sqs.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
			return nil, errors.New("subscriber error")
		}

		_, err := Build(context.Background(), &transporttest.Config{AWSRegion: "us-east-1", Subscribe: true}, watermill.NopLogger{})
		assert.ErrorContains(t, err, "subscriber error")
		assert.True(t, pub.Closed())
	})
}

func TestResolveAccountAndRegion(t *testing.T) {
	logger := watermill.NopLogger{}

	accountID, region := resolveAccountAndRegion(&transporttest.Config{AWSAccountID: "'123456789012'", AWSRegion: "us-west-2"}, logger, "us-east-1")
	assert.Equal(t, "123456789012", accountID)
	assert.Equal(t, "us-west-2", region)

	accountID, region = resolveAccountAndRegion(&transporttest.Config{AWSAccountID: "123456789012"}, logger, "us-east-1")
	assert.Equal(t, "123456789012", accountID)
	assert.Equal(t, "us-east-1", region)

	accountID, _ = resolveAccountAndRegion(&transporttest.Config{AWSEndpoint: "http://localhost:4566"}, logger, "")
	assert.Equal(t, localstackAccountID, accountID)

	accountID, _ = resolveAccountAndRegion(&transporttest.Config{AWSAccountID: "42", AWSEndpoint: "http://localhost:4566"}, logger, "")
	assert.Equal(t, localstackAccountID, accountID)
}

func TestQueueNameFromTopic(t *testing.T) {
	name, err := queueNameFromTopic(context.Background(), "arn:aws:sns:us-east-1:123456789012:app-logs")
	require.NoError(t, err)
	assert.Equal(t, "app-logs", name)
}
