package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	"github.com/drblury/mqlog/internal/runtime/jsoncodec"
	"github.com/drblury/mqlog/internal/runtime/logmessage"
)

func TestChannelSendEncodesRawMapUnchanged(t *testing.T) {
	pub := &recordingPublisher{}
	ch := NewChannel("app-logs", pub)

	raw := map[string]any{"b": "0042", "a": []any{1, "x"}, "nested": map[string]any{"k": nil}}
	require.NoError(t, ch.Send(context.Background(), raw))

	calls := pub.published()
	require.Len(t, calls, 1)
	assert.Equal(t, "app-logs", calls[0].destination)
	assert.JSONEq(t, `{"a":[1,"x"],"b":"0042","nested":{"k":null}}`, string(calls[0].payload))
}

func TestChannelSendSerializesLogMessage(t *testing.T) {
	pub := &recordingPublisher{}
	ch := NewChannel("app-logs", pub)

	msg := logmessage.New(
		logmessage.WithLogType("audit"),
		logmessage.WithStatusCode("201"),
		logmessage.WithTimestamp("2024-01-02 03:04:05"),
	)
	require.NoError(t, ch.Send(context.Background(), msg))

	var got map[string]any
	require.NoError(t, jsoncodec.Unmarshal(pub.published()[0].payload, &got))
	assert.Len(t, got, 6)
	assert.Equal(t, "audit", got["logType"])
	assert.EqualValues(t, 201, got["statusCode"])
	assert.Equal(t, "2024-01-02 03:04:05", got["timestamp"])
	assert.Nil(t, got["objectName"])
}

func TestChannelSendBytes(t *testing.T) {
	pub := &recordingPublisher{}
	ch := NewChannel("app-logs", pub)

	require.NoError(t, ch.Send(context.Background(), []byte("héllo")))
	assert.Equal(t, `"héllo"`, string(pub.published()[0].payload))

	err := ch.Send(context.Background(), []byte{0xff, 0xfe})
	assert.ErrorIs(t, err, errspkg.ErrInvalidUTF8Payload)
	assert.Len(t, pub.published(), 1)
}

func TestChannelSendPropagatesPublishError(t *testing.T) {
	boom := errors.New("broker unavailable")
	ch := NewChannel("app-logs", &recordingPublisher{err: boom})

	assert.Same(t, boom, ch.Send(context.Background(), map[string]any{}))
}

func TestChannelSendEncodeError(t *testing.T) {
	pub := &recordingPublisher{}
	ch := NewChannel("app-logs", pub)

	err := ch.Send(context.Background(), map[string]any{"fn": func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mqlog: encode message")
	assert.Empty(t, pub.published())
}

func TestChannelRequiresPublisher(t *testing.T) {
	var nilChannel *Channel
	assert.ErrorIs(t, nilChannel.Send(context.Background(), map[string]any{}), errspkg.ErrChannelRequired)
	assert.ErrorIs(t, NewChannel("x", nil).Send(context.Background(), map[string]any{}), errspkg.ErrPublisherRequired)
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "<Channel destination: app-logs>", NewChannel("app-logs", nil).String())
	assert.Equal(t, "app-logs", NewChannel("app-logs", nil).Name())

	var nilChannel *Channel
	assert.Equal(t, "", nilChannel.Name())
}
