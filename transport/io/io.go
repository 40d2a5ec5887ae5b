// Package io provides a file-based transport for mqlog. Every published log
// message becomes one JSON line in an append-only file; subscribers tail the
// file and filter by destination.
package io

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/mqlog/internal/runtime/jsoncodec"
	"github.com/drblury/mqlog/transport"
)

// TransportName is the name used to register this transport.
const TransportName = "io"

// DefaultFilePath is the default file path if none is specified.
const DefaultFilePath = "mqlog.jsonl"

// PollInterval is how long a subscriber waits at end of file.
var PollInterval = 50 * time.Millisecond

// ErrClosed is returned when publishing on a closed publisher.
var ErrClosed = errors.New("io: publisher closed")

// PublisherFactory allows overriding the publisher creation for testing.
var PublisherFactory = func(filePath string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	return NewPublisher(filePath, logger), nil
}

// SubscriberFactory allows overriding the subscriber creation for testing.
var SubscriberFactory = func(filePath string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	return NewSubscriber(filePath, logger), nil
}

func init() {
	Register()
}

// Register registers the I/O transport with the default registry.
func Register() {
	transport.RegisterWithCapabilities(TransportName, Build, transport.IOCapabilities)
}

// Build appends log messages to a JSON lines file, DefaultFilePath unless
// configured. Subscribers follow the same file.
func Build(ctx context.Context, cfg transport.Config, logger watermill.LoggerAdapter) (transport.Transport, error) {
	filePath := cfg.GetIOFile()
	if filePath == "" {
		filePath = DefaultFilePath
	}

	pub, err := PublisherFactory(filePath, logger)
	if err != nil {
		return transport.Transport{}, err
	}
	return transport.WithOptionalSubscriber(cfg, pub, func() (message.Subscriber, error) {
		return SubscriberFactory(filePath, logger)
	})
}

// Capabilities returns the capabilities of this transport.
func Capabilities() transport.Capabilities {
	return transport.IOCapabilities
}

// line is the JSON structure of one stored message. JSON payloads are kept
// inline so the file stays readable; anything else is base64 in Data.
type line struct {
	UUID        string            `json:"uuid"`
	Destination string            `json:"destination"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Payload     json.RawMessage   `json:"payload,omitempty"`
	Data        []byte            `json:"data,omitempty"`
}

func encodeLine(destination string, msg *message.Message) ([]byte, error) {
	l := line{
		UUID:        msg.UUID,
		Destination: destination,
		Metadata:    msg.Metadata,
	}
	if jsoncodec.Valid(msg.Payload) {
		l.Payload = json.RawMessage(msg.Payload)
	} else {
		l.Data = msg.Payload
	}
	b, err := jsoncodec.Marshal(l)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func decodeLine(b []byte) (line, []byte, error) {
	var l line
	if err := jsoncodec.Unmarshal(b, &l); err != nil {
		return line{}, nil, err
	}
	if len(l.Payload) > 0 {
		return l, []byte(l.Payload), nil
	}
	return l, l.Data, nil
}

// Publisher appends messages to a file. The file is opened on first use
// and kept open until Close.
type Publisher struct {
	filePath string
	logger   watermill.LoggerAdapter

	mu     sync.Mutex
	file   *os.File
	closed bool
}

// NewPublisher returns a publisher appending to filePath.
func NewPublisher(filePath string, logger watermill.LoggerAdapter) *Publisher {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Publisher{filePath: filePath, logger: logger}
}

// Publish writes messages to the file, one line each.
func (p *Publisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.file == nil {
		f, err := os.OpenFile(p.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return err
		}
		p.file = f
	}

	for _, msg := range messages {
		b, err := encodeLine(topic, msg)
		if err != nil {
			return err
		}
		if _, err := p.file.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// Subscriber tails a file written by Publisher.
type Subscriber struct {
	filePath string
	logger   watermill.LoggerAdapter

	done      chan struct{}
	closeOnce sync.Once
}

// NewSubscriber returns a subscriber reading filePath from the start.
func NewSubscriber(filePath string, logger watermill.LoggerAdapter) *Subscriber {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Subscriber{filePath: filePath, logger: logger, done: make(chan struct{})}
}

// Subscribe delivers every message stored for topic, then keeps following
// the file until ctx is cancelled or the subscriber is closed. Each message
// must be acked or nacked before the next one is delivered.
func (s *Subscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	f, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}

	out := make(chan *message.Message)
	go s.follow(ctx, f, topic, out)
	return out, nil
}

// Close stops all running subscriptions.
func (s *Subscriber) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Subscriber) follow(ctx context.Context, f *os.File, topic string, out chan<- *message.Message) {
	defer close(out)
	defer f.Close()

	reader := bufio.NewReader(f)
	var pending []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		pending = append(pending, chunk...)
		switch {
		case errors.Is(err, io.EOF):
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-time.After(PollInterval):
			}
			continue
		case err != nil:
			s.logger.Error("Failed to read file", err, watermill.LogFields{"file": s.filePath})
			return
		}

		raw := pending
		pending = nil
		if !s.deliver(ctx, out, raw, topic) {
			return
		}
	}
}

func (s *Subscriber) deliver(ctx context.Context, out chan<- *message.Message, raw []byte, topic string) bool {
	stored, payload, err := decodeLine(raw)
	if err != nil {
		s.logger.Error("Failed to decode stored message", err, watermill.LogFields{"file": s.filePath})
		return true
	}
	if stored.Destination != topic {
		return true
	}

	msg := message.NewMessage(stored.UUID, payload)
	for k, v := range stored.Metadata {
		msg.Metadata.Set(k, v)
	}

	select {
	case out <- msg:
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	}

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		s.logger.Debug("Message nacked", watermill.LogFields{"uuid": msg.UUID})
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	}
	return true
}
