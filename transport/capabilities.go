package transport

// Capabilities are the properties of a backend a log publisher cares about.
type Capabilities struct {
	Name string

	// SupportsOrdering is set when messages on one destination are delivered
	// in publish order.
	SupportsOrdering bool

	// MaxMessageSize is the largest accepted payload in bytes. Zero means no
	// known limit.
	MaxMessageSize int64
}

// Allows reports whether a payload of size bytes fits.
func (c Capabilities) Allows(size int) bool {
	return c.MaxMessageSize <= 0 || int64(size) <= c.MaxMessageSize
}

// Size limits below are the broker defaults; a server configured with a
// larger limit still rejects messages above these on the publishing side.
const (
	oneMiB        = 1 << 20
	snsMaxPayload = 256 << 10
)

var (
	ChannelCapabilities  = Capabilities{Name: "channel", SupportsOrdering: true}
	KafkaCapabilities    = Capabilities{Name: "kafka", SupportsOrdering: true, MaxMessageSize: oneMiB}
	RabbitMQCapabilities = Capabilities{Name: "rabbitmq", SupportsOrdering: true}
	NATSCapabilities     = Capabilities{Name: "nats", MaxMessageSize: oneMiB}
	AWSCapabilities      = Capabilities{Name: "aws", SupportsOrdering: true, MaxMessageSize: snsMaxPayload}
	HTTPCapabilities     = Capabilities{Name: "http"}
	IOCapabilities       = Capabilities{Name: "io", SupportsOrdering: true}
)

// GetCapabilities looks name up in DefaultRegistry.
func GetCapabilities(transportName string) Capabilities {
	return DefaultRegistry.GetCapabilities(transportName)
}
