package metadata

// Keys attached to every published log message.
const (
	KeyContentType = "content_type"
	KeyEventSchema = "event_message_schema"
	KeyDestination = "mqlog_destination"
	KeyTraceID     = "trace_id"
	KeySpanID      = "span_id"
)

const (
	ContentTypeJSON = "application/json"
	SchemaLogRecord = "mqlog.LogMessage"
)

// Metadata represents the headers carried alongside a published payload.
type Metadata map[string]string

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	cloned := make(Metadata, len(m))
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

// With returns a cloned metadata map containing the provided key/value pair.
// Empty values are skipped.
func (m Metadata) With(key, value string) Metadata {
	cloned := m.Clone()
	if value != "" {
		cloned[key] = value
	}
	return cloned
}

// New constructs a Metadata map from alternating key/value pairs.
func New(pairs ...string) Metadata {
	md := make(Metadata, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		md[pairs[i]] = pairs[i+1]
	}
	return md
}

// ForLogMessage returns the headers describing a JSON-encoded log message sent
// to destination.
func ForLogMessage(destination string) Metadata {
	return New(
		KeyContentType, ContentTypeJSON,
		KeyEventSchema, SchemaLogRecord,
		KeyDestination, destination,
	)
}
