// Package logmessage holds the canonical, defaulted form of a log event before
// it is serialized for the wire.
package logmessage

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/drblury/mqlog/internal/runtime/serializer"
)

// Wire names of the serialized fields, in declaration order.
const (
	FieldLogType    = "logType"
	FieldObjectName = "objectName"
	FieldObjectID   = "objectId"
	FieldLevel      = "level"
	FieldStatusCode = "statusCode"
	FieldTimestamp  = "timestamp"
)

// LogMessage is a normalized log event. Nil fields serialize as null.
type LogMessage struct {
	LogType    *string
	ObjectName *string
	ObjectID   *string
	Level      *Level
	// StatusCode is a string or integer application status code.
	StatusCode any
	// Timestamp is a formatted string, or the raw epoch value when it could
	// not be converted.
	Timestamp any

	// Message is the rendered log text. It is attached after construction and
	// is not one of the serialized fields.
	Message string
}

// Option sets one of the constructor-level fields.
type Option func(*LogMessage)

func WithLogType(logType string) Option {
	return func(m *LogMessage) { m.LogType = &logType }
}

func WithObjectName(name string) Option {
	return func(m *LogMessage) { m.ObjectName = &name }
}

func WithObjectID(id string) Option {
	return func(m *LogMessage) { m.ObjectID = &id }
}

func WithLevel(level Level) Option {
	return func(m *LogMessage) { m.Level = &level }
}

func WithStatusCode(code any) Option {
	return func(m *LogMessage) { m.StatusCode = code }
}

// WithTimestamp routes t through SetTimestamp.
func WithTimestamp(t any) Option {
	return func(m *LogMessage) { m.SetTimestamp(t) }
}

// New builds a LogMessage. A message built without WithTimestamp is stamped
// with the current time.
func New(opts ...Option) *LogMessage {
	m := &LogMessage{}
	for _, opt := range opts {
		opt(m)
	}
	if m.Timestamp == nil {
		m.SetTimestamp(nil)
	}
	return m
}

type attributes struct {
	LogType    any            `mapstructure:"log_type"`
	Type       any            `mapstructure:"type"`
	ObjectName any            `mapstructure:"object_name"`
	ObjectID   any            `mapstructure:"object_id"`
	Level      any            `mapstructure:"level"`
	StatusCode any            `mapstructure:"status_code"`
	Datetime   any            `mapstructure:"datetime"`
	Rest       map[string]any `mapstructure:",remain"`
}

// FromAttributes builds a LogMessage from an arbitrary attribute bag, such as
// the full attribute set of a log record. Recognised keys are log_type (or
// type), object_name, object_id, level, status_code and datetime; everything
// else is ignored. Values that cannot be coerced leave their field unset.
func FromAttributes(attrs map[string]any) *LogMessage {
	var a attributes
	if len(attrs) > 0 {
		// Every target field accepts any value, so decoding cannot fail on
		// content; a failure only leaves the zero attributes in place.
		_ = decodeAttributes(attrs, &a)
	}

	m := &LogMessage{
		LogType:    optionalString(firstSet(a.LogType, a.Type)),
		ObjectName: optionalString(a.ObjectName),
		ObjectID:   optionalString(a.ObjectID),
		Level:      optionalLevel(a.Level),
		StatusCode: a.StatusCode,
	}
	m.SetTimestamp(a.Datetime)
	return m
}

// decodeAttributes matches keys exactly; mapstructure's default is
// case-insensitive.
func decodeAttributes(attrs map[string]any, out *attributes) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:    out,
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return err
	}
	return dec.Decode(attrs)
}

// Fields lists the serialized fields in wire order.
func (m *LogMessage) Fields() []serializer.Field {
	var level any
	if m.Level != nil {
		level = int(*m.Level)
	}
	// A formatted or caller-supplied timestamp stays text even when it is
	// made only of digits.
	_, textual := m.Timestamp.(string)
	return []serializer.Field{
		{Name: FieldLogType, Value: derefString(m.LogType)},
		{Name: FieldObjectName, Value: derefString(m.ObjectName)},
		{Name: FieldObjectID, Value: derefString(m.ObjectID)},
		{Name: FieldLevel, Value: level},
		{Name: FieldStatusCode, Value: m.StatusCode},
		{Name: FieldTimestamp, Value: m.Timestamp, Verbatim: textual},
	}
}

func (m *LogMessage) String() string {
	logType := "<nil>"
	if m.LogType != nil {
		logType = *m.LogType
	}
	return "<LogMessage: " + logType + ">"
}

func firstSet(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return v
	}
	return nil
}

func optionalString(v any) *string {
	if v == nil {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	return &s
}

func optionalLevel(v any) *Level {
	switch l := v.(type) {
	case nil:
		return nil
	case Level:
		return &l
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return nil
	}
	level := Level(n)
	return &level
}

// derefString keeps unset fields as an untyped nil so they encode as null.
func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
