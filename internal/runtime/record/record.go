// Package record defines the raw log record a log source hands to mqlog.
package record

import (
	"fmt"
	"time"
)

// Keys of caller-supplied metadata the adapter understands.
const (
	KeyLogType    = "log_type"
	KeyType       = "type"
	KeyObjectName = "object_name"
	KeyObjectID   = "object_id"
	KeyStatusCode = "status_code"
	KeyDatetime   = "datetime"
)

// Record is a single raw log event.
type Record struct {
	// Name is the origin of the record, typically the logger name.
	Name string
	Func string
	Line int

	// Level is the source's own numeric severity, passed through unchanged.
	Level int
	// Created is the creation time in Unix seconds.
	Created float64

	Template string
	Args     []any
	// Message is the rendered text, set once the record has been prepared.
	Message string
	// Err is an error attached by the caller. It is never serialized.
	Err error

	Extra map[string]any
}

// New returns a record created now.
func New(name string, level int, template string, args ...any) *Record {
	return &Record{
		Name:     name,
		Level:    level,
		Created:  Epoch(time.Now()),
		Template: template,
		Args:     args,
	}
}

// Epoch converts t to Unix seconds with sub-second precision.
func Epoch(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Render formats the template with the record's arguments. Without arguments
// the template is returned untouched, so literal '%' characters survive.
func (r *Record) Render() string {
	if len(r.Args) == 0 {
		return r.Template
	}
	return fmt.Sprintf(r.Template, r.Args...)
}

// Origin returns "name:func[line]".
func (r *Record) Origin() string {
	return fmt.Sprintf("%s:%s[%d]", r.Name, r.Func, r.Line)
}

// Lookup returns a caller-supplied metadata value.
func (r *Record) Lookup(key string) (any, bool) {
	v, ok := r.Extra[key]
	return v, ok
}
