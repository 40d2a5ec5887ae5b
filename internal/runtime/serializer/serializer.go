// Package serializer turns schema-declaring values into plain mappings ready
// for wire encoding.
//
// A type opts in by implementing Serializable: it lists its fields once, in
// order, and ToMap walks that list applying the coercion rules below. No
// reflection over methods or struct tags is involved.
//
// Coercion is applied depth-first to each field value:
//
//   - Serializable values are converted recursively.
//   - Slices and arrays (other than byte slices) have their Serializable
//     elements converted; other elements are kept.
//   - Strings and byte slices made only of ASCII digits become int64.
//   - Remaining byte slices become text when valid UTF-8, otherwise standard
//     base64 text.
//   - Nil pointers of Serializable types stay nil.
//
// Fields marked Verbatim skip coercion entirely.
package serializer

import (
	"encoding/base64"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// Field is a single named value exposed by a Serializable. Verbatim fields
// are emitted without coercion.
type Field struct {
	Name     string
	Value    any
	Verbatim bool
}

// Serializable is implemented by values with a known, enumerable field set.
type Serializable interface {
	Fields() []Field
}

// ToMap converts v into a mapping holding exactly the fields v declares.
// It never panics; a field whose value cannot be coerced is emitted as-is.
func ToMap(v Serializable) (out map[string]any) {
	out = map[string]any{}
	if v == nil {
		return out
	}
	defer func() {
		// A panicking Fields implementation yields whatever was collected.
		_ = recover()
	}()

	fields := v.Fields()
	out = make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Verbatim {
			out[f.Name] = f.Value
			continue
		}
		out[f.Name] = Coerce(f.Value)
	}
	return out
}

// Coerce applies the coercion rules to a single value.
func Coerce(value any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = value
		}
	}()

	switch v := value.(type) {
	case nil:
		return nil
	case Serializable:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return ToMap(v)
	case string:
		if n, ok := parseDigits(v); ok {
			return n
		}
		return v
	case []byte:
		return coerceBytes(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return value
		}
		return coerceSequence(rv)
	case reflect.Array:
		return coerceSequence(rv)
	}
	return value
}

func coerceBytes(b []byte) any {
	if n, ok := parseDigits(string(b)); ok {
		return n
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return base64.StdEncoding.EncodeToString(b)
}

func coerceSequence(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		elem := rv.Index(i).Interface()
		if s, ok := elem.(Serializable); ok {
			out[i] = ToMap(s)
			continue
		}
		out[i] = elem
	}
	return out
}

// parseDigits reports whether s is a non-empty run of ASCII digits that fits
// into an int64, returning its value.
func parseDigits(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
