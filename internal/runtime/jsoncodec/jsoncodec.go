// Package jsoncodec is the wire encoding used for published log messages.
package jsoncodec

import (
	"github.com/bytedance/sonic"
)

// defaultConfig mirrors encoding/json: sorted map keys, escaped HTML and
// validated strings, so identical mappings always encode identically.
var defaultConfig = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return defaultConfig.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return defaultConfig.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return defaultConfig.Unmarshal(data, v)
}

// Valid reports whether data is a single well-formed JSON value.
func Valid(data []byte) bool {
	return defaultConfig.Valid(data)
}
