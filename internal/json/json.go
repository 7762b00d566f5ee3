// Package json wraps the subset of encoding/json this module uses, backed by
// bytedance/sonic. Cache serialization and SSE frame decoding sit on hot
// paths, so the faster codec is worth the extra dependency.
package json

import (
	"github.com/bytedance/sonic"
)

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// Unmarshal parses data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}
