// File: json.go
// Title: Property Map JSON Encoding
// Description: Implements order-preserving JSON encoding for Map.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package objx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes own pairs as a JSON object with keys in key order.
// Nested maps encode through their own MarshalJSON.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	var encErr error
	buf.WriteByte('{')

	ForEachPair(m, func(key string, value V) Step {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			encErr = err
			return Stop
		}
		v, err := json.Marshal(value)
		if err != nil {
			encErr = fmt.Errorf("failed to marshal value of key %q: %w", key, err)
			return Stop
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return Continue
	})
	if encErr != nil {
		return nil, encErr
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON converts a map to a JSON string
func ToJSON[V any](m *Map[V]) (string, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal map to JSON: %w", err)
	}
	return string(data), nil
}
