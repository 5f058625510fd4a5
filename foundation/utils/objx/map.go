// File: map.go
// Title: Ordered Property Map
// Description: Implements Map, the insertion-ordered string-keyed property map
//              that every objx combinator operates on. A map may be derived
//              from a prototype whose keys are visible to lookups but never
//              to traversal.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation with ordered own keys
// - 2026-10-19 v0.1.1: Added prototype derivation and iterator support

package objx

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Map is a property map: string keys in insertion order, each mapped to a
// value of type V. Only own keys take part in traversal; keys reachable
// through the prototype chain are visible to Get and Has only.
//
// The zero value is an empty map ready to use. A nil *Map reads as an empty
// map but cannot be written to.
type Map[V any] struct {
	keys   []string
	values map[string]V
	proto  *Map[V]
}

// Object is the plain-object shape: a property map holding arbitrary values
type Object = Map[any]

// Entry represents a single key-value pair
type Entry[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}

// New creates an empty map
func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// NewWithCapacity creates an empty map with room for n keys
func NewWithCapacity[V any](n int) *Map[V] {
	return &Map[V]{
		keys:   make([]string, 0, n),
		values: make(map[string]V, n),
	}
}

// NewObject creates an empty plain object
func NewObject() *Object {
	return New[any]()
}

// Derive creates an empty map whose prototype is proto. The prototype's
// keys are inherited, not owned: Get and Has see them, combinators do not.
func Derive[V any](proto *Map[V]) *Map[V] {
	m := New[V]()
	m.proto = proto
	return m
}

// FromEntries creates a map from entries in order. A repeated key keeps its
// first position and its last value.
func FromEntries[V any](entries ...Entry[V]) *Map[V] {
	m := NewWithCapacity[V](len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// FromMap creates a map from a Go map. Go maps are unordered, so keys are
// inserted in sorted order to keep the result deterministic.
func FromMap[V any](src map[string]V) *Map[V] {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	m := NewWithCapacity[V](len(keys))
	for _, k := range keys {
		m.Set(k, src[k])
	}
	return m
}

// Set stores value under key and returns the map for chaining. Setting an
// existing key keeps its position in the key order.
func (m *Map[V]) Set(key string, value V) *Map[V] {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key, consulting the prototype chain
// when the key is not owned
func (m *Map[V]) Get(key string) (V, bool) {
	for cur := m; cur != nil; cur = cur.proto {
		if v, ok := cur.values[key]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// GetOwn returns the value stored directly on the map under key
func (m *Map[V]) GetOwn(key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is owned or inherited
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// HasOwn reports whether key is set directly on the map
func (m *Map[V]) HasOwn(key string) bool {
	_, ok := m.GetOwn(key)
	return ok
}

// Delete removes an own key and reports whether it was present.
// The key slice is reallocated rather than shifted in place so that a
// traversal already in progress keeps a stable view of the keys.
func (m *Map[V]) Delete(key string) bool {
	if !m.HasOwn(key) {
		return false
	}
	delete(m.values, key)
	i := slices.Index(m.keys, key)
	m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
	return true
}

// Len returns the number of own keys
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Proto returns the prototype the map was derived from, or nil
func (m *Map[V]) Proto() *Map[V] {
	if m == nil {
		return nil
	}
	return m.proto
}

// All returns an iterator over own key-value pairs in key order
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		ForEachPair(m, func(key string, value V) Step {
			if !yield(key, value) {
				return Stop
			}
			return Continue
		})
	}
}

// Equal reports whether both maps own the same keys mapped to equal values.
// Key order is not compared. Nested objects are compared with Equal, also
// inside []any, everything else with reflect.DeepEqual.
func (m *Map[V]) Equal(other *Map[V]) bool {
	if m.Len() != other.Len() {
		return false
	}

	equal := true
	ForEachPair(m, func(key string, value V) Step {
		ov, ok := other.GetOwn(key)
		if !ok || !valuesEqual(value, ov) {
			equal = false
			return Stop
		}
		return Continue
	})
	return equal
}

// String renders own pairs in key order, e.g. {a: 1, b: x}
func (m *Map[V]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	ForEachPair(m, func(key string, value V) Step {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s: %v", key, value)
		return Continue
	})
	sb.WriteByte('}')
	return sb.String()
}

// IsObject reports whether v holds a plain object
func IsObject(v any) bool {
	o, ok := v.(*Object)
	return ok && o != nil
}

func valuesEqual(a, b any) bool {
	ao, aok := a.(*Object)
	bo, bok := b.(*Object)
	if aok && bok {
		return ao.Equal(bo)
	}

	as, aok := a.([]any)
	bs, bok := b.([]any)
	if aok && bok {
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valuesEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
