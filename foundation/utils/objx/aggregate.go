// File: aggregate.go
// Title: Property Map Aggregation
// Description: Implements key/value extraction, counting, and the any
//              family returning an arbitrary entry of a map.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation of the aggregation group

package objx

import "github.com/msto63/plankton/foundation/utils/is"

// Keys returns the own keys of subject in key order. The result is never nil.
func Keys[V any](subject *Map[V]) []string {
	keys := make([]string, 0, subject.Len())
	ForEachKey(subject, func(key string) Step {
		keys = append(keys, key)
		return Continue
	})
	return keys
}

// Values returns the own values of subject in the same order as Keys.
// The result is never nil.
func Values[V any](subject *Map[V]) []V {
	values := make([]V, 0, subject.Len())
	ForEachValue(subject, func(value V) Step {
		values = append(values, value)
		return Continue
	})
	return values
}

// Count returns the number of own keys of subject
func Count[V any](subject *Map[V]) int {
	return subject.Len()
}

// AnyKey returns an own key of subject. It is the first key in key order,
// so repeated calls on an unchanged map return the same key. ok is false
// when the map has no own keys.
func AnyKey[V any](subject *Map[V]) (key string, ok bool) {
	found := anyKey(subject)
	if !is.Defined(found) {
		return "", false
	}
	return found.(string), true
}

// AnyValue returns the value stored under AnyKey. ok is false when the map
// has no own keys, which keeps an empty map apart from a key holding the
// zero value.
func AnyValue[V any](subject *Map[V]) (value V, ok bool) {
	found := anyKey(subject)
	if !is.Defined(found) {
		return value, false
	}
	return subject.values[found.(string)], true
}

// Any is the same lookup as AnyValue
func Any[V any](subject *Map[V]) (V, bool) {
	return AnyValue(subject)
}

// AnyItem returns the single-entry map for AnyKey and its value, or nil and
// false when the map has no own keys
func AnyItem[V any](subject *Map[V]) (*Map[V], bool) {
	found := anyKey(subject)
	if !is.Defined(found) {
		return nil, false
	}
	key := found.(string)
	return Combine(key, subject.values[key]), true
}

// anyKey yields the first own key, or is.Undefined for an empty map
func anyKey[V any](subject *Map[V]) any {
	found := is.Undefined
	ForEachKey(subject, func(key string) Step {
		found = key
		return Stop
	})
	return found
}
