// File: foreach.go
// Title: Property Map Enumeration
// Description: Implements the own-key traversal primitive and the
//              enumeration variants projected from it (value, key, pair,
//              item), with cooperative early termination.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation of the enumeration group

package objx

// Step is the result of an enumeration callback
type Step int

const (
	// Continue proceeds to the next key. It is the zero value, so a callback
	// that has nothing to decide continues by default.
	Continue Step = iota

	// Stop ends the enumeration after the current call
	Stop
)

// String returns the string representation of the step
func (s Step) String() string {
	switch s {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// ForEachKey calls callback once per own key of subject, in key order.
// The enumeration ends as soon as callback returns Stop; every other result
// continues. Keys deleted during the enumeration are skipped when reached;
// keys added during the enumeration are not visited.
func ForEachKey[V any](subject *Map[V], callback func(key string) Step) {
	if subject == nil {
		return
	}

	keys := subject.keys
	for _, key := range keys {
		if !subject.HasOwn(key) {
			continue
		}
		if callback(key) == Stop {
			break
		}
	}
}

// ForEachValue calls callback with each own value of subject, in key order
func ForEachValue[V any](subject *Map[V], callback func(value V) Step) {
	ForEachKey(subject, func(key string) Step {
		return callback(subject.values[key])
	})
}

// ForEach is the same enumeration as ForEachValue
func ForEach[V any](subject *Map[V], callback func(value V) Step) {
	ForEachValue(subject, callback)
}

// ForEachPair calls callback with each own key and its value, in key order
func ForEachPair[V any](subject *Map[V], callback func(key string, value V) Step) {
	ForEachKey(subject, func(key string) Step {
		return callback(key, subject.values[key])
	})
}

// ForEachItem calls callback with a single-entry map per own pair, in key
// order. The item is the same shape Combine produces.
func ForEachItem[V any](subject *Map[V], callback func(item *Map[V]) Step) {
	ForEachPair(subject, func(key string, value V) Step {
		return callback(Combine(key, value))
	})
}
