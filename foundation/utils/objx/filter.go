// File: filter.go
// Title: Property Map Selection
// Description: Implements the filter family. Each variant enumerates own
//              pairs and lets the callback decide per entry whether to
//              include it, skip it, or abort the selection.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation of the selection group

package objx

// Decision is the result of a selection callback
type Decision int

const (
	// Exclude skips the entry and continues. It is the zero value.
	Exclude Decision = iota

	// Include copies the entry into the result and continues
	Include

	// Abort ends the selection without including the current entry.
	// Entries included before the abort are kept.
	Abort
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case Exclude:
		return "exclude"
	case Include:
		return "include"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// Keep converts a boolean predicate result into Include or Exclude
func Keep(ok bool) Decision {
	if ok {
		return Include
	}
	return Exclude
}

// FilterPair returns a new map holding the own pairs of subject for which
// callback returned Include, in source order. subject is not modified.
func FilterPair[V any](subject *Map[V], callback func(key string, value V) Decision) *Map[V] {
	filtered := New[V]()

	ForEachPair(subject, func(key string, value V) Step {
		switch callback(key, value) {
		case Abort:
			return Stop
		case Include:
			filtered.Set(key, value)
		}
		return Continue
	})

	return filtered
}

// FilterValue selects own pairs by value
func FilterValue[V any](subject *Map[V], callback func(value V) Decision) *Map[V] {
	return FilterPair(subject, func(_ string, value V) Decision {
		return callback(value)
	})
}

// Filter is the same selection as FilterValue
func Filter[V any](subject *Map[V], callback func(value V) Decision) *Map[V] {
	return FilterValue(subject, callback)
}

// FilterKey selects own pairs by key
func FilterKey[V any](subject *Map[V], callback func(key string) Decision) *Map[V] {
	return FilterPair(subject, func(key string, _ V) Decision {
		return callback(key)
	})
}

// FilterItem selects own pairs by their single-entry item
func FilterItem[V any](subject *Map[V], callback func(item *Map[V]) Decision) *Map[V] {
	return FilterPair(subject, func(key string, value V) Decision {
		return callback(Combine(key, value))
	})
}
