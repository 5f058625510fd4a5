// File: construct.go
// Title: Property Map Construction
// Description: Implements copy, mix, merge and combine. All of them except
//              Mix allocate a fresh map; Mix writes into its first argument.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation of the construction group

package objx

// Copy returns a shallow copy of the own pairs of subject. Nested values are
// shared, not cloned, and the prototype is not carried over.
func Copy[V any](subject *Map[V]) *Map[V] {
	res := NewWithCapacity[V](subject.Len())
	ForEachPair(subject, func(key string, value V) Step {
		res.Set(key, value)
		return Continue
	})
	return res
}

// Mix writes the own pairs of every source into subject, in argument order,
// and returns subject. A later source wins on a key collision. Sources are
// not modified; subject must not be nil.
func Mix[V any](subject *Map[V], sources ...*Map[V]) *Map[V] {
	for _, source := range sources {
		ForEachPair(source, func(key string, value V) Step {
			subject.Set(key, value)
			return Continue
		})
	}
	return subject
}

// Merge returns a new map holding the own pairs of all sources. A later
// source wins on a key collision. No argument is modified.
func Merge[V any](sources ...*Map[V]) *Map[V] {
	size := 0
	for _, source := range sources {
		size += source.Len()
	}
	return Mix(NewWithCapacity[V](size), sources...)
}

// Combine returns a new single-entry map {key: value}
func Combine[V any](key string, value V) *Map[V] {
	return NewWithCapacity[V](1).Set(key, value)
}
