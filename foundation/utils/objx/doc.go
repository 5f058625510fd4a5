// File: doc.go
// Title: Package Documentation for objx
// Description: Package objx provides combinators over ordered property maps:
//              copying, merging, enumerating, filtering and extracting
//              entries with own-keys-only semantics.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial documentation

// Package objx provides combinators over ordered property maps.
//
// Overview
//
// A Map is a string-keyed map that remembers insertion order. Object is the
// Map[any] instantiation used for plain, JSON-like data. Every combinator
// works on own keys only: a map created with Derive inherits the keys of its
// prototype for Get and Has, but those keys are never enumerated, counted,
// copied or filtered.
//
// Architecture
//
// The package is layered around one traversal primitive:
//
//   - Traversal: ForEachKey visits own keys in order
//   - Enumeration: ForEach, ForEachValue, ForEachPair, ForEachItem
//   - Selection: Filter, FilterValue, FilterKey, FilterPair, FilterItem
//   - Construction: Copy, Mix, Merge, Combine
//   - Aggregation: Keys, Values, Count, Any, AnyValue, AnyKey, AnyItem
//
// Selection, construction and aggregation are written in terms of the
// enumeration functions, and enumeration only calls ForEachKey.
//
// Early Termination
//
// Enumeration callbacks return a Step. Stop ends the enumeration after the
// current call; Continue, the zero value, moves on.
//
// Selection callbacks return a Decision:
//
//   - Abort ends the selection, the current entry is not included
//   - Include adds the entry to the result
//   - Exclude, the zero value, skips the entry
//
// Entries included before an Abort stay in the result.
//
// Usage Examples
//
//	scores := objx.New[int]().Set("a", 1).Set("c", 2).Set("e", 3).Set("f", 4)
//
//	even := objx.FilterValue(scores, func(n int) objx.Decision {
//	    return objx.Keep(n%2 == 0)
//	})
//	// even: {c: 2, f: 4}
//
//	untilThree := objx.FilterValue(scores, func(n int) objx.Decision {
//	    if n == 3 {
//	        return objx.Abort
//	    }
//	    return objx.Keep(n%2 == 0)
//	})
//	// untilThree: {c: 2}
//
//	merged := objx.Merge(
//	    objx.Combine("a", 1),
//	    objx.Combine("a", 2),
//	    objx.Combine("a", 3),
//	)
//	// merged: {a: 3}
//
// Absent Values
//
// AnyKey, AnyValue and AnyItem report an empty map through their second
// result, so an empty map is never confused with a key whose value is nil.
//
// Ownership
//
// Copy, Merge, Combine, the Filter family and AnyItem return fresh maps that
// share no storage with their inputs; values themselves are shared. Mix is
// the only function that writes to an argument: it fills and returns its
// first argument.
//
// Maps are not safe for concurrent mutation. Callbacks run inline on the
// calling goroutine.
package objx
