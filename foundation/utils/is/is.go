// File: is.go
// Title: Value Presence Predicates
// Description: Implements the primitive presence predicates used by the
//              Plankton namespace: the absent marker and the defined/null
//              checks built on top of it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation with absent marker and predicates

package is

// undefined is the type of the absent marker. It has no fields so every
// value of the type compares equal to Undefined.
type undefined struct{}

// String renders the marker the way it appears in logs and test failures
func (undefined) String() string {
	return "undefined"
}

// Undefined is the absent marker: a value slot that exists but carries
// nothing. It is distinct from nil, which is the null marker.
var Undefined any = undefined{}

// Is reports whether v is neither the absent marker nor nil
func Is(v any) bool {
	return Defined(v) && !Null(v)
}

// Defined reports whether v is not the absent marker
func Defined(v any) bool {
	_, absent := v.(undefined)
	return !absent
}

// Null reports whether v is exactly the untyped nil interface.
// A typed nil (for example a nil *T stored in an interface) is not null.
func Null(v any) bool {
	return v == nil
}

// String reports whether v holds a string
func String(v any) bool {
	_, ok := v.(string)
	return ok
}

// Bool reports whether v holds a bool
func Bool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// Number reports whether v holds any of Go's built-in numeric types
func Number(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return true
	default:
		return false
	}
}
