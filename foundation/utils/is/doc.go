// File: doc.go
// Title: Package Documentation for is
// Description: Package is provides the presence predicates shared by the
//              Plankton libraries.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial documentation

// Package is provides value presence predicates.
//
// Two markers are distinguished:
//
//   - nil is the null marker: a value that is deliberately empty.
//   - Undefined is the absent marker: no value at all.
//
// Is(v) is true only when v is neither marker. Defined(v) is true for
// every value except Undefined, so Defined(nil) is true. Null(v) is true
// only for the untyped nil interface.
//
//	is.Is("x")           // true
//	is.Is(nil)           // false
//	is.Defined(nil)      // true
//	is.Defined(is.Undefined) // false
//	is.Null(nil)         // true
package is
