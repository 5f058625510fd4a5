// Package error provides structured error handling for the Plankton libraries.
//
// Package: error
// Title: Plankton Error Handling Framework
// Description: This package implements a structured error type with contextual
//              information, error codes, severity and stack traces. The
//              combinator core never fails; every surrounding layer (namespace,
//              configuration, codecs, persistence, the gRPC service and the CLI)
//              reports failures through this type.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Reduced code set to the Plankton domain, dropped HTTP mapping
//
// Features:
// - Contextual error wrapping with additional metadata
// - Structured error codes with categories
// - Stack trace capture for debugging
// - Error severity levels and categorization
//
// Usage:
//
//	import mdwerror "github.com/msto63/plankton/foundation/core/error"
//
//	err := mdwerror.New("namespace segment not found").
//		WithCode(mdwerror.CodeNotFound).
//		WithOperation("namespace.Resolve").
//		WithDetail("path", "Plankton.obj")
//
//	if mdwerror.HasCode(err, mdwerror.CodeNotFound) {
//		// handle missing registration
//	}
package error
