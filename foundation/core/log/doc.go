// Package log provides structured logging for plankton.
//
// Package: log
// Title: Structured Logging Framework
// Description: Structured logging with contextual fields, four output formats,
//              level filtering and integration with the structured error type.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Synchronous writes only, stable field order
//
// Features:
// - JSON, text, console and logfmt formats
// - Level filtering from trace to fatal
// - Request IDs and persistent context fields
// - LogError picks the level from the error severity
// - Timers for operation durations
//
// Usage:
//
//	logger := log.New().
//	  WithLevel(log.LevelInfo).
//	  WithFormat(log.FormatText).
//	  WithName("store")
//
//	logger.Info("snapshot saved", log.Fields{"id": id, "entries": n})
//
//	timer := logger.StartTimer("store.Save")
//	err := save()
//	timer.StopWithError(err)
package log
