// ============================================================================
// Plankton - Property-Map Combinators
// ============================================================================
//
// Package:     logging
// Description: Key-value levels over the Foundation logger
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import mdwlog "github.com/msto63/plankton/foundation/core/log"

// Level is the minimum severity a Logger writes
type Level = mdwlog.Level

const (
	LevelDebug = mdwlog.LevelDebug
	LevelInfo  = mdwlog.LevelInfo
	LevelWarn  = mdwlog.LevelWarn
	LevelError = mdwlog.LevelError
)

// ParseLevel reads a configured level name. Unknown names give LevelInfo
// and ok=false.
func ParseLevel(name string) (level Level, ok bool) {
	level, err := mdwlog.ParseLevel(name)
	if err != nil {
		return LevelInfo, false
	}
	return level, true
}
