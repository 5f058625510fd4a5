// ============================================================================
// Plankton - Property-Map Combinators
// ============================================================================
//
// Package:     version
// Description: Central version management for the library, CLI and service
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import "runtime"

// Version constants
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Library = "0.1.0"
	CLI     = "0.1.0"
	Objects = "0.1.0"
	Store   = "0.1.0"
)

// Set at build time via -ldflags "-X ..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "objx", "library":
		return Library
	case "cli", "plankton":
		return CLI
	case "objects", "objsvc":
		return Objects
	case "store":
		return Store
	default:
		return Platform
	}
}

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information for a component
func Get(component string) Info {
	return Info{
		Version:   ComponentVersion(component),
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}
