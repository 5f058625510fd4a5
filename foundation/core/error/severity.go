// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors to support prioritization
//              and log level selection.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with four severity levels
// - 2026-10-19 v0.2.0: Code mapping follows the reduced code set

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a minor error, typically bad caller input
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects one operation
	SeverityMedium

	// SeverityHigh indicates a failure of a backing resource
	SeverityHigh

	// SeverityCritical indicates an error that leaves stored data unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeDataCorruption:
		return SeverityCritical

	case CodeDatabaseError, CodeConnectionFailed, CodeServiceInitialization, CodeServiceUnavailable:
		return SeverityHigh

	case CodeInvalidInput, CodeNotFound, CodeDuplicateEntry, CodeParseError,
		CodeInvalidFormat, CodeValidationFailed, CodeExpressionError:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
