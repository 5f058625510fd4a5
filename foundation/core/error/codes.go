// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes for consistent error
//              classification across the Plankton packages.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Reduced to the Plankton code set

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Registration
	CodeDuplicateEntry   Code = "DUPLICATE_ENTRY"
	CodeInvalidOperation Code = "INVALID_OPERATION"

	// Storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"
	CodeDataCorruption   Code = "DATA_CORRUPTION"

	// Service
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Data formats and expressions
	CodeParseError       Code = "PARSE_ERROR"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeExpressionError  Code = "EXPRESSION_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeDuplicateEntry, CodeInvalidOperation,
		CodeDatabaseError, CodeConnectionFailed, CodeDataCorruption,
		CodeServiceUnavailable, CodeServiceInitialization,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeParseError, CodeInvalidFormat, CodeValidationFailed, CodeExpressionError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeDuplicateEntry, CodeInvalidOperation:
		return "registration"
	case CodeDatabaseError, CodeConnectionFailed, CodeDataCorruption:
		return "storage"
	case CodeServiceUnavailable, CodeServiceInitialization:
		return "service"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeParseError, CodeInvalidFormat, CodeValidationFailed, CodeExpressionError:
		return "data"
	default:
		return "generic"
	}
}
