// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The logger maps
//              severities onto log levels when an error is logged.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.2.0: Severity mapping for trace codes
// - 2026-10-19 v0.3.0: Three levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates rejected user input, e.g. a malformed trace
	SeverityLow Severity = iota

	// SeverityMedium indicates an error with a workaround
	SeverityMedium

	// SeverityHigh indicates a failure of the tool itself, e.g. storage
	SeverityHigh
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
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines the severity level for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeTraceSyntax, CodeAtomicAddressMismatch, CodeInitialValueWritten,
		CodeDuplicateStoreValue, CodeInputTooLarge, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	case CodeDatabaseError, CodeInternal:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
