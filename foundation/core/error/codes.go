// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across memtrace. Trace codes
//              identify the four fatal parse outcomes; generic codes cover
//              configuration, I/O and the trace archive.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Trace codes replace TCOL/business/auth codes
// - 2026-10-19 v0.3.0: Dropped code validation

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Trace parsing
	CodeTraceSyntax           Code = "TRACE_SYNTAX"
	CodeAtomicAddressMismatch Code = "ATOMIC_ADDRESS_MISMATCH"
	CodeInitialValueWritten   Code = "INITIAL_VALUE_WRITTEN"
	CodeDuplicateStoreValue   Code = "DUPLICATE_STORE_VALUE"
	CodeInputTooLarge         Code = "INPUT_TOO_LARGE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeTraceSyntax, CodeAtomicAddressMismatch, CodeInputTooLarge:
		return "grammar"
	case CodeInitialValueWritten, CodeDuplicateStoreValue:
		return "sanity"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeDatabaseError:
		return "storage"
	default:
		return "generic"
	}
}

// IsTraceRejection reports whether the code means the input trace itself
// was rejected, as opposed to a failure of the tool around it
func (c Code) IsTraceRejection() bool {
	switch c.Category() {
	case "grammar", "sanity":
		return true
	}
	return false
}
