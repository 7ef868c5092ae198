// Package error provides the structured error type shared by all memtrace
// packages.
//
// Package: error
// Title: memtrace Error Handling
// Description: Structured errors with codes, severities and details. Every fatal outcome of trace parsing is an *Error
//              whose code names the failure kind, so callers dispatch with
//              HasCode instead of string matching.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Trace codes
// - 2026-10-19 v0.3.0: Dropped stack capture and explicit severities
//
// Usage:
//
//	import mterror "github.com/msto63/memtrace/foundation/core/error"
//
//	err := mterror.New("store writes the initial value").
//		WithCode(mterror.CodeInitialValueWritten).
//		WithDetail("address", 3)
//
//	wrapped := mterror.Wrap(err, "trace rejected")
//	if mterror.HasCode(wrapped, mterror.CodeInitialValueWritten) {
//		// the code survives wrapping
//	}
package error
