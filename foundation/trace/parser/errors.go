// File: errors.go
// Title: Recognition Errors
// Description: Typed errors of the recognizer. Both are returned wrapped
//              in a coded *Error from the core error package and stay
//              reachable through errors.As.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package parser

import (
	"fmt"

	"github.com/msto63/memtrace/foundation/trace/instr"
)

// GrammarError reports input that does not match the trace grammar.
// Positions are absolute within the parsed input.
type GrammarError struct {
	Offset int
	Line   int
	Column int

	// Expected describes what the grammar accepts at Offset, when known
	Expected string
	// Found is the offending token as it appears in the input
	Found string
}

func (e *GrammarError) Error() string {
	msg := fmt.Sprintf("line %d, column %d: unexpected %s", e.Line, e.Column, e.Found)
	if e.Expected != "" {
		msg += " (expected " + e.Expected + ")"
	}
	return msg
}

// AtomicMismatchError reports an atomic pair whose load and store name
// different addresses
type AtomicMismatchError struct {
	Thread       instr.ThreadID
	LoadAddress  instr.Address
	StoreAddress instr.Address

	Offset int
	Line   int
	Column int
}

func (e *AtomicMismatchError) Error() string {
	return fmt.Sprintf("line %d, column %d: atomic pair on thread %d loads v%d but stores v%d",
		e.Line, e.Column, e.Thread, e.LoadAddress, e.StoreAddress)
}
