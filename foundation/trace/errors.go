// File: errors.go
// Title: Parse Outcome Predicates
// Description: Classify the error returned by a parse. Each predicate
//              looks through wrapping, so errors stay classifiable after
//              callers add context with fmt.Errorf or the error package.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package trace

import (
	"errors"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	"github.com/msto63/memtrace/foundation/trace/parser"
)

// IsGrammarError reports whether err is a grammar failure
func IsGrammarError(err error) bool {
	return mterror.HasCode(err, mterror.CodeTraceSyntax)
}

// IsAtomicAddressMismatch reports whether err is an atomic pair naming two
// addresses
func IsAtomicAddressMismatch(err error) bool {
	return mterror.HasCode(err, mterror.CodeAtomicAddressMismatch)
}

// IsInitialValueWritten reports whether err is a store of the initial value
func IsInitialValueWritten(err error) bool {
	return mterror.HasCode(err, mterror.CodeInitialValueWritten)
}

// IsDuplicateStoreValue reports whether err is a value stored twice to one
// address
func IsDuplicateStoreValue(err error) bool {
	return mterror.HasCode(err, mterror.CodeDuplicateStoreValue)
}

// IsRejected reports whether err rejects the input trace itself rather
// than reporting a failure to read it
func IsRejected(err error) bool {
	return err != nil && mterror.GetCode(err).IsTraceRejection()
}

// AsGrammarError returns the position details of a grammar failure
func AsGrammarError(err error) (*parser.GrammarError, bool) {
	var ge *parser.GrammarError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// AsAtomicMismatch returns the details of an atomic address mismatch
func AsAtomicMismatch(err error) (*parser.AtomicMismatchError, bool) {
	var me *parser.AtomicMismatchError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}
