// Package checker validates whole-trace invariants over an assembled
// instruction sequence.
//
// File: checker.go
// Title: Trace Sanity Checks
// Description: Value 0 is every address's implicit initial value, so no
//              STORE may write it, and no address may be written the same
//              value twice. Checks are pure functions over the finished
//              sequence and never modify it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package checker

import (
	mterror "github.com/msto63/memtrace/foundation/core/error"
	"github.com/msto63/memtrace/foundation/trace/instr"
)

// InitialValue is the value every address holds before the first store
const InitialValue instr.Value = 0

// Check validates an assembled sequence and returns the first violation
type Check func(instrs []instr.Instruction) error

// Default returns the checks applied to every parsed trace, in order
func Default() []Check {
	return []Check{NoInitialValueWrites, UniqueStoreValues}
}

// Run applies checks in order and returns instrs unchanged, or the first
// violation. A nil result slice is never returned with a nil error.
func Run(instrs []instr.Instruction, checks ...Check) ([]instr.Instruction, error) {
	for _, check := range checks {
		if err := check(instrs); err != nil {
			return nil, err
		}
	}
	if instrs == nil {
		instrs = []instr.Instruction{}
	}
	return instrs, nil
}

// NoInitialValueWrites rejects any STORE writing InitialValue
func NoInitialValueWrites(instrs []instr.Instruction) error {
	for _, in := range instrs {
		if !in.IsStore() {
			continue
		}
		if in.Access.Value == InitialValue {
			return mterror.Newf("instruction #%d on thread %d stores the initial value %d to v%d",
				in.ID, in.Thread, InitialValue, in.Access.Address).
				WithCode(mterror.CodeInitialValueWritten).
				WithOperation("checker.NoInitialValueWrites").
				WithDetails(map[string]interface{}{
					"id":      int(in.ID),
					"thread":  int(in.Thread),
					"address": int(in.Access.Address),
				})
		}
	}
	return nil
}

// UniqueStoreValues rejects an address receiving the same value from two
// stores anywhere in the trace
func UniqueStoreValues(instrs []instr.Instruction) error {
	first := make(map[instr.Access]instr.Instruction)
	for _, in := range instrs {
		if !in.IsStore() {
			continue
		}
		if prev, seen := first[*in.Access]; seen {
			return mterror.Newf("v%d is stored the value %d twice (#%d on thread %d, #%d on thread %d)",
				in.Access.Address, in.Access.Value, prev.ID, prev.Thread, in.ID, in.Thread).
				WithCode(mterror.CodeDuplicateStoreValue).
				WithOperation("checker.UniqueStoreValues").
				WithDetails(map[string]interface{}{
					"address":   int(in.Access.Address),
					"value":     int(in.Access.Value),
					"first_id":  int(prev.ID),
					"second_id": int(in.ID),
				})
		}
		first[*in.Access] = in
	}
	return nil
}

// StoredValues returns, per address, the values stored in source order
func StoredValues(instrs []instr.Instruction) map[instr.Address][]instr.Value {
	out := make(map[instr.Address][]instr.Value)
	for _, in := range instrs {
		if in.IsStore() {
			out[in.Access.Address] = append(out[in.Access.Address], in.Access.Value)
		}
	}
	return out
}
