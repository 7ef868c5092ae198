// File: trace.go
// Title: Trace Result Type
// Description: The validated trace: the flat id-assigned sequence plus
//              its partition by thread, with summary and canonical text
//              helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package trace

import (
	"sort"

	"github.com/google/uuid"

	"github.com/msto63/memtrace/foundation/trace/assembler"
	"github.com/msto63/memtrace/foundation/trace/instr"
)

// Trace is a validated, thread-partitioned instruction sequence
type Trace struct {
	ID uuid.UUID

	// Instructions is the id-assigned sequence in source order
	Instructions []instr.Instruction

	// Threads partitions Instructions by owning thread
	Threads assembler.Partition
}

// Summary counts the contents of a trace
type Summary struct {
	Threads      int `json:"threads" yaml:"threads"`
	Instructions int `json:"instructions" yaml:"instructions"`
	Operations   int `json:"operations" yaml:"operations"`
	Loads        int `json:"loads" yaml:"loads"`
	Stores       int `json:"stores" yaml:"stores"`
	Syncs        int `json:"syncs" yaml:"syncs"`
	AtomicPairs  int `json:"atomic_pairs" yaml:"atomic_pairs"`
	Addresses    int `json:"addresses" yaml:"addresses"`
}

// ThreadIDs returns the thread ids in ascending order
func (t *Trace) ThreadIDs() []instr.ThreadID {
	return t.Threads.ThreadIDs()
}

// Thread returns the instructions of one thread in program order
func (t *Trace) Thread(id instr.ThreadID) []instr.Instruction {
	return t.Threads[id]
}

// Len returns the number of instruction records
func (t *Trace) Len() int {
	return len(t.Instructions)
}

// Operations returns the number of distinct identifiers; an atomic pair
// counts once
func (t *Trace) Operations() int {
	seen := make(map[instr.ID]struct{}, len(t.Instructions))
	for _, in := range t.Instructions {
		seen[in.ID] = struct{}{}
	}
	return len(seen)
}

// Addresses returns the accessed addresses in ascending order
func (t *Trace) Addresses() []instr.Address {
	seen := make(map[instr.Address]struct{})
	for _, in := range t.Instructions {
		if addr, ok := in.Address(); ok {
			seen[addr] = struct{}{}
		}
	}
	out := make([]instr.Address, 0, len(seen))
	for addr := range seen {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Summary counts threads, records and operations by kind
func (t *Trace) Summary() Summary {
	s := Summary{
		Threads:      len(t.Threads),
		Instructions: t.Len(),
		Operations:   t.Operations(),
		Addresses:    len(t.Addresses()),
	}
	for _, in := range t.Instructions {
		switch in.Opcode {
		case instr.OpLoad:
			s.Loads++
			if in.Atomic {
				s.AtomicPairs++
			}
		case instr.OpStore:
			s.Stores++
		case instr.OpSync:
			s.Syncs++
		}
	}
	return s
}

// Format renders the trace as canonical text in source order. Parsing the
// result yields a trace with identical instructions.
func (t *Trace) Format() (string, error) {
	return instr.Format(instr.Raws(t.Instructions))
}
