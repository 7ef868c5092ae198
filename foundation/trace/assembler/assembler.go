// Package assembler assigns instruction identifiers and partitions a trace
// by thread.
//
// File: assembler.go
// Title: Trace Assembler
// Description: Walks the recognized sequence with a counter starting at 0.
//              Every record receives the counter; the counter advances by 1
//              after every record except an atomic LOAD, so an atomic pair
//              shares one identifier.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package assembler

import (
	"sort"

	"github.com/msto63/memtrace/foundation/trace/instr"
)

// Partition maps each observed thread to its instructions in source order
type Partition map[instr.ThreadID][]instr.Instruction

// Assemble assigns identifiers to the recognized sequence
func Assemble(raws []instr.Raw) []instr.Instruction {
	out := make([]instr.Instruction, 0, len(raws))
	var n instr.ID
	for _, r := range raws {
		out = append(out, r.Assign(n))
		if !(r.IsLoad() && r.Atomic) {
			n++
		}
	}
	return out
}

// Split groups an assembled sequence by thread preserving relative order.
// The key set is exactly the set of threads present.
func Split(instrs []instr.Instruction) Partition {
	p := make(Partition)
	for _, in := range instrs {
		p[in.Thread] = append(p[in.Thread], in)
	}
	return p
}

// ThreadIDs returns the threads of p in ascending order
func (p Partition) ThreadIDs() []instr.ThreadID {
	ids := make([]instr.ThreadID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of instructions across all threads
func (p Partition) Len() int {
	n := 0
	for _, instrs := range p {
		n += len(instrs)
	}
	return n
}
