// File: instr.go
// Title: Instruction Records
// Description: Opcode, Access payload, pre-assembly Raw records and
//              id-assigned Instructions, plus canonical text serialization.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package instr

import (
	"fmt"
	"strings"
)

// ThreadID identifies the thread owning an instruction
type ThreadID int

// Address identifies a shared memory location
type Address int

// Value is a value read or written at an address
type Value int

// ID is the identifier assigned during assembly. Both halves of an atomic
// pair share one ID.
type ID int

// Opcode is the kind of an instruction
type Opcode int

const (
	OpLoad Opcode = iota
	OpStore
	OpSync
)

// String returns LOAD, STORE or SYNC
func (o Opcode) String() string {
	switch o {
	case OpLoad:
		return "LOAD"
	case OpStore:
		return "STORE"
	case OpSync:
		return "SYNC"
	default:
		return fmt.Sprintf("Opcode(%d)", int(o))
	}
}

// ParseOpcode is the inverse of Opcode.String
func ParseOpcode(s string) (Opcode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOAD":
		return OpLoad, nil
	case "STORE":
		return OpStore, nil
	case "SYNC":
		return OpSync, nil
	default:
		return 0, fmt.Errorf("unknown opcode %q", s)
	}
}

// Operator returns the surface operator of a memory access, "==" for
// LOAD and ":=" for STORE
func (o Opcode) Operator() string {
	switch o {
	case OpLoad:
		return "=="
	case OpStore:
		return ":="
	default:
		return ""
	}
}

// Access is the payload of a LOAD or STORE
type Access struct {
	Address Address
	Value   Value
}

// Raw is a recognized instruction before identifier assignment
type Raw struct {
	Thread ThreadID
	Opcode Opcode
	// Access is nil for SYNC
	Access *Access
	Atomic bool
}

// NewLoad returns a LOAD observing value at addr
func NewLoad(thread ThreadID, addr Address, value Value, atomic bool) Raw {
	return Raw{Thread: thread, Opcode: OpLoad, Access: &Access{Address: addr, Value: value}, Atomic: atomic}
}

// NewStore returns a STORE writing value to addr
func NewStore(thread ThreadID, addr Address, value Value, atomic bool) Raw {
	return Raw{Thread: thread, Opcode: OpStore, Access: &Access{Address: addr, Value: value}, Atomic: atomic}
}

// NewSync returns a SYNC barrier
func NewSync(thread ThreadID) Raw {
	return Raw{Thread: thread, Opcode: OpSync}
}

// Address returns the accessed address; ok is false for SYNC
func (r Raw) Address() (Address, bool) {
	if r.Access == nil {
		return 0, false
	}
	return r.Access.Address, true
}

// Value returns the read or written value; ok is false for SYNC
func (r Raw) Value() (Value, bool) {
	if r.Access == nil {
		return 0, false
	}
	return r.Access.Value, true
}

func (r Raw) IsLoad() bool  { return r.Opcode == OpLoad }
func (r Raw) IsStore() bool { return r.Opcode == OpStore }
func (r Raw) IsSync() bool  { return r.Opcode == OpSync }

// Equal compares two records by content
func (r Raw) Equal(other Raw) bool {
	if r.Thread != other.Thread || r.Opcode != other.Opcode || r.Atomic != other.Atomic {
		return false
	}
	if (r.Access == nil) != (other.Access == nil) {
		return false
	}
	return r.Access == nil || *r.Access == *other.Access
}

// Assign returns the Instruction form of r carrying id
func (r Raw) Assign(id ID) Instruction {
	if r.Access != nil {
		a := *r.Access
		r.Access = &a
	}
	return Instruction{ID: id, Raw: r}
}

// Op renders the part after "<thread>: " without atomic braces, e.g.
// "v1 := 1" or "sync"
func (r Raw) Op() string {
	if r.Access == nil {
		return "sync"
	}
	return fmt.Sprintf("v%d %s %d", r.Access.Address, r.Opcode.Operator(), r.Access.Value)
}

// String renders r as a trace line, e.g. "0: v1 := 1". Atomic halves are
// marked with a trailing "(atomic)" since a single half is not a valid line.
func (r Raw) String() string {
	s := fmt.Sprintf("%d: %s", r.Thread, r.Op())
	if r.Atomic {
		s += " (atomic)"
	}
	return s
}

// Instruction is an assembled instruction with its identifier
type Instruction struct {
	ID ID
	Raw
}

// String prefixes the Raw form with the identifier
func (i Instruction) String() string {
	return fmt.Sprintf("#%d %s", i.ID, i.Raw.String())
}

// FormatGroup serializes one instruction group back into the trace
// grammar. A group is a single non-atomic instruction or an atomic
// load/store pair on one thread.
func FormatGroup(group []Raw) (string, error) {
	switch len(group) {
	case 1:
		if group[0].Atomic {
			return "", fmt.Errorf("atomic instruction without its pair")
		}
		return fmt.Sprintf("%d: %s", group[0].Thread, group[0].Op()), nil
	case 2:
		load, store := group[0], group[1]
		if !load.Atomic || !store.Atomic || !load.IsLoad() || !store.IsStore() {
			return "", fmt.Errorf("group of two must be an atomic load followed by an atomic store")
		}
		if load.Thread != store.Thread {
			return "", fmt.Errorf("atomic pair spans threads %d and %d", load.Thread, store.Thread)
		}
		return fmt.Sprintf("%d: {%s; %s}", load.Thread, load.Op(), store.Op()), nil
	default:
		return "", fmt.Errorf("instruction group has %d members", len(group))
	}
}

// Groups splits a flat sequence into instruction groups: an atomic LOAD
// is grouped with the record that follows it
func Groups(flat []Raw) [][]Raw {
	var groups [][]Raw
	for i := 0; i < len(flat); i++ {
		if flat[i].Atomic && flat[i].IsLoad() && i+1 < len(flat) {
			groups = append(groups, flat[i:i+2])
			i++
			continue
		}
		groups = append(groups, flat[i:i+1])
	}
	return groups
}

// Format serializes a flat sequence into trace text, one group per line
func Format(flat []Raw) (string, error) {
	var b strings.Builder
	for _, g := range Groups(flat) {
		line, err := FormatGroup(g)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Raws strips identifiers from an assembled sequence
func Raws(instrs []Instruction) []Raw {
	out := make([]Raw, len(instrs))
	for i, in := range instrs {
		out[i] = in.Raw
	}
	return out
}
