// File: instr_test.go
// Title: Instruction Model Tests
// Description: Tests for opcodes, payload accessors, identifier assignment
//              and group serialization.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package instr

import (
	"testing"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpLoad, "LOAD"},
		{OpStore, "STORE"},
		{OpSync, "SYNC"},
		{Opcode(7), "Opcode(7)"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode.String() = %v, want %v", got, tt.want)
		}
	}
}

func TestParseOpcode(t *testing.T) {
	for _, op := range []Opcode{OpLoad, OpStore, OpSync} {
		got, err := ParseOpcode(op.String())
		if err != nil || got != op {
			t.Errorf("ParseOpcode(%q) = %v, %v", op.String(), got, err)
		}
	}
	if _, err := ParseOpcode("FENCE"); err == nil {
		t.Error("ParseOpcode(FENCE) should fail")
	}
}

func TestRawAccessors(t *testing.T) {
	load := NewLoad(1, 3, 5, false)
	if a, ok := load.Address(); !ok || a != 3 {
		t.Errorf("Address() = %v, %v", a, ok)
	}
	if v, ok := load.Value(); !ok || v != 5 {
		t.Errorf("Value() = %v, %v", v, ok)
	}
	if !load.IsLoad() || load.IsStore() || load.IsSync() {
		t.Error("NewLoad() opcode predicates wrong")
	}

	sync := NewSync(2)
	if _, ok := sync.Address(); ok {
		t.Error("SYNC should have no address")
	}
	if _, ok := sync.Value(); ok {
		t.Error("SYNC should have no value")
	}
	if sync.Access != nil {
		t.Error("SYNC should carry no payload")
	}
}

func TestRawEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Raw
		want bool
	}{
		{"same store", NewStore(0, 1, 2, false), NewStore(0, 1, 2, false), true},
		{"value differs", NewStore(0, 1, 2, false), NewStore(0, 1, 3, false), false},
		{"atomic differs", NewLoad(0, 1, 2, true), NewLoad(0, 1, 2, false), false},
		{"sync", NewSync(4), NewSync(4), true},
		{"sync vs load", NewSync(0), NewLoad(0, 0, 0, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignCopiesPayload(t *testing.T) {
	raw := NewStore(0, 1, 2, false)
	in := raw.Assign(9)
	raw.Access.Value = 42

	if in.ID != 9 {
		t.Errorf("ID = %v, want 9", in.ID)
	}
	if v, _ := in.Value(); v != 2 {
		t.Errorf("assigned instruction shares payload with raw record: value = %v", v)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{NewStore(0, 1, 1, false).String(), "0: v1 := 1"},
		{NewLoad(3, 0, 0, false).String(), "3: v0 == 0"},
		{NewSync(0).String(), "0: sync"},
		{NewLoad(1, 2, 1, true).String(), "1: v2 == 1 (atomic)"},
		{NewSync(5).Assign(4).String(), "#4 5: sync"},
		{NewLoad(1, 2, 1, true).Op(), "v2 == 1"},
		{NewSync(2).Op(), "sync"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestFormatGroup(t *testing.T) {
	tests := []struct {
		name    string
		group   []Raw
		want    string
		wantErr bool
	}{
		{"store", []Raw{NewStore(0, 1, 1, false)}, "0: v1 := 1", false},
		{"sync", []Raw{NewSync(2)}, "2: sync", false},
		{"atomic pair", []Raw{NewLoad(1, 4, 1, true), NewStore(1, 4, 2, true)}, "1: {v4 == 1; v4 := 2}", false},
		{"lone atomic", []Raw{NewLoad(1, 4, 1, true)}, "", true},
		{"pair in wrong order", []Raw{NewStore(1, 4, 2, true), NewLoad(1, 4, 1, true)}, "", true},
		{"pair across threads", []Raw{NewLoad(1, 4, 1, true), NewStore(2, 4, 2, true)}, "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatGroup(tt.group)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatGroup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatGroup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGroupsAndFormat(t *testing.T) {
	flat := []Raw{
		NewStore(0, 1, 1, false),
		NewLoad(1, 2, 0, true),
		NewStore(1, 2, 1, true),
		NewSync(0),
	}

	groups := Groups(flat)
	if len(groups) != 3 {
		t.Fatalf("Groups() = %d groups, want 3", len(groups))
	}
	if len(groups[1]) != 2 {
		t.Errorf("atomic group size = %d, want 2", len(groups[1]))
	}

	text, err := Format(flat)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "0: v1 := 1\n1: {v2 == 0; v2 := 1}\n0: sync\n"
	if text != want {
		t.Errorf("Format() = %q, want %q", text, want)
	}
}

func TestRaws(t *testing.T) {
	instrs := []Instruction{NewSync(0).Assign(0), NewStore(1, 0, 1, false).Assign(1)}
	raws := Raws(instrs)
	if len(raws) != 2 || !raws[1].Equal(NewStore(1, 0, 1, false)) {
		t.Errorf("Raws() = %v", raws)
	}
}
