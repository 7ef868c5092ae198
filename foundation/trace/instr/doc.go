// Package instr defines the instruction records of a memory-access trace.
//
// Package: instr
// Title: Trace Instruction Model
// Description: A trace line is recognized into one or two Raw records
//              (an atomic pair yields a load and a store). Raw records carry
//              no identifier; the assembler turns them into Instructions via
//              Raw.Assign. LOAD and STORE carry an Access payload, SYNC
//              carries none. Addresses written as v<N> and M[<N>] share one
//              address space.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package instr
