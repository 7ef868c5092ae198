// Package parser recognizes memory-access trace text.
//
// Package: parser
// Title: Trace Grammar Recognizer
// Description: Turns trace text into a flat, source-ordered sequence of
//              instr.Raw records. A hand-written lexer feeds a participle
//              grammar for one instruction group at a time:
//
//	line    := tid ':' body
//	body    := '{' addr '==' num ';' addr ':=' num '}'
//	         | addr '==' num
//	         | addr ':=' num
//	         | 'sync'
//	addr    := 'v' digits | 'M[' digits ']'
//
//              Whitespace is insignificant between tokens. v<N> and M[<N>]
//              denote the same address. The load and store of an atomic
//              pair must name the same address; a mismatch aborts the parse
//              before later groups are looked at.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
//
// Usage:
//
//	p := parser.New(parser.Options{})
//	raws, err := p.Parse("0: v1 := 1\n1: {v1 == 1; v1 := 2}\n")
package parser
