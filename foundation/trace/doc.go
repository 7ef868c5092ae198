// Package trace parses memory-access trace text into validated,
// thread-partitioned traces.
//
// Package: trace
// Title: Trace Parse Driver
// Description: Runs recognizer, assembler and sanity checks in sequence.
//              The first failure of any stage is the result of the parse;
//              no partial trace is returned. Every parse gets a UUID that
//              identifies the resulting Trace and correlates its log lines.
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
//	t, err := trace.Parse("0: v1 := 1\n0: sync\n1: v1 == 0\n")
//	switch {
//	case trace.IsGrammarError(err):
//		ge, _ := trace.AsGrammarError(err)
//		fmt.Printf("syntax error at %d:%d\n", ge.Line, ge.Column)
//	case err != nil:
//		fmt.Println(err)
//	default:
//		for _, tid := range t.ThreadIDs() {
//			fmt.Println(tid, t.Thread(tid))
//		}
//	}
package trace
