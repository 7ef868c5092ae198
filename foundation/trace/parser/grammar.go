// File: grammar.go
// Title: Instruction Group Grammar
// Description: participle grammar for one instruction group and the
//              adapter exposing Lexer as a participle lexer definition.
//              The atomic alternative starts with '{', a memory access
//              with an address and sync with its keyword, so a single
//              token of lookahead selects the alternative.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial grammar
// - 2026-10-19 v0.1.1: Symbol table declared ahead of the parser

package parser

import (
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/msto63/memtrace/foundation/trace/instr"
)

// decimal captures a base-10 natural number; a leading zero is not an
// octal prefix.
type decimal int

func (d *decimal) Capture(values []string) error {
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return err
	}
	*d = decimal(n)
	return nil
}

type lineNode struct {
	Pos lexer.Position

	Thread decimal     `@Int ":"`
	Atomic *atomicNode `( @@`
	Access *accessNode `| @@`
	Sync   bool        `| @"sync" )`
}

type atomicNode struct {
	Pos lexer.Position

	Load  *loadNode  `"{" @@ ";"`
	Store *storeNode `@@ "}"`
}

type loadNode struct {
	Pos lexer.Position

	Address *addressNode `@@ "=="`
	Value   decimal      `@Int`
}

type storeNode struct {
	Pos lexer.Position

	Address *addressNode `@@ ":="`
	Value   decimal      `@Int`
}

type accessNode struct {
	Pos lexer.Position

	Address *addressNode `@@`
	Op      string       `@( "==" | ":=" )`
	Value   decimal      `@Int`
}

type addressNode struct {
	Pos lexer.Position

	Index decimal `( @Var | "M[" @Int "]" )`
}

// symbols must be initialized before lineParser: MustBuild reads it
// through definition.Symbols, which the initialization order does not see.
var symbols = map[string]lexer.TokenType{
	"EOF":     lexer.EOF,
	"Illegal": lexer.TokenType(TokenIllegal),
	"Int":     lexer.TokenType(TokenInt),
	"Var":     lexer.TokenType(TokenVar),
	"MemOpen": lexer.TokenType(TokenMemOpen),
	"Op":      lexer.TokenType(TokenOp),
	"Punct":   lexer.TokenType(TokenPunct),
	"Ident":   lexer.TokenType(TokenIdent),
}

var lineParser = participle.MustBuild[lineNode](
	participle.Lexer(definition{}),
)

// raws converts a recognized line into its records. Atomic pairs yield
// [load, store], both flagged atomic.
func (n *lineNode) raws() []instr.Raw {
	thread := instr.ThreadID(n.Thread)
	switch {
	case n.Atomic != nil:
		return []instr.Raw{
			instr.NewLoad(thread, instr.Address(n.Atomic.Load.Address.Index), instr.Value(n.Atomic.Load.Value), true),
			instr.NewStore(thread, instr.Address(n.Atomic.Store.Address.Index), instr.Value(n.Atomic.Store.Value), true),
		}
	case n.Access != nil:
		addr, value := instr.Address(n.Access.Address.Index), instr.Value(n.Access.Value)
		if n.Access.Op == "==" {
			return []instr.Raw{instr.NewLoad(thread, addr, value, false)}
		}
		return []instr.Raw{instr.NewStore(thread, addr, value, false)}
	default:
		return []instr.Raw{instr.NewSync(thread)}
	}
}

// definition adapts Lexer to participle
type definition struct{}

func (definition) Symbols() map[string]lexer.TokenType {
	return symbols
}

func (d definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexString(filename, string(data))
}

func (definition) LexString(filename string, input string) (lexer.Lexer, error) {
	return &participleLexer{filename: filename, src: NewLexer(input)}, nil
}

type participleLexer struct {
	filename string
	src      *Lexer
}

func (l *participleLexer) Next() (lexer.Token, error) {
	t := l.src.NextToken()
	tt := lexer.TokenType(t.Type)
	if t.Type == TokenEOF {
		tt = lexer.EOF
	}
	return lexer.Token{
		Type:  tt,
		Value: t.Value,
		Pos: lexer.Position{
			Filename: l.filename,
			Offset:   t.Offset,
			Line:     t.Line,
			Column:   t.Column,
		},
	}, nil
}
