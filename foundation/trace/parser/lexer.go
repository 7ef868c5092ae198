// File: lexer.go
// Title: Trace Lexical Analyzer
// Description: Byte-cursor tokenizer for the trace grammar with offset,
//              line and column tracking. Characters outside the grammar
//              become TokenIllegal so the grammar reports them in source
//              order.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenInt     // 12
	TokenVar     // v12, value is the digits
	TokenMemOpen // M[
	TokenOp      // == :=
	TokenPunct   // : ; { } ]
	TokenIdent   // sync
)

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "Illegal"
	case TokenInt:
		return "Int"
	case TokenVar:
		return "Var"
	case TokenMemOpen:
		return "MemOpen"
	case TokenOp:
		return "Op"
	case TokenPunct:
		return "Punct"
	case TokenIdent:
		return "Ident"
	default:
		return "Unknown"
	}
}

// Token represents a lexical token with position information
type Token struct {
	Type   TokenType
	Value  string // semantic value; digits only for Var
	Text   string // source text
	Offset int    // byte offset in input
	Line   int    // 1-based
	Column int    // 1-based
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Text)
}

// Quoted returns the token as shown in error messages
func (t Token) Quoted() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Text)
}

// number classifies a digit run; runs that overflow int are illegal
func number(tt TokenType, digits string) TokenType {
	if _, err := strconv.Atoi(digits); err != nil {
		return TokenIllegal
	}
	return tt
}

// Lexer performs lexical analysis of trace input
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// NextToken returns the next token. After the end of input it keeps
// returning TokenEOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	start, line, column := l.pos, l.line, l.column
	tok := func(tt TokenType, value string) Token {
		return Token{
			Type:   tt,
			Value:  value,
			Text:   l.input[start:l.pos],
			Offset: start,
			Line:   line,
			Column: column,
		}
	}

	ch := l.peek(0)
	switch {
	case l.pos >= len(l.input):
		return tok(TokenEOF, "")
	case isDigit(ch):
		l.readDigits()
		return tok(number(TokenInt, l.input[start:l.pos]), l.input[start:l.pos])
	case ch == 'v' && isDigit(l.peek(1)):
		l.advance()
		l.readDigits()
		return tok(number(TokenVar, l.input[start+1:l.pos]), l.input[start+1:l.pos])
	case ch == 'M' && l.peek(1) == '[':
		l.advance()
		l.advance()
		return tok(TokenMemOpen, "M[")
	case (ch == '=' || ch == ':') && l.peek(1) == '=':
		l.advance()
		l.advance()
		return tok(TokenOp, l.input[start:l.pos])
	case ch == ':' || ch == ';' || ch == '{' || ch == '}' || ch == ']':
		l.advance()
		return tok(TokenPunct, l.input[start:l.pos])
	case isLetter(ch):
		for l.pos < len(l.input) && isLetter(l.peek(0)) {
			l.advance()
		}
		return tok(TokenIdent, l.input[start:l.pos])
	default:
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
		return tok(TokenIllegal, l.input[start:l.pos])
	}
}

// Tokenize returns all tokens of the input, ending with TokenEOF
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		t := l.NextToken()
		tokens = append(tokens, t)
		if t.Type == TokenEOF {
			return tokens
		}
	}
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) readDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isSpace(l.input[l.pos]) {
		l.advance()
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// positionAt returns the 1-based line and column of a byte offset
func positionAt(input string, offset int) (line, column int) {
	line, column = 1, 1
	for i := 0; i < offset && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}
