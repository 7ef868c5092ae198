// File: parser.go
// Title: Trace Recognizer
// Description: Recognizes a complete trace into a flat, source-ordered
//              sequence of Raw records. The token stream is cut into
//              instruction groups at every integer followed by ':' (only a
//              thread id is), and each group is parsed with the participle
//              grammar in source order. The first failure aborts.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial parser implementation
// - 2026-10-19 v0.1.1: Atomic mismatch wins over trailing tokens, errors
//                      at the start of the next group point at its ':'

package parser

import (
	"errors"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace/instr"
)

// DefaultMaxInputLength is the input limit applied when Options leaves it 0
const DefaultMaxInputLength = 1 << 20

// Options configures parser behavior
type Options struct {
	Logger *mtlog.Logger
	// MaxInputLength bounds the input in bytes. 0 selects
	// DefaultMaxInputLength, a negative value disables the limit.
	MaxInputLength int
}

// Parser recognizes trace text. A Parser holds no per-parse state and is
// safe for concurrent use.
type Parser struct {
	logger  *mtlog.Logger
	options Options
}

// New creates a trace parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mtlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}

	return &Parser{
		logger:  opts.Logger.WithField("component", "trace-parser"),
		options: opts,
	}
}

// span is one instruction group: input[start:end]
type span struct {
	start, end int
}

// Parse recognizes a complete trace. Empty or whitespace-only input yields
// an empty sequence.
func (p *Parser) Parse(input string) ([]instr.Raw, error) {
	if err := p.checkLength(input, "parser.Parse"); err != nil {
		return nil, err
	}

	timer := p.logger.StartTimer("recognize").WithField("bytes", len(input))

	tokens := NewLexer(input).Tokenize()
	spans := split(input, tokens)

	p.logger.Trace("input segmented", mtlog.Fields{
		"tokens": len(tokens) - 1,
		"groups": len(spans),
	})

	var out []instr.Raw
	for _, sp := range spans {
		raws, err := p.parseSpan(input, tokens, sp, "parser.Parse")
		if err != nil {
			timer.Cancel()
			p.logger.Debug("recognition failed", mtlog.Fields{"offset": sp.start, "error": err.Error()})
			return nil, err
		}
		out = append(out, raws...)
	}

	timer.WithField("instructions", len(out)).Stop()
	return out, nil
}

// ParseGroup recognizes exactly one instruction group and returns its one
// or two records
func (p *Parser) ParseGroup(fragment string) ([]instr.Raw, error) {
	if err := p.checkLength(fragment, "parser.ParseGroup"); err != nil {
		return nil, err
	}

	tokens := NewLexer(fragment).Tokenize()
	return p.parseSpan(fragment, tokens, span{start: 0, end: len(fragment)}, "parser.ParseGroup")
}

func (p *Parser) checkLength(input, operation string) error {
	limit := p.options.MaxInputLength
	if limit < 0 || len(input) <= limit {
		return nil
	}
	return mterror.Newf("input exceeds maximum length: %d > %d", len(input), limit).
		WithCode(mterror.CodeInputTooLarge).
		WithOperation(operation).
		WithDetail("length", len(input)).
		WithDetail("limit", limit)
}

// split cuts the token stream into instruction groups. Tokens before the
// first thread id form a leading group so that they are reported.
func split(input string, tokens []Token) []span {
	if len(tokens) <= 1 {
		return nil
	}

	var cuts []int
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Type == TokenInt && tokens[i+1].Type == TokenPunct && tokens[i+1].Value == ":" {
			cuts = append(cuts, tokens[i].Offset)
		}
	}

	var spans []span
	if len(cuts) == 0 || cuts[0] > tokens[0].Offset {
		end := len(input)
		if len(cuts) > 0 {
			end = cuts[0]
		}
		spans = append(spans, span{start: 0, end: end})
	}
	for i, start := range cuts {
		end := len(input)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		spans = append(spans, span{start: start, end: end})
	}
	return spans
}

func (p *Parser) parseSpan(input string, tokens []Token, sp span, operation string) ([]instr.Raw, error) {
	node, err := lineParser.ParseString("", input[sp.start:sp.end])
	if err != nil {
		if pair := atomicPrefix(input, tokens, sp); pair != nil {
			if merr := atomicMismatch(input, sp.start, pair, operation); merr != nil {
				return nil, merr
			}
		}
		return nil, grammarError(input, tokens, sp.start, acrossCut(input, tokens, sp, err), operation)
	}

	if merr := atomicMismatch(input, sp.start, node, operation); merr != nil {
		return nil, merr
	}

	raws := node.raws()
	if p.logger.IsLevelEnabled(mtlog.LevelTrace) {
		p.logger.Trace("group recognized", mtlog.Fields{
			"offset":  sp.start,
			"thread":  int(node.Thread),
			"records": len(raws),
		})
	}
	return raws, nil
}

// atomicPrefix recognizes the group up to its first "}". A complete atomic
// pair is checked before anything that follows it in the same group.
func atomicPrefix(input string, tokens []Token, sp span) *lineNode {
	for i := tokenIndex(tokens, sp.start); i < len(tokens) && tokens[i].Offset < sp.end; i++ {
		t := tokens[i]
		if t.Type != TokenPunct || t.Value != "}" {
			continue
		}
		node, err := lineParser.ParseString("", input[sp.start:t.Offset+1])
		if err != nil || node.Atomic == nil {
			return nil
		}
		return node
	}
	return nil
}

// atomicMismatch reports an atomic pair whose load and store name
// different addresses
func atomicMismatch(input string, base int, node *lineNode, operation string) error {
	if node.Atomic == nil {
		return nil
	}
	load := instr.Address(node.Atomic.Load.Address.Index)
	store := instr.Address(node.Atomic.Store.Address.Index)
	if load == store {
		return nil
	}

	offset := base + node.Atomic.Pos.Offset
	line, column := positionAt(input, offset)
	cause := &AtomicMismatchError{
		Thread:       instr.ThreadID(node.Thread),
		LoadAddress:  load,
		StoreAddress: store,
		Offset:       offset,
		Line:         line,
		Column:       column,
	}
	return mterror.Wrap(cause, "atomic load and store address differ").
		WithCode(mterror.CodeAtomicAddressMismatch).
		WithOperation(operation).
		WithDetails(map[string]interface{}{
			"thread":        int(cause.Thread),
			"load_address":  int(load),
			"store_address": int(store),
			"offset":        offset,
			"line":          line,
			"column":        column,
		})
}

// acrossCut handles a group that ran out of input where the next group
// starts. Whitespace is insignificant, so "v0 ==\n1: sync" reads the next
// thread id as the value and fails at the colon after it. That failure is
// returned when the group does read through the thread id.
func acrossCut(input string, tokens []Token, sp span, err error) error {
	var perr participle.Error
	if sp.end >= len(input) || !errors.As(err, &perr) || perr.Position().Offset != sp.end-sp.start {
		return err
	}

	i := tokenIndex(tokens, sp.end)
	if i+1 >= len(tokens) {
		return err
	}
	colon := tokens[i+1]

	_, rerr := lineParser.ParseString("", input[sp.start:colon.Offset+1])
	var cerr participle.Error
	if errors.As(rerr, &cerr) && sp.start+cerr.Position().Offset == colon.Offset {
		return rerr
	}
	return err
}

// grammarError converts a participle failure inside the group starting at
// base into a GrammarError with absolute position
func grammarError(input string, tokens []Token, base int, err error, operation string) error {
	offset := base
	expected := ""

	var perr participle.Error
	if errors.As(err, &perr) {
		offset = base + perr.Position().Offset
		expected = expectedFrom(perr.Message())
	}

	line, column := positionAt(input, offset)
	cause := &GrammarError{
		Offset:   offset,
		Line:     line,
		Column:   column,
		Expected: expected,
		Found:    tokenAt(tokens, offset).Quoted(),
	}

	return mterror.Wrap(cause, "trace does not match grammar").
		WithCode(mterror.CodeTraceSyntax).
		WithOperation(operation).
		WithDetails(map[string]interface{}{
			"offset": offset,
			"line":   line,
			"column": column,
		})
}

// tokenAt returns the first token starting at or after offset. tokens
// always ends with EOF at the end of input.
func tokenAt(tokens []Token, offset int) Token {
	i := tokenIndex(tokens, offset)
	if i == len(tokens) {
		return tokens[len(tokens)-1]
	}
	return tokens[i]
}

func tokenIndex(tokens []Token, offset int) int {
	return sort.Search(len(tokens), func(i int) bool { return tokens[i].Offset >= offset })
}

// expectedFrom extracts the "(expected ...)" clause of a participle message
func expectedFrom(message string) string {
	const marker = "(expected "
	i := strings.LastIndex(message, marker)
	if i < 0 || !strings.HasSuffix(message, ")") {
		return ""
	}
	return message[i+len(marker) : len(message)-1]
}
