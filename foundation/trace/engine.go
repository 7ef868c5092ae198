// File: engine.go
// Title: Trace Parse Engine
// Description: Engine runs recognizer, assembler and checks over complete
//              inputs. It also reads inputs from files and readers and
//              rebuilds traces from stored instruction sequences.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
// - 2026-10-19 v0.1.1: Failed parses stop the timer with the error

package trace

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/google/uuid"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace/assembler"
	"github.com/msto63/memtrace/foundation/trace/checker"
	"github.com/msto63/memtrace/foundation/trace/instr"
	"github.com/msto63/memtrace/foundation/trace/parser"
)

// Options configures the engine
type Options struct {
	// Logger for engine operations (optional, defaults to default logger)
	Logger *mtlog.Logger

	// MaxInputLength limits input size in bytes (default: 1 MiB, negative
	// disables the limit)
	MaxInputLength int

	// Checks run over every assembled trace (default: checker.Default())
	Checks []checker.Check
}

// Engine parses complete trace inputs. It holds no per-parse state and is
// safe for concurrent use.
type Engine struct {
	logger  *mtlog.Logger
	options Options
}

// New creates an engine with the given options
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mtlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = parser.DefaultMaxInputLength
	}
	if opts.Checks == nil {
		opts.Checks = checker.Default()
	}

	return &Engine{
		logger:  opts.Logger.WithField("component", "trace-engine"),
		options: opts,
	}
}

func (e *Engine) newParser(logger *mtlog.Logger) *parser.Parser {
	return parser.New(parser.Options{
		Logger:         logger,
		MaxInputLength: e.options.MaxInputLength,
	})
}

// Parse runs the full pipeline over input
func (e *Engine) Parse(input string) (*Trace, error) {
	id := uuid.New()
	logger := e.logger.WithCorrelationID(id.String())
	timer := logger.StartTimer("parse").WithField("bytes", len(input))

	raws, err := e.newParser(logger).Parse(input)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	timer.Checkpoint("recognized", mtlog.Fields{"records": len(raws)})

	t, err := e.build(id, assembler.Assemble(raws))
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	timer.WithField("threads", len(t.Threads)).WithField("instructions", t.Len()).Stop()
	return t, nil
}

// ParseGroup recognizes exactly one instruction group
func (e *Engine) ParseGroup(fragment string) ([]instr.Raw, error) {
	return e.newParser(e.logger).ParseGroup(fragment)
}

// ParseReader reads r to the end and parses its content. Reading stops
// one byte past the input limit.
func (e *Engine) ParseReader(r io.Reader) (*Trace, error) {
	if limit := e.options.MaxInputLength; limit > 0 {
		r = io.LimitReader(r, int64(limit)+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mterror.Wrap(err, "failed to read trace input").
			WithCode(mterror.CodeInternal).
			WithOperation("trace.ParseReader")
	}
	return e.Parse(string(data))
}

// ParseFile parses the trace stored at path
func (e *Engine) ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		code := mterror.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = mterror.CodeNotFound
		}
		return nil, mterror.Wrap(err, "failed to open trace file").
			WithCode(code).
			WithOperation("trace.ParseFile").
			WithDetail("path", path)
	}
	defer f.Close()

	e.logger.Debug("parsing trace file", mtlog.Fields{"path": path})
	return e.ParseReader(f)
}

// FromInstructions rebuilds a trace from an id-assigned sequence, e.g.
// one loaded from the archive. The identifiers must be exactly those the
// assembler would assign, and the checks are run again.
func (e *Engine) FromInstructions(id uuid.UUID, flat []instr.Instruction) (*Trace, error) {
	raws := instr.Raws(flat)
	for _, g := range instr.Groups(raws) {
		if _, err := instr.FormatGroup(g); err != nil {
			return nil, mterror.Wrap(err, "malformed instruction sequence").
				WithCode(mterror.CodeInvalidInput).
				WithOperation("trace.FromInstructions")
		}
	}

	for i, want := range assembler.Assemble(raws) {
		if flat[i].ID != want.ID {
			return nil, mterror.Newf("instruction %d has id %d, assembly assigns %d", i, flat[i].ID, want.ID).
				WithCode(mterror.CodeInvalidInput).
				WithOperation("trace.FromInstructions")
		}
	}

	return e.build(id, flat)
}

func (e *Engine) build(id uuid.UUID, instrs []instr.Instruction) (*Trace, error) {
	checked, err := checker.Run(instrs, e.options.Checks...)
	if err != nil {
		return nil, err
	}

	return &Trace{
		ID:           id,
		Instructions: checked,
		Threads:      assembler.Split(checked),
	}, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(Options{})
})

// Parse parses input with a default engine
func Parse(input string) (*Trace, error) {
	return defaultEngine().Parse(input)
}

// ParseGroup recognizes one instruction group with a default engine
func ParseGroup(fragment string) ([]instr.Raw, error) {
	return defaultEngine().ParseGroup(fragment)
}

// FromInstructions rebuilds a trace with a default engine
func FromInstructions(id uuid.UUID, flat []instr.Instruction) (*Trace, error) {
	return defaultEngine().FromInstructions(id, flat)
}
