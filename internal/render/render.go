// Package render turns parsed traces and parse outcomes into text for the
// terminal: canonical trace text, a litmus-style table with one column per
// thread, JSON and YAML documents, a summary block and a verdict line.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/foundation/trace/instr"
)

// Format selects an output representation
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, table, json or yaml)", s)
	}
}

// Options controls rendering
type Options struct {
	// Color enables lipgloss styling and colored tables
	Color bool
}

// Document is the structured form of a trace
type Document struct {
	ID      string                              `json:"id" yaml:"id"`
	Summary trace.Summary                       `json:"summary" yaml:"summary"`
	Threads map[instr.ThreadID][]InstructionDoc `json:"threads" yaml:"threads"`
}

// InstructionDoc is one instruction record of a Document
type InstructionDoc struct {
	ID      instr.ID       `json:"id" yaml:"id"`
	Opcode  string         `json:"opcode" yaml:"opcode"`
	Address *instr.Address `json:"address,omitempty" yaml:"address,omitempty"`
	Value   *instr.Value   `json:"value,omitempty" yaml:"value,omitempty"`
	Atomic  bool           `json:"atomic,omitempty" yaml:"atomic,omitempty"`
	Text    string         `json:"text" yaml:"text"`
}

// NewDocument builds the structured form of t
func NewDocument(t *trace.Trace) Document {
	doc := Document{
		ID:      t.ID.String(),
		Summary: t.Summary(),
		Threads: make(map[instr.ThreadID][]InstructionDoc, len(t.Threads)),
	}
	for _, tid := range t.ThreadIDs() {
		for _, in := range t.Thread(tid) {
			d := InstructionDoc{
				ID:     in.ID,
				Opcode: in.Opcode.String(),
				Atomic: in.Atomic,
				Text:   in.Op(),
			}
			if addr, ok := in.Address(); ok {
				d.Address = &addr
			}
			if value, ok := in.Value(); ok {
				d.Value = &value
			}
			doc.Threads[tid] = append(doc.Threads[tid], d)
		}
	}
	return doc
}

// Text renders t in the canonical trace grammar
func Text(t *trace.Trace) (string, error) {
	return t.Format()
}

// JSON renders t as an indented JSON document
func JSON(t *trace.Trace) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(t), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAML renders t as a YAML document
func YAML(t *trace.Trace) ([]byte, error) {
	return yaml.Marshal(NewDocument(t))
}

// Write renders t in format f to w
func Write(w io.Writer, t *trace.Trace, f Format, opts Options) error {
	var (
		out []byte
		err error
	)

	switch f {
	case FormatText, "":
		var s string
		s, err = Text(t)
		out = []byte(s)
	case FormatTable:
		out = []byte(Table(t, opts) + "\n")
	case FormatJSON:
		out, err = JSON(t)
	case FormatYAML:
		out, err = YAML(t)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(out)
	return err
}
