package render

import (
	"errors"
	"fmt"
	"strings"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	"github.com/msto63/memtrace/foundation/trace"
)

// Summary renders a labelled block of trace counts
func Summary(t *trace.Trace, opts Options) string {
	s := t.Summary()

	var b strings.Builder
	b.WriteString(opts.paint(HeaderStyle, fmt.Sprintf("Trace %s", t.ID)))
	b.WriteByte('\n')

	rows := []struct {
		label string
		value int
	}{
		{"threads", s.Threads},
		{"instructions", s.Instructions},
		{"operations", s.Operations},
		{"loads", s.Loads},
		{"stores", s.Stores},
		{"syncs", s.Syncs},
		{"atomic pairs", s.AtomicPairs},
		{"addresses", s.Addresses},
	}
	for _, r := range rows {
		label := fmt.Sprintf("%-14s", r.label)
		if opts.Color {
			label = LabelStyle.Render(r.label)
		}
		b.WriteString("  ")
		b.WriteString(label)
		b.WriteString(opts.paint(ValueStyle, fmt.Sprintf("%d", r.value)))
		b.WriteByte('\n')
	}
	return b.String()
}

// Verdict renders the outcome of a parse as one line. Rejections carry
// the error code and, for grammar failures, the position. Tool failures
// name their root cause.
func Verdict(name string, err error, opts Options) string {
	if err == nil {
		return fmt.Sprintf("%s %s", opts.paint(AcceptedStyle, "OK"), name)
	}

	code := mterror.GetCode(err)
	label, style := "ERROR", FailedStyle
	if code.IsTraceRejection() {
		label, style = "REJECTED", RejectedStyle
	}

	msg := err.Error()
	var e *mterror.Error
	if errors.As(err, &e) {
		msg = e.Message()
		if root := e.RootCause(); !code.IsTraceRejection() && root != error(e) {
			msg += ": " + root.Error()
		}
	}

	line := fmt.Sprintf("%s %s [%s] %s", opts.paint(style, label), name, code, msg)
	if detail := position(err); detail != "" {
		line += " " + opts.paint(DetailStyle, detail)
	}
	return line
}

func position(err error) string {
	if ge, ok := trace.AsGrammarError(err); ok {
		return ge.Error()
	}
	if me, ok := trace.AsAtomicMismatch(err); ok {
		return me.Error()
	}
	return ""
}
