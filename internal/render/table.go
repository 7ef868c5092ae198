package render

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/foundation/trace/instr"
)

// Table renders t with one column per thread. Each cell holds one
// instruction group of that thread, "#id op", in program order; an atomic
// pair shares a cell.
func Table(t *trace.Trace, opts Options) string {
	tids := t.ThreadIDs()

	columns := make([][]string, len(tids))
	rows := 0
	for i, tid := range tids {
		columns[i] = cells(t.Thread(tid))
		if len(columns[i]) > rows {
			rows = len(columns[i])
		}
	}

	tw := table.NewWriter()
	tw.SetTitle(fmt.Sprintf("Trace %s", t.ID))

	header := make(table.Row, len(tids))
	for i, tid := range tids {
		header[i] = fmt.Sprintf("T%d", tid)
	}
	tw.AppendHeader(header)

	for r := 0; r < rows; r++ {
		row := make(table.Row, len(tids))
		for c := range tids {
			if r < len(columns[c]) {
				row[c] = columns[c][r]
			}
		}
		tw.AppendRow(row)
	}

	if opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
		tw.Style().Format.Header = text.FormatDefault
		tw.Style().Title.Align = text.AlignLeft
	}

	return tw.Render()
}

func cells(thread []instr.Instruction) []string {
	var out []string
	for i := 0; i < len(thread); i++ {
		in := thread[i]
		if in.Atomic && in.IsLoad() && i+1 < len(thread) && thread[i+1].ID == in.ID {
			out = append(out, fmt.Sprintf("#%d {%s; %s}", in.ID, in.Op(), thread[i+1].Op()))
			i++
			continue
		}
		out = append(out, fmt.Sprintf("#%d %s", in.ID, in.Op()))
	}
	return out
}
