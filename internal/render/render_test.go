package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace"
)

const sample = "0: v1 := 1\n0: sync\n0: v0 == 0\n1: v0 := 1\n1: {v1 == 1; v1 := 2}\n"

func parse(t *testing.T, input string) *trace.Trace {
	t.Helper()
	tr, err := trace.New(trace.Options{Logger: mtlog.Discard()}).Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tr
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TABLE", FormatTable, false},
		{" json ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTable_OneColumnPerThread(t *testing.T) {
	tr := parse(t, sample+"3: sync\n")
	out := Table(tr, Options{})

	var header string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "T0") {
			header = line
			break
		}
	}
	if header == "" {
		t.Fatalf("Table() has no header:\n%s", out)
	}
	if got := strings.Count(header, "│"); got != 4 {
		t.Errorf("header has %d separators, want 4 for 3 threads:\n%s", got, out)
	}
	for _, want := range []string{"T1", "T3", "#0 v1 := 1", "#2 v0 == 0", "#4 {v1 == 1; v1 := 2}", "#5 sync"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Table() without color should not contain escape sequences")
	}
}

func TestCells(t *testing.T) {
	tr := parse(t, sample)
	got := cells(tr.Thread(1))
	want := []string{"#3 v0 := 1", "#4 {v1 == 1; v1 := 2}"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("cells() = %v, want %v", got, want)
	}
}

func TestJSON(t *testing.T) {
	tr := parse(t, sample)
	data, err := JSON(tr)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if doc.ID != tr.ID.String() {
		t.Errorf("id = %q, want %q", doc.ID, tr.ID)
	}
	if len(doc.Threads[0]) != 3 || len(doc.Threads[1]) != 3 {
		t.Errorf("threads = %v", doc.Threads)
	}
	if doc.Threads[0][1].Address != nil || doc.Threads[0][1].Opcode != "SYNC" {
		t.Errorf("sync record = %+v", doc.Threads[0][1])
	}
	if doc.Summary.AtomicPairs != 1 {
		t.Errorf("summary = %+v", doc.Summary)
	}
	if !strings.Contains(string(data), `"atomic": true`) {
		t.Errorf("JSON() should mark atomic records:\n%s", data)
	}
}

func TestYAML(t *testing.T) {
	tr := parse(t, sample)
	data, err := YAML(tr)
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	store := doc.Threads[1][2]
	if store.Opcode != "STORE" || store.Value == nil || *store.Value != 2 || !store.Atomic {
		t.Errorf("atomic store = %+v", store)
	}
}

func TestWrite(t *testing.T) {
	tr := parse(t, sample)

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "1: {v1 == 1; v1 := 2}\n"},
		{FormatTable, "T1"},
		{FormatJSON, `"opcode": "LOAD"`},
		{FormatYAML, "opcode: STORE"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, tr, tt.format, Options{}); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Write() missing %q:\n%s", tt.want, buf.String())
			}
		})
	}

	if err := Write(&bytes.Buffer{}, tr, Format("xml"), Options{}); err == nil {
		t.Error("Write() with unknown format should fail")
	}
}

func TestSummary(t *testing.T) {
	tr := parse(t, sample)
	out := Summary(tr, Options{})

	for _, want := range []string{
		"Trace " + tr.ID.String(),
		"  threads       2\n",
		"  instructions  6\n",
		"  operations    5\n",
		"  atomic pairs  1\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary() missing %q:\n%s", want, out)
		}
	}
}

func TestVerdict(t *testing.T) {
	e := trace.New(trace.Options{Logger: mtlog.Discard()})
	parseErr := func(input string) error {
		_, err := e.Parse(input)
		return err
	}

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"accepted", nil, []string{"OK sb.trace"}},
		{"grammar", parseErr("0: sync\n1: v0 = 1\n"), []string{"REJECTED sb.trace [TRACE_SYNTAX]", "line 2, column 7"}},
		{"mismatch", parseErr("0: {v0 == 0; v1 := 1}"), []string{"[ATOMIC_ADDRESS_MISMATCH]", "loads v0 but stores v1"}},
		{"sanity", parseErr("0: v0 := 0"), []string{"REJECTED sb.trace [INITIAL_VALUE_WRITTEN]"}},
		{"not found", func() error { _, err := e.ParseFile("/nonexistent/sb.trace"); return err }(), []string{"ERROR sb.trace [NOT_FOUND] failed to open trace file: no such file or directory"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Verdict("sb.trace", tt.err, Options{})
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Verdict() = %q, missing %q", got, want)
				}
			}
		})
	}
}
