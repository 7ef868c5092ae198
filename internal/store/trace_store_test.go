package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/pkg/core/version"
)

const sample = "0: v1 := 1\n0: sync\n1: {v1 == 1; v1 := 2}\n1: M[4] == 0\n"

func newTestStore(t *testing.T) *SQLiteTraceStore {
	t.Helper()
	store, err := NewSQLiteTraceStore(SQLiteTraceConfig{
		Path:   filepath.Join(t.TempDir(), "archive", "traces.db"),
		Logger: mtlog.Discard(),
	})
	if err != nil {
		t.Fatalf("NewSQLiteTraceStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func parse(t *testing.T, input string) *trace.Trace {
	t.Helper()
	tr, err := trace.New(trace.Options{Logger: mtlog.Discard()}).Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tr
}

func TestSQLiteTraceStore_SaveGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	tr := parse(t, sample)

	rec := &Record{Name: "message passing", Source: sample, Trace: tr}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rec.ID != tr.ID {
		t.Errorf("ID = %v, want trace id %v", rec.ID, tr.ID)
	}
	if rec.ToolVersion != version.Version {
		t.Errorf("ToolVersion = %q, want %q", rec.ToolVersion, version.Version)
	}

	got, err := store.Get(ctx, tr.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != rec.Name || got.Source != sample {
		t.Errorf("Get() = %q/%q", got.Name, got.Source)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
	if !reflect.DeepEqual(got.Trace.Instructions, tr.Instructions) {
		t.Errorf("Instructions = %v, want %v", got.Trace.Instructions, tr.Instructions)
	}
	if !reflect.DeepEqual(got.Trace.Threads, tr.Threads) {
		t.Errorf("Threads = %v, want %v", got.Trace.Threads, tr.Threads)
	}
}

func TestSQLiteTraceStore_SaveRejects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &Record{Name: "empty"}); !mterror.HasCode(err, mterror.CodeInvalidInput) {
		t.Errorf("Save(no trace) error = %v, want %v", err, mterror.CodeInvalidInput)
	}

	tr := parse(t, sample)
	if err := store.Save(ctx, &Record{Trace: tr, Source: sample}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, &Record{Trace: tr, Source: sample}); !mterror.HasCode(err, mterror.CodeInvalidInput) {
		t.Errorf("Save(duplicate) error = %v, want %v", err, mterror.CodeInvalidInput)
	}
}

func TestSQLiteTraceStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	if !mterror.HasCode(err, mterror.CodeNotFound) {
		t.Errorf("Get() error = %v, want %v", err, mterror.CodeNotFound)
	}
}

func TestSQLiteTraceStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	names := []string{"sb", "mp", "sb+sync"}
	for i, name := range names {
		rec := &Record{
			Name:      name,
			Source:    sample,
			Trace:     parse(t, sample),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all newest first", Filter{}, []string{"sb+sync", "mp", "sb"}},
		{"name filter", Filter{Name: "sb"}, []string{"sb+sync", "sb"}},
		{"limit", Filter{Limit: 1}, []string{"sb+sync"}},
		{"offset", Filter{Offset: 1}, []string{"mp", "sb"}},
		{"no match", Filter{Name: "iriw"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.Name
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List() = %v, want %v", got, tt.want)
			}
		})
	}

	entries, _ := store.List(ctx, Filter{Limit: 1})
	if entries[0].Threads != 2 || entries[0].Instructions != 5 {
		t.Errorf("Entry = %+v, want 2 threads and 5 instructions", entries[0])
	}
}

func TestSQLiteTraceStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	tr := parse(t, sample)

	if err := store.Save(ctx, &Record{Trace: tr, Source: sample}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, tr.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, tr.ID); !mterror.HasCode(err, mterror.CodeNotFound) {
		t.Errorf("Get() after Delete() error = %v", err)
	}
	if err := store.Delete(ctx, tr.ID); !mterror.HasCode(err, mterror.CodeNotFound) {
		t.Errorf("Delete() twice error = %v, want %v", err, mterror.CodeNotFound)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Instructions != 0 {
		t.Errorf("Instructions after delete = %d, want 0", stats.Instructions)
	}
}

func TestSQLiteTraceStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Traces != 0 || !stats.Oldest.IsZero() {
		t.Errorf("Stats() on empty archive = %+v", stats)
	}

	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{last, first} {
		if err := store.Save(ctx, &Record{Trace: parse(t, sample), Source: sample, CreatedAt: at}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Traces != 2 || stats.Instructions != 10 {
		t.Errorf("Stats() = %+v, want 2 traces and 10 instructions", stats)
	}
	if !stats.Oldest.Equal(first) || !stats.Newest.Equal(last) {
		t.Errorf("Oldest/Newest = %v/%v, want %v/%v", stats.Oldest, stats.Newest, first, last)
	}
}

func TestSQLiteTraceStore_Interface(t *testing.T) {
	var _ TraceStore = (*SQLiteTraceStore)(nil)
}
