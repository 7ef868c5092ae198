package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	mtlog "github.com/msto63/memtrace/foundation/core/log"
	"github.com/msto63/memtrace/foundation/trace"
	"github.com/msto63/memtrace/foundation/trace/instr"
	"github.com/msto63/memtrace/pkg/core/version"
)

// Record is one archived trace
type Record struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Source      string       `json:"source"`
	CreatedAt   time.Time    `json:"created_at"`
	ToolVersion string       `json:"tool_version"`
	Trace       *trace.Trace `json:"-"`
}

// Entry is the listing view of an archived trace
type Entry struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	ToolVersion  string    `json:"tool_version" yaml:"tool_version"`
	Threads      int       `json:"threads" yaml:"threads"`
	Instructions int       `json:"instructions" yaml:"instructions"`
}

// Filter defines criteria for listing traces
type Filter struct {
	Name   string // substring match
	Limit  int
	Offset int
}

// Stats summarizes the archive
type Stats struct {
	Traces       int       `json:"traces" yaml:"traces"`
	Instructions int       `json:"instructions" yaml:"instructions"`
	Oldest       time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest       time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}

// TraceStore defines the interface for trace persistence
type TraceStore interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, filter Filter) ([]*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteTraceStore implements TraceStore using SQLite
type SQLiteTraceStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	engine *trace.Engine
	logger *mtlog.Logger
}

// SQLiteTraceConfig holds configuration for the SQLite store
type SQLiteTraceConfig struct {
	Path        string
	BusyTimeout time.Duration

	// Engine rebuilds loaded traces (default: trace.New with Logger)
	Engine *trace.Engine
	Logger *mtlog.Logger
}

// DefaultTraceConfig returns default configuration
func DefaultTraceConfig() SQLiteTraceConfig {
	return SQLiteTraceConfig{
		Path:        "./data/traces.db",
		BusyTimeout: 5 * time.Second,
	}
}

// NewSQLiteTraceStore opens or creates the archive at cfg.Path
func NewSQLiteTraceStore(cfg SQLiteTraceConfig) (*SQLiteTraceStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = mtlog.GetDefault()
	}
	if cfg.Engine == nil {
		cfg.Engine = trace.New(trace.Options{Logger: cfg.Logger})
	}

	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory", "store.Open")
	}

	dsn := cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	if cfg.BusyTimeout > 0 {
		dsn += fmt.Sprintf("&_busy_timeout=%d", cfg.BusyTimeout.Milliseconds())
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, dbError(err, "failed to open database", "store.Open")
	}

	store := &SQLiteTraceStore{
		db:     db,
		engine: cfg.Engine,
		logger: cfg.Logger.WithField("component", "trace-store"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema", "store.Open")
	}

	store.logger.Debug("trace archive opened", mtlog.Fields{"path": cfg.Path})
	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteTraceStore) initSchema() error {
	schema := `
	-- Archived traces
	CREATE TABLE IF NOT EXISTS traces (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		tool_version TEXT NOT NULL DEFAULT '',
		threads INTEGER NOT NULL,
		instruction_count INTEGER NOT NULL
	);

	-- Instructions in source order
	CREATE TABLE IF NOT EXISTS instructions (
		trace_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		id INTEGER NOT NULL,
		thread INTEGER NOT NULL,
		opcode TEXT NOT NULL,
		address INTEGER,
		value INTEGER,
		atomic INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (trace_id, seq),
		FOREIGN KEY (trace_id) REFERENCES traces(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_traces_created ON traces(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_traces_name ON traces(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save archives rec. The record id is the trace id.
func (s *SQLiteTraceStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil || rec.Trace == nil {
		return mterror.New("record has no trace").
			WithCode(mterror.CodeInvalidInput).
			WithOperation("store.Save")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = rec.Trace.ID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.ToolVersion == "" {
		rec.ToolVersion = version.Version
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction", "store.Save")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO traces (id, name, source, created_at, tool_version, threads, instruction_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID.String(), rec.Name, rec.Source, rec.CreatedAt, rec.ToolVersion,
		len(rec.Trace.Threads), rec.Trace.Len())
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
			return mterror.Wrap(err, "trace already archived").
				WithCode(mterror.CodeInvalidInput).
				WithOperation("store.Save").
				WithDetail("id", rec.ID.String())
		}
		return dbError(err, "failed to insert trace", "store.Save")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO instructions (trace_id, seq, id, thread, opcode, address, value, atomic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return dbError(err, "failed to prepare statement", "store.Save")
	}
	defer stmt.Close()

	for seq, in := range rec.Trace.Instructions {
		var addr, value sql.NullInt64
		if a, ok := in.Address(); ok {
			addr = sql.NullInt64{Int64: int64(a), Valid: true}
		}
		if v, ok := in.Value(); ok {
			value = sql.NullInt64{Int64: int64(v), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, rec.ID.String(), seq, int64(in.ID), int64(in.Thread),
			in.Opcode.String(), addr, value, in.Atomic); err != nil {
			return dbError(err, "failed to insert instruction", "store.Save")
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit transaction", "store.Save")
	}

	s.logger.Info("trace archived", mtlog.Fields{
		"id":           rec.ID.String(),
		"name":         rec.Name,
		"instructions": rec.Trace.Len(),
	})
	return nil
}

// Get loads an archived trace and rebuilds it
func (s *SQLiteTraceStore) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := &Record{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT name, source, created_at, tool_version FROM traces WHERE id = ?
	`, id.String()).Scan(&rec.Name, &rec.Source, &rec.CreatedAt, &rec.ToolVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mterror.New("trace not found").
			WithCode(mterror.CodeNotFound).
			WithOperation("store.Get").
			WithDetail("id", id.String())
	}
	if err != nil {
		return nil, dbError(err, "failed to get trace", "store.Get")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread, opcode, address, value, atomic
		FROM instructions WHERE trace_id = ? ORDER BY seq
	`, id.String())
	if err != nil {
		return nil, dbError(err, "failed to query instructions", "store.Get")
	}
	defer rows.Close()

	var flat []instr.Instruction
	for rows.Next() {
		in, err := scanInstruction(rows)
		if err != nil {
			return nil, err
		}
		flat = append(flat, in)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read instructions", "store.Get")
	}

	t, err := s.engine.FromInstructions(id, flat)
	if err != nil {
		return nil, mterror.Wrap(err, "archived trace is inconsistent").
			WithOperation("store.Get").
			WithDetail("id", id.String())
	}
	rec.Trace = t
	return rec, nil
}

func scanInstruction(rows *sql.Rows) (instr.Instruction, error) {
	var (
		id, thread  int64
		opcode      string
		addr, value sql.NullInt64
		atomic      bool
	)
	if err := rows.Scan(&id, &thread, &opcode, &addr, &value, &atomic); err != nil {
		return instr.Instruction{}, dbError(err, "failed to scan instruction", "store.Get")
	}

	op, err := instr.ParseOpcode(opcode)
	if err != nil {
		return instr.Instruction{}, mterror.Wrap(err, "unknown opcode in archive").
			WithCode(mterror.CodeDatabaseError).
			WithOperation("store.Get")
	}

	var raw instr.Raw
	switch op {
	case instr.OpLoad:
		raw = instr.NewLoad(instr.ThreadID(thread), instr.Address(addr.Int64), instr.Value(value.Int64), atomic)
	case instr.OpStore:
		raw = instr.NewStore(instr.ThreadID(thread), instr.Address(addr.Int64), instr.Value(value.Int64), atomic)
	default:
		raw = instr.NewSync(instr.ThreadID(thread))
	}
	return raw.Assign(instr.ID(id)), nil
}

// List returns archived traces, newest first
func (s *SQLiteTraceStore) List(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, name, created_at, tool_version, threads, instruction_count FROM traces WHERE 1=1`
	var args []interface{}

	if filter.Name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+filter.Name+"%")
	}

	query += " ORDER BY created_at DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to list traces", "store.List")
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		var e Entry
		var id string
		if err := rows.Scan(&id, &e.Name, &e.CreatedAt, &e.ToolVersion, &e.Threads, &e.Instructions); err != nil {
			return nil, dbError(err, "failed to scan trace", "store.List")
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, dbError(err, "invalid trace id in archive", "store.List")
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// Delete removes an archived trace and its instructions
func (s *SQLiteTraceStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, id.String())
	if err != nil {
		return dbError(err, "failed to delete trace", "store.Delete")
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return mterror.New("trace not found").
			WithCode(mterror.CodeNotFound).
			WithOperation("store.Delete").
			WithDetail("id", id.String())
	}

	s.logger.Info("trace deleted", mtlog.Fields{"id": id.String()})
	return nil
}

// Stats returns archive statistics
func (s *SQLiteTraceStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{}
	var total sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), SUM(instruction_count) FROM traces
	`).Scan(&stats.Traces, &total); err != nil {
		return nil, dbError(err, "failed to count traces", "store.Stats")
	}
	stats.Instructions = int(total.Int64)

	if stats.Traces == 0 {
		return stats, nil
	}

	// MIN/MAX over DATETIME come back as text, so read the boundary rows
	if err := s.db.QueryRowContext(ctx, `
		SELECT created_at FROM traces ORDER BY created_at ASC LIMIT 1
	`).Scan(&stats.Oldest); err != nil {
		return nil, dbError(err, "failed to read oldest trace", "store.Stats")
	}
	if err := s.db.QueryRowContext(ctx, `
		SELECT created_at FROM traces ORDER BY created_at DESC LIMIT 1
	`).Scan(&stats.Newest); err != nil {
		return nil, dbError(err, "failed to read newest trace", "store.Stats")
	}

	return stats, nil
}

// Close closes the database connection
func (s *SQLiteTraceStore) Close() error {
	return s.db.Close()
}

func dbError(err error, message, operation string) error {
	return mterror.Wrap(err, message).
		WithCode(mterror.CodeDatabaseError).
		WithOperation(operation)
}
