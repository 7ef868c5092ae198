// ============================================================================
// memtrace - Memory Trace Toolkit
// ============================================================================
//
// Package:     logging
// Description: Batched log file writer
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileWriter implements io.Writer. Log lines are buffered and appended to
// a file in batches by a background worker.
type FileWriter struct {
	// Configuration
	batchSize   int
	flushPeriod time.Duration

	file *os.File

	// Batching
	buffer   [][]byte
	bufferMu sync.Mutex
	flushCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	closed   bool
	lastErr  error
}

// FileWriterConfig holds configuration for FileWriter
type FileWriterConfig struct {
	Path        string        // Log file, created with its directory if missing
	BatchSize   int           // Number of lines to batch (default: 100)
	FlushPeriod time.Duration // How often to flush (default: 1s)
}

// DefaultFileWriterConfig returns default configuration
func DefaultFileWriterConfig(path string) FileWriterConfig {
	return FileWriterConfig{
		Path:        path,
		BatchSize:   100,
		FlushPeriod: time.Second,
	}
}

// NewFileWriter opens the log file and starts the flush worker
func NewFileWriter(cfg FileWriterConfig) (*FileWriter, error) {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushPeriod <= 0 {
		cfg.FlushPeriod = time.Second
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	w := &FileWriter{
		batchSize:   cfg.BatchSize,
		flushPeriod: cfg.FlushPeriod,
		file:        f,
		buffer:      make([][]byte, 0, cfg.BatchSize),
		flushCh:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	go w.flushWorker()

	return w, nil
}

// Write implements io.Writer. p is copied; the logger reuses its buffers.
func (w *FileWriter) Write(p []byte) (n int, err error) {
	line := make([]byte, len(p))
	copy(line, p)

	w.bufferMu.Lock()
	if w.closed {
		w.bufferMu.Unlock()
		return 0, os.ErrClosed
	}
	w.buffer = append(w.buffer, line)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.bufferMu.Unlock()

	// Trigger flush if buffer is full
	if shouldFlush {
		select {
		case w.flushCh <- struct{}{}:
		default:
		}
	}

	return len(p), nil
}

// flushWorker periodically flushes the buffer
func (w *FileWriter) flushWorker() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			// Final flush
			w.flush()
			return
		case <-w.flushCh:
			w.flush()
		case <-ticker.C:
			w.flush()
		}
	}
}

// flush appends buffered lines to the file
func (w *FileWriter) flush() {
	w.bufferMu.Lock()
	if len(w.buffer) == 0 {
		w.bufferMu.Unlock()
		return
	}
	lines := w.buffer
	w.buffer = make([][]byte, 0, w.batchSize)
	w.bufferMu.Unlock()

	for _, line := range lines {
		if _, err := w.file.Write(line); err != nil {
			w.bufferMu.Lock()
			w.lastErr = err
			w.bufferMu.Unlock()
			return
		}
	}
}

// Close flushes pending lines and closes the file. It reports the first
// write error seen by the worker, if any.
func (w *FileWriter) Close() error {
	w.bufferMu.Lock()
	if w.closed {
		w.bufferMu.Unlock()
		return nil
	}
	w.closed = true
	w.bufferMu.Unlock()

	close(w.stopCh)
	<-w.doneCh // Wait for final flush

	err := w.file.Close()
	if w.lastErr != nil {
		return w.lastErr
	}
	return err
}

var _ io.WriteCloser = (*FileWriter)(nil)
