// ============================================================================
// memtrace - Memory Trace Toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating command-line loggers
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	mtlog "github.com/msto63/memtrace/foundation/core/log"
)

var (
	// Global FileWriter instance (singleton)
	globalFileWriter *FileWriter
	fileWriterMu     sync.Mutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name
	Name string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format: json, text, console or logfmt (default: console)
	Format string

	// Log file (optional); lines are written to Output and the file
	File string

	// Output (default: os.Stderr)
	Output io.Writer

	// Caller information in entries
	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  mtlog.DefaultLevel().String(),
		Format: mtlog.FormatConsole.String(),
	}
}

// NewLogger creates a logger. Unknown levels and formats fall back to the
// defaults; an unusable log file is reported and skipped.
func NewLogger(cfg LoggerConfig) (*mtlog.Logger, error) {
	level, err := mtlog.ParseLevel(cfg.Level)
	if err != nil {
		level = mtlog.DefaultLevel()
	}

	format, err := mtlog.ParseFormat(cfg.Format)
	if err != nil {
		format = mtlog.FormatConsole
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var fileErr error
	if cfg.File != "" {
		fw, err := getOrCreateFileWriter(cfg.File)
		if err != nil {
			fileErr = err
		} else {
			output = io.MultiWriter(output, fw)
		}
	}

	logger := mtlog.NewWithConfig(mtlog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.EnableCaller,
	})

	return logger, fileErr
}

// NewSimpleLogger creates a console logger at the default level
func NewSimpleLogger(name string) *mtlog.Logger {
	logger, _ := NewLogger(DefaultLoggerConfig(name))
	return logger
}

// getOrCreateFileWriter returns the global FileWriter, creating it if
// necessary
func getOrCreateFileWriter(path string) (*FileWriter, error) {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()

	if globalFileWriter != nil {
		return globalFileWriter, nil
	}

	writer, err := NewFileWriter(DefaultFileWriterConfig(path))
	if err != nil {
		return nil, err
	}
	globalFileWriter = writer
	return writer, nil
}

// CloseGlobalFileWriter flushes and closes the global FileWriter
func CloseGlobalFileWriter() error {
	fileWriterMu.Lock()
	defer fileWriterMu.Unlock()

	if globalFileWriter != nil {
		err := globalFileWriter.Close()
		globalFileWriter = nil
		return err
	}
	return nil
}
