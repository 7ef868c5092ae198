// Package log provides structured logging for memtrace.
//
// Package: log
// Title: memtrace Structured Logging
// Description: Structured logger with levels, persistent fields, a
//              correlation id per parsed trace, JSON/text/console/logfmt
//              output and timers for parse stages. Errors from the core
//              error package are logged with their code and details.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-19 v0.2.0: Trace correlation ids, dropped async and audit paths
//
// Usage:
//
//	logger := log.NewWithConfig(log.Config{
//		Level:  log.LevelDebug,
//		Format: log.FormatText,
//		Name:   "parser",
//	})
//
//	logger.Debug("segment parsed", log.Fields{"offset": 12, "groups": 1})
//
//	timer := logger.StartTimer("parse")
//	if err := parse(input); err != nil {
//		timer.StopWithError(err)
//		return err
//	}
//	timer.Stop()
package log
