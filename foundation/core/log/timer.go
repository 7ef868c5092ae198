// File: timer.go
// Title: Stage Timer
// Description: Measures a named operation and logs its duration when
//              stopped. The trace engine times each parse stage with it.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with performance timing
// - 2026-10-19 v0.2.0: Single logAt path, Stop returns the elapsed time once
// - 2026-10-19 v0.3.0: Failures log at the level of their error severity

package log

import (
	"time"
)

// Timer represents a timer for measuring operation duration
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
	}
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop stops the timer and logs the elapsed time at debug. A stopped timer
// returns 0 and logs nothing.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true

	elapsed := t.Elapsed()
	t.logAt(LevelDebug, t.operation+" completed", elapsed, nil, nil)
	return elapsed
}

// StopWithError stops the timer and logs err with the elapsed time. The
// level follows the error severity, as with Logger.LogError.
func (t *Timer) StopWithError(err error) time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true

	elapsed := t.Elapsed()
	level, fields := errorFields(err)
	fields["success"] = false
	t.logAt(level, t.operation+" failed", elapsed, err, fields)
	return elapsed
}

// Checkpoint logs an intermediate timing at debug level
func (t *Timer) Checkpoint(name string, fields ...Fields) {
	if t.stopped || t.logger == nil {
		return
	}

	combined := t.fields.Merge(Fields{
		"operation":  t.operation,
		"checkpoint": name,
		"elapsed_ms": durationMillis(t.Elapsed()),
	})
	for _, f := range fields {
		combined = combined.Merge(f)
	}

	t.logger.Debug(t.operation+" checkpoint: "+name, combined)
}

// Cancel stops the timer without logging
func (t *Timer) Cancel() {
	t.stopped = true
}

func (t *Timer) logAt(level Level, message string, elapsed time.Duration, err error, extra Fields) {
	if t.logger == nil {
		return
	}

	fields := t.fields.Merge(extra).Merge(Fields{
		"operation":   t.operation,
		"duration_ms": durationMillis(elapsed),
	})
	t.logger.log(level, message, err, fields)
}
