// ============================================================================
// memtrace - Memory Trace Toolkit
// ============================================================================
//
// Package:     version
// Description: Central version management for the tool and its archive
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Tool version, stored with every archived trace
	Version = "0.1.0"

	// Grammar version of the accepted trace text format
	Grammar = "1.0.0"

	// Schema version of the trace archive
	Schema = "1.0.0"
)

// Build information, set at link time with -ldflags "-X ..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Component returns the version for a given component name
func Component(name string) string {
	switch name {
	case "grammar":
		return Grammar
	case "schema":
		return Schema
	default:
		return Version
	}
}

// String returns the one-line version banner
func String() string {
	return fmt.Sprintf("memtrace %s (grammar %s, schema %s, commit %s, built %s, %s)",
		Version, Grammar, Schema, Commit, BuildDate, runtime.Version())
}
