// ============================================================================
// memtrace - Memory Trace Toolkit
// ============================================================================
//
// Package:     render
// Description: Styles for terminal output
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Color Palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(14)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	AcceptedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	RejectedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	FailedStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	DetailStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// paint renders s with style when color is enabled
func (o Options) paint(style lipgloss.Style, s string) string {
	if !o.Color {
		return s
	}
	return style.Render(s)
}
