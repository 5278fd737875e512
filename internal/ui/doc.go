// Package ui renders CLI output with lipgloss.
//
// [Palette] holds the message styles used by commands and [RenderPreview] prints the head of a collected
// dataset as a table.
package ui
