// Package render formats execution results for console display.
//
// It turns captured command output into annotated, optionally colored blocks,
// switching to a hex dump preview when a stream is not printable text. Styles
// come from lipgloss so color degrades cleanly on dumb terminals.
package render
