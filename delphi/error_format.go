package delphi

import (
	"fmt"
	"strconv"
	"strings"
)

const codeFrameTabWidth = 4

// formatCodeFrame renders the offending source line with a caret under pos.
// Tabs are expanded so the caret lines up in a terminal.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineRunes := []rune(lines[pos.Line-1])
	column := max(pos.Column, 1)
	column = min(column, len(lineRunes)+1)

	var text strings.Builder
	caretOffset := 0
	for i, r := range lineRunes {
		width := 1
		if r == '\t' {
			width = codeFrameTabWidth
			text.WriteString(strings.Repeat(" ", width))
		} else {
			text.WriteRune(r)
		}
		if i < column-1 {
			caretOffset += width
		}
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		text.String(),
		gutterPad,
		strings.Repeat(" ", caretOffset),
	)
}
