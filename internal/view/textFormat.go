package view

import (
	"strings"
)

// TruncateTextToWidth Cuts off front of text and adds ellipsis to indicate that text was shortened. Fills lines with spaces.
func TruncateTextToWidth(width int, out string) string {
	return mapLines(width, out, func(line []rune) string {
		if width > 3 {
			return "..." + string(line[len(line)-width+3:])
		}
		return string(line[len(line)-width:])
	})
}

// TrimTextToWidth Cuts off end of every line if longer than width. Fills lines to width with spaces.
func TrimTextToWidth(width int, out string) string {
	return mapLines(width, out, func(line []rune) string {
		return string(line[:width])
	})
}

// mapLines pads every line to width and hands longer ones to shorten. A width
// below 1 leaves out untouched.
func mapLines(width int, out string, shorten func(line []rune) string) string {
	if width < 1 {
		return out
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		runes := []rune(line)
		if len(runes) > width {
			lines[i] = shorten(runes)
		} else {
			lines[i] = line + strings.Repeat(" ", width-len(runes))
		}
	}
	return strings.Join(lines, "\n")
}
