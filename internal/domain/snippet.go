package domain

import (
	"fmt"
	"strings"
)

// Snippet slices a context window of radius lines around a 1-indexed
// line, clipped to document bounds. The error line is marked with ">".
// Pure function; returns "" for out-of-range lines or empty text.
func Snippet(text string, line, radius int) string {
	if text == "" || line < 1 {
		return ""
	}
	lines := strings.Split(text, "\n")
	// A trailing newline yields a phantom empty last element
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if line > len(lines) {
		return ""
	}

	start := line - radius
	if start < 1 {
		start = 1
	}
	end := line + radius
	if end > len(lines) {
		end = len(lines)
	}

	width := len(fmt.Sprintf("%d", end))
	var b strings.Builder
	for n := start; n <= end; n++ {
		marker := " "
		if n == line {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %*d | %s\n", marker, width, n, lines[n-1])
	}
	return b.String()
}
