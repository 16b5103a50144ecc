package detect

import (
	"regexp"
	"strconv"
	"strings"
)

// ProcessMatch is the structured record extracted from raw process
// output: an error type+message, optionally paired with a source
// location found in the same text.
type ProcessMatch struct {
	Kind    string // e.g. "TypeError", "SyntaxError"
	Message string
	File    string // "" when no companion frame resolved
	Line    int    // 1-indexed, 0 when unknown
	Col     int
}

var (
	// Generic "<WordError>: <message>" form (TypeError, ReferenceError,
	// SyntaxError, panics wrapped as RuntimeError, ...)
	errorFormRe = regexp.MustCompile(`\b([A-Z][A-Za-z]*(?:Error|Exception)):\s+(.+)`)

	// node / V8 stack frames: "at fn (path:line:col)" or "at path:line:col"
	nodeFrameRe = regexp.MustCompile(`\bat\s+(?:\S+\s+\()?([^()\s]+?):(\d+):(\d+)\)?`)

	// Generic "path:line:col" and "path:line" frames (tsc, go build, rustc)
	plainFrameRe = regexp.MustCompile(`(?m)(?:^|\s|\()((?:[A-Za-z]:)?[\w@./\\-]+\.[A-Za-z]\w*):(\d+)(?::(\d+))?`)

	// Python tracebacks: File "path", line N
	pythonFrameRe = regexp.MustCompile(`File\s+"([^"]+)",\s+line\s+(\d+)`)
)

// ParseProcessOutput extracts an error record from a chunk of raw
// process output. Returns nil when no error form is present. Pure
// function; file resolution against project roots is the caller's job.
func ParseProcessOutput(chunk string) *ProcessMatch {
	em := errorFormRe.FindStringSubmatch(chunk)
	if em == nil {
		return nil
	}

	m := &ProcessMatch{
		Kind:    em[1],
		Message: strings.TrimSpace(em[2]),
	}

	if file, line, col, ok := findFrame(chunk); ok {
		m.File = file
		m.Line = line
		m.Col = col
	}
	return m
}

// findFrame looks for a companion source location in the same chunk,
// trying the most specific frame shapes first.
func findFrame(chunk string) (file string, line, col int, ok bool) {
	if fm := pythonFrameRe.FindStringSubmatch(chunk); fm != nil {
		line, _ = strconv.Atoi(fm[2])
		return fm[1], line, 0, true
	}
	if fm := nodeFrameRe.FindStringSubmatch(chunk); fm != nil {
		if !strings.HasPrefix(fm[1], "node:") {
			line, _ = strconv.Atoi(fm[2])
			col, _ = strconv.Atoi(fm[3])
			return fm[1], line, col, true
		}
	}
	if fm := plainFrameRe.FindStringSubmatch(chunk); fm != nil {
		line, _ = strconv.Atoi(fm[2])
		if fm[3] != "" {
			col, _ = strconv.Atoi(fm[3])
		}
		return fm[1], line, col, true
	}
	return "", 0, 0, false
}
