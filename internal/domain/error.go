package domain

import (
	"fmt"
	"time"
)

// Severity classifies how serious a captured diagnostic is
type Severity string

const (
	SeverityHint    Severity = "hint"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Priority returns a numeric priority for severity comparison (higher = more severe)
func (s Severity) Priority() int {
	switch s {
	case SeverityHint:
		return 0
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityError:
		return 3
	default:
		return 1
	}
}

// ParseSeverity converts a string to a Severity (case-insensitive, defaults to info)
func ParseSeverity(s string) Severity {
	switch s {
	case "hint", "Hint":
		return SeverityHint
	case "info", "Info":
		return SeverityInfo
	case "warning", "Warning", "warn", "Warn":
		return SeverityWarning
	case "error", "Error":
		return SeverityError
	default:
		return SeverityInfo
	}
}

// Source identifies which channel produced a captured error
type Source string

const (
	// SourceDiagnostics means the error came from an editor diagnostics change
	SourceDiagnostics Source = "diagnostics"
	// SourceProcessOutput means the error was parsed out of raw build/run output
	SourceProcessOutput Source = "process_output"
)

// DegradedFile is the placeholder file identifier used when a process-output
// error references a file that cannot be resolved in any project root.
const DegradedFile = "<terminal>"

// CapturedError is a deduplicated error event produced by the detector.
// Immutable once created.
type CapturedError struct {
	Message   string    `json:"message"`
	File      string    `json:"file"`
	Line      int       `json:"line"` // 1-indexed
	Language  string    `json:"language"`
	Context   string    `json:"context,omitempty"`
	Severity  Severity  `json:"severity"`
	Source    Source    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the composite dedup key for this error
func (e *CapturedError) Key() string {
	return fmt.Sprintf("%s:%d:%s", e.File, e.Line, e.Message)
}

// Degraded reports whether this error lacks a resolved file reference
func (e *CapturedError) Degraded() bool {
	return e.File == DegradedFile
}
