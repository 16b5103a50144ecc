// Package source defines the collaborator interfaces the correlation
// engine consumes: diagnostics queries and document text access.
// The engine never owns these signals, it only reacts to them.
package source

import (
	"context"

	"github.com/vburojevic/fixwatch/internal/domain"
)

// Diagnostic is a single editor/compiler diagnostic for a file
type Diagnostic struct {
	File     string
	Line     int // 1-indexed
	Message  string
	Severity domain.Severity
}

// DiagnosticSource answers point-in-time diagnostics queries
type DiagnosticSource interface {
	// ErrorDiagnostics returns the current error-severity diagnostics for a file
	ErrorDiagnostics(file string) []Diagnostic
}

// BufferSource provides document text access
type BufferSource interface {
	// LiveText returns the text of an open buffer, or ok=false if the
	// file is not open in any editor
	LiveText(file string) (text string, ok bool)

	// Open reads the full file content from disk. May block; callers
	// that must not stall run it in a goroutine.
	Open(ctx context.Context, file string) (string, error)
}
