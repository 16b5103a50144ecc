package source

import (
	"context"
	"os"
)

// Disk is a BufferSource backed directly by the filesystem. There are no
// live buffers in disk mode, so LiveText always misses and the engine
// falls back to Open.
type Disk struct{}

// LiveText implements BufferSource; disk files are never "open"
func (Disk) LiveText(string) (string, bool) { return "", false }

// Open implements BufferSource
func (Disk) Open(ctx context.Context, file string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NoDiagnostics is a DiagnosticSource for environments without an editor
// diagnostics stream (pure process-output mode).
type NoDiagnostics struct{}

// ErrorDiagnostics implements DiagnosticSource
func (NoDiagnostics) ErrorDiagnostics(string) []Diagnostic { return nil }
