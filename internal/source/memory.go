package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/vburojevic/fixwatch/internal/domain"
)

// Memory is an in-process adapter implementing both DiagnosticSource and
// BufferSource. Embedders script it from their own editor integration;
// tests use it to drive the engine deterministically.
type Memory struct {
	mu    sync.Mutex
	texts map[string]string
	open  map[string]bool
	diags map[string][]Diagnostic

	// OpenHook, when set, runs at the start of every Open call before
	// state is read. Lets tests stall a disk read to exercise races.
	OpenHook func(file string)
}

// NewMemory creates an empty in-memory adapter
func NewMemory() *Memory {
	return &Memory{
		texts: make(map[string]string),
		open:  make(map[string]bool),
		diags: make(map[string][]Diagnostic),
	}
}

// SetText sets a file's content and marks the buffer open
func (m *Memory) SetText(file, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[file] = text
	m.open[file] = true
}

// SetDiskText sets a file's content without opening a buffer for it,
// so only Open can observe it
func (m *Memory) SetDiskText(file, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[file] = text
	m.open[file] = false
}

// Remove deletes a file, making subsequent reads fail
func (m *Memory) Remove(file string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.texts, file)
	delete(m.open, file)
}

// SetDiagnostics replaces the diagnostics recorded for a file
func (m *Memory) SetDiagnostics(file string, diags ...Diagnostic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diags[file] = diags
}

// ErrorDiagnostics implements DiagnosticSource
func (m *Memory) ErrorDiagnostics(file string) []Diagnostic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return lo.Filter(m.diags[file], func(d Diagnostic, _ int) bool {
		return d.Severity == domain.SeverityError
	})
}

// LiveText implements BufferSource
func (m *Memory) LiveText(file string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open[file] {
		return "", false
	}
	text, ok := m.texts[file]
	return text, ok
}

// Open implements BufferSource
func (m *Memory) Open(ctx context.Context, file string) (string, error) {
	if m.OpenHook != nil {
		m.OpenHook(file)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.texts[file]
	if !ok {
		return "", fmt.Errorf("open %s: no such file", file)
	}
	return text, nil
}
