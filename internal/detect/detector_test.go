package detect

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/fixwatch/internal/domain"
	"github.com/vburojevic/fixwatch/internal/source"
)

type capture struct {
	events []domain.CapturedError
}

func (c *capture) emit(e domain.CapturedError) {
	c.events = append(c.events, e)
}

func newTestDetector(t *testing.T, cfg Config) (*Detector, *source.Memory, *capture, *clock.Mock) {
	t.Helper()
	mem := source.NewMemory()
	mock := clock.NewMock()
	cap := &capture{}
	d := New(cfg, mem, mem, mock, nil, cap.emit)
	return d, mem, cap, mock
}

func TestOnDiagnosticsChangedEmitsWithContext(t *testing.T) {
	d, mem, cap, _ := newTestDetector(t, Config{ContextRadius: 1})

	mem.SetText("src/App.tsx", "let a=1\nlet i=0\nlet b=2\n")
	mem.SetDiagnostics("src/App.tsx", source.Diagnostic{
		File: "src/App.tsx", Line: 2, Message: "i is declared but never used",
		Severity: domain.SeverityError,
	})

	d.OnDiagnosticsChanged([]string{"src/App.tsx"})

	require.Len(t, cap.events, 1)
	e := cap.events[0]
	assert.Equal(t, "src/App.tsx", e.File)
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, "typescriptreact", e.Language)
	assert.Equal(t, domain.SourceDiagnostics, e.Source)
	assert.Equal(t, domain.SeverityError, e.Severity)
	assert.Contains(t, e.Context, "let i=0")
	assert.Contains(t, e.Context, "let a=1")
}

func TestOnDiagnosticsChangedSkipsUnsupportedFiles(t *testing.T) {
	d, mem, cap, _ := newTestDetector(t, Config{})

	mem.SetText("README.md", "# readme\n")
	mem.SetDiagnostics("README.md", source.Diagnostic{
		File: "README.md", Line: 1, Message: "broken link", Severity: domain.SeverityError,
	})

	d.OnDiagnosticsChanged([]string{"README.md"})
	assert.Empty(t, cap.events)
}

func TestOnDiagnosticsChangedIgnoresWarnings(t *testing.T) {
	d, mem, cap, _ := newTestDetector(t, Config{})

	mem.SetText("a.go", "package a\n")
	mem.SetDiagnostics("a.go", source.Diagnostic{
		File: "a.go", Line: 1, Message: "could be simplified", Severity: domain.SeverityWarning,
	})

	d.OnDiagnosticsChanged([]string{"a.go"})
	assert.Empty(t, cap.events)
}

func TestOnDiagnosticsChangedDedupes(t *testing.T) {
	d, mem, cap, mock := newTestDetector(t, Config{})

	mem.SetText("a.go", "package a\n")
	mem.SetDiagnostics("a.go", source.Diagnostic{
		File: "a.go", Line: 1, Message: "undefined: x", Severity: domain.SeverityError,
	})

	d.OnDiagnosticsChanged([]string{"a.go"})
	d.OnDiagnosticsChanged([]string{"a.go"})
	mock.Add(500 * time.Millisecond)
	d.OnDiagnosticsChanged([]string{"a.go"})
	require.Len(t, cap.events, 1)
	assert.Equal(t, 2, d.Suppressed())

	// after the window the same diagnostic may fire again
	mock.Add(2 * time.Second)
	d.OnDiagnosticsChanged([]string{"a.go"})
	assert.Len(t, cap.events, 2)
}

func TestOnProcessOutputResolvedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n1/0\nprint('hi')\n"), 0o644))

	d, mem, cap, _ := newTestDetector(t, Config{Roots: []string{root}, ContextRadius: 1})
	mem.SetDiskText(path, "import os\n1/0\nprint('hi')\n")

	d.OnProcessOutput("Traceback (most recent call last):\n  File \"main.py\", line 2, in <module>\nZeroDivisionError: division by zero")

	require.Len(t, cap.events, 1)
	e := cap.events[0]
	assert.Equal(t, path, e.File)
	assert.Equal(t, 2, e.Line)
	assert.Equal(t, "python", e.Language)
	assert.Equal(t, "ZeroDivisionError: division by zero", e.Message)
	assert.Equal(t, domain.SourceProcessOutput, e.Source)
	assert.False(t, e.Degraded())
	assert.Contains(t, e.Context, "1/0")
}

func TestOnProcessOutputDegradesWhenUnresolvable(t *testing.T) {
	d, _, cap, _ := newTestDetector(t, Config{Roots: []string{"/nonexistent-root"}})

	d.OnProcessOutput("TypeError: boom\n    at run (src/gone.ts:4:2)")

	require.Len(t, cap.events, 1)
	e := cap.events[0]
	assert.True(t, e.Degraded())
	assert.Equal(t, domain.DegradedFile, e.File)
	assert.Equal(t, "TypeError: boom", e.Message)
	assert.Empty(t, e.Context)
}

func TestOnProcessOutputNoErrorForm(t *testing.T) {
	d, _, cap, _ := newTestDetector(t, Config{})
	d.OnProcessOutput("build succeeded in 1.2s")
	assert.Empty(t, cap.events)
}

func TestOnProcessOutputDedupes(t *testing.T) {
	d, _, cap, _ := newTestDetector(t, Config{})

	d.OnProcessOutput("ReferenceError: x is not defined")
	d.OnProcessOutput("ReferenceError: x is not defined")
	assert.Len(t, cap.events, 1)
}
