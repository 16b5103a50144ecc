package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/fixwatch/internal/domain"
)

func TestMemoryLiveText(t *testing.T) {
	m := NewMemory()

	_, ok := m.LiveText("a.go")
	assert.False(t, ok)

	m.SetText("a.go", "package main\n")
	text, ok := m.LiveText("a.go")
	require.True(t, ok)
	assert.Equal(t, "package main\n", text)

	// disk-only files are not live
	m.SetDiskText("b.go", "package b\n")
	_, ok = m.LiveText("b.go")
	assert.False(t, ok)
}

func TestMemoryOpen(t *testing.T) {
	m := NewMemory()
	m.SetDiskText("b.go", "package b\n")

	text, err := m.Open(context.Background(), "b.go")
	require.NoError(t, err)
	assert.Equal(t, "package b\n", text)

	_, err = m.Open(context.Background(), "missing.go")
	assert.Error(t, err)
}

func TestMemoryErrorDiagnosticsFiltersSeverity(t *testing.T) {
	m := NewMemory()
	m.SetDiagnostics("a.go",
		Diagnostic{File: "a.go", Line: 1, Message: "undefined: x", Severity: domain.SeverityError},
		Diagnostic{File: "a.go", Line: 2, Message: "unused variable", Severity: domain.SeverityWarning},
	)

	diags := m.ErrorDiagnostics("a.go")
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined: x", diags[0].Message)
}
