package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vburojevic/fixwatch/internal/domain"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	dec := json.NewDecoder(buf)
	var m map[string]interface{}
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestWriteReady(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteReady([]string{"/work/app"}))

	m := decodeLine(t, buf)
	require.Equal(t, "ready", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	roots, ok := m["roots"].([]interface{})
	require.True(t, ok)
	require.Contains(t, roots, "/work/app")
	require.NotEmpty(t, m["timestamp"])
}

func TestWriteCapturedError(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteCapturedError(domain.CapturedError{
		Message:   "undefined: x",
		File:      "main.go",
		Line:      3,
		Language:  "go",
		Severity:  domain.SeverityError,
		Source:    domain.SourceDiagnostics,
		Timestamp: time.Now(),
	}))

	m := decodeLine(t, buf)
	require.Equal(t, "captured_error", m["type"])
	require.EqualValues(t, 1, m["schemaVersion"])
	require.Equal(t, "undefined: x", m["message"])
	require.Equal(t, "main.go", m["file"])
	require.EqualValues(t, 3, m["line"])
	require.Equal(t, "error", m["severity"])
	require.Equal(t, "diagnostics", m["source"])
}

func TestWriteCapturedDiff(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteCapturedDiff(domain.CapturedDiff{
		File:     "main.go",
		Language: "go",
		Before:   "a\n",
		After:    "b\n",
		Unified:  "--- a/main.go\n+++ b/main.go\n",
	}))

	m := decodeLine(t, buf)
	require.Equal(t, "captured_diff", m["type"])
	require.Equal(t, "a\n", m["before"])
	require.Equal(t, "b\n", m["after"])
	require.Contains(t, m["unified_diff"], "+++ b/main.go")
}

func TestWriteSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteSummary(5, 2, 3, 90*time.Second))

	m := decodeLine(t, buf)
	require.Equal(t, "summary", m["type"])
	require.EqualValues(t, 5, m["errors"])
	require.EqualValues(t, 2, m["diffs"])
	require.EqualValues(t, 3, m["suppressed_duplicates"])
	require.EqualValues(t, 90, m["duration_seconds"])
}

func TestWriteError(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteError("INVALID_FLAGS", "bad combination", "drop --x"))

	m := decodeLine(t, buf)
	require.Equal(t, "error", m["type"])
	require.Equal(t, "INVALID_FLAGS", m["code"])
	require.Equal(t, "bad combination", m["message"])
	require.Equal(t, "drop --x", m["hint"])
}

func TestWriteErrorWithoutHintOmitsField(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)

	require.NoError(t, w.WriteError("READ_FAILED", "file vanished"))

	m := decodeLine(t, buf)
	_, present := m["hint"]
	require.False(t, present)
}
