// Package output renders engine events as NDJSON so downstream agents
// get one machine-readable JSON object per line.
package output

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/vburojevic/fixwatch/internal/domain"
)

// SchemaVersion is bumped whenever an emitted object shape changes
const SchemaVersion = 1

// NDJSONWriter serializes events one JSON object per line
type NDJSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewNDJSONWriter creates a writer targeting w
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

// Ready is emitted once at watch startup
type Ready struct {
	Type          string   `json:"type"`
	SchemaVersion int      `json:"schemaVersion"`
	Roots         []string `json:"roots"`
	Timestamp     string   `json:"timestamp"`
}

// CapturedErrorEvent wraps a CapturedError with the NDJSON envelope
type CapturedErrorEvent struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	domain.CapturedError
}

// CapturedDiffEvent wraps a CapturedDiff with the NDJSON envelope
type CapturedDiffEvent struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	domain.CapturedDiff
}

// Summary reports session statistics, emitted at shutdown
type Summary struct {
	Type            string `json:"type"`
	SchemaVersion   int    `json:"schemaVersion"`
	Errors          int    `json:"errors"`
	Diffs           int    `json:"diffs"`
	Suppressed      int    `json:"suppressed_duplicates"`
	DurationSeconds int    `json:"duration_seconds"`
}

// ErrorOutput is the machine-readable failure shape
type ErrorOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

func (w *NDJSONWriter) write(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(v)
}

// WriteReady emits the startup event
func (w *NDJSONWriter) WriteReady(roots []string) error {
	return w.write(Ready{
		Type:          "ready",
		SchemaVersion: SchemaVersion,
		Roots:         roots,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteCapturedError emits a captured_error event
func (w *NDJSONWriter) WriteCapturedError(e domain.CapturedError) error {
	return w.write(CapturedErrorEvent{
		Type:          "captured_error",
		SchemaVersion: SchemaVersion,
		CapturedError: e,
	})
}

// WriteCapturedDiff emits a captured_diff event
func (w *NDJSONWriter) WriteCapturedDiff(d domain.CapturedDiff) error {
	return w.write(CapturedDiffEvent{
		Type:          "captured_diff",
		SchemaVersion: SchemaVersion,
		CapturedDiff:  d,
	})
}

// WriteSummary emits the shutdown summary
func (w *NDJSONWriter) WriteSummary(errors, diffs, suppressed int, duration time.Duration) error {
	return w.write(Summary{
		Type:            "summary",
		SchemaVersion:   SchemaVersion,
		Errors:          errors,
		Diffs:           diffs,
		Suppressed:      suppressed,
		DurationSeconds: int(duration.Seconds()),
	})
}

// WriteError emits a machine-readable failure
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.write(out)
}
