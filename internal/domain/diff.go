package domain

import "time"

// CapturedDiff is the before/after pair recorded when a tracked file's
// error was fixed. At most one is emitted per tracking session.
// Immutable once created.
type CapturedDiff struct {
	File      string    `json:"file"`
	Language  string    `json:"language"`
	Before    string    `json:"before"`
	After     string    `json:"after"`
	Unified   string    `json:"unified_diff"`
	Timestamp time.Time `json:"timestamp"`
}
