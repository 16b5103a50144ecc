// Package track implements the fix-tracking state machine. A tracker
// observes one file at a time across three independent fix signals
// (save, diagnostics cleared, raw content change) and emits exactly one
// CapturedDiff per tracking session.
package track

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/fixwatch/internal/domain"
	"github.com/vburojevic/fixwatch/internal/source"
)

const (
	// DefaultDiagnosticsSettle is the delay after a diagnostics-cleared
	// signal before the diff is trusted as the fix.
	DefaultDiagnosticsSettle = 500 * time.Millisecond
	// DefaultContentSettle is the longer debounce for raw content
	// changes that may never be followed by a save or re-validation.
	DefaultContentSettle = 1500 * time.Millisecond
)

// Config tunes tracker behavior
type Config struct {
	DiagnosticsSettle time.Duration
	ContentSettle     time.Duration
}

func (c *Config) fill() {
	if c.DiagnosticsSettle <= 0 {
		c.DiagnosticsSettle = DefaultDiagnosticsSettle
	}
	if c.ContentSettle <= 0 {
		c.ContentSettle = DefaultContentSettle
	}
}

// Emit receives the single CapturedDiff a session produces
type Emit func(domain.CapturedDiff)

// settleTimer is one cancelable settle-delay slot. seq identifies the
// latest scheduling; an older callback that lost the race to a
// replacement sees a newer seq and does nothing.
type settleTimer struct {
	timer *clock.Timer
	seq   uint64
}

// session holds all mutable per-session state. It is owned exclusively
// by the Tracker and only touched under the Tracker's mutex.
type session struct {
	file          string
	active        bool
	baselines     map[string]string
	initialErrors int
	hasInitial    bool
	diag          settleTimer
	content       settleTimer

	// gen increments on every start and every return to Idle. Timer
	// callbacks and async baseline reads capture it at scheduling time
	// and no-op when it has moved on.
	gen uint64
}

// Tracker watches a single file for fix signals and computes the
// before/after diff exactly once per session.
type Tracker struct {
	mu      sync.Mutex
	cfg     Config
	clock   clock.Clock
	log     *zap.Logger
	diags   source.DiagnosticSource
	buffers source.BufferSource
	emit    Emit
	s       session
}

// New creates an idle Tracker. A nil clock means the real one; a nil
// logger is replaced with a nop logger.
func New(cfg Config, diags source.DiagnosticSource, buffers source.BufferSource, clk clock.Clock, log *zap.Logger, emit Emit) *Tracker {
	cfg.fill()
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		cfg:     cfg,
		clock:   clk,
		log:     log,
		diags:   diags,
		buffers: buffers,
		emit:    emit,
		s:       session{baselines: make(map[string]string)},
	}
}

// Tracked returns the currently tracked file, if any
func (t *Tracker) Tracked() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s.file, t.s.active
}

// StartTracking begins (or re-enters) a tracking session for path.
// A request for a different file while one is active, or for the same
// file while a settle timer is pending, is dropped: in-flight completion
// beats new starts.
func (t *Tracker) StartTracking(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.s.active {
		if t.s.file != path {
			t.log.Debug("already tracking another file, ignoring",
				zap.String("tracked", t.s.file), zap.String("requested", path))
			return
		}
		if t.s.diag.timer != nil || t.s.content.timer != nil {
			t.log.Debug("settle timer pending, ignoring re-track",
				zap.String("file", path))
			return
		}
	}

	t.s.active = true
	t.s.file = path
	t.s.gen++
	t.s.initialErrors = len(t.diags.ErrorDiagnostics(path))
	t.s.hasInitial = true
	t.log.Debug("tracking started",
		zap.String("file", path), zap.Int("initial_errors", t.s.initialErrors))

	if _, exists := t.s.baselines[path]; exists {
		// First snapshot wins for the lifetime of the session
		return
	}
	if text, ok := t.buffers.LiveText(path); ok {
		t.s.baselines[path] = text
		return
	}

	// Buffer not open: snapshot from disk without blocking the caller.
	// The generation check guards against a slow read landing after the
	// session has moved on.
	gen := t.s.gen
	go t.snapshotFromDisk(path, gen)
}

func (t *Tracker) snapshotFromDisk(path string, gen uint64) {
	text, err := t.buffers.Open(context.Background(), path)

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.s.active || t.s.file != path || t.s.gen != gen {
		return
	}
	if err != nil {
		t.log.Warn("baseline read failed", zap.String("file", path), zap.Error(err))
		return
	}
	if _, exists := t.s.baselines[path]; !exists {
		t.s.baselines[path] = text
	}
}

// HandleWillSave captures a baseline right before a save lands, in case
// tracking started without one.
func (t *Tracker) HandleWillSave(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.s.active || t.s.file != path {
		return
	}
	if _, exists := t.s.baselines[path]; exists {
		return
	}
	if text, ok := t.buffers.LiveText(path); ok {
		t.s.baselines[path] = text
	}
}

// HandleDidSave computes the diff immediately. A save is a deliberate,
// settled action; no debounce applies.
func (t *Tracker) HandleDidSave(path string) {
	t.mu.Lock()
	var diff *domain.CapturedDiff
	if t.s.active && t.s.file == path {
		diff = t.computeDiffLocked()
	}
	t.mu.Unlock()
	t.deliver(diff)
}

// HandleDiagnosticsChanged reacts to a diagnostics change touching the
// tracked file. When the error count reaches zero, or drops below the
// count recorded at tracking start, the diff is scheduled after the
// diagnostics settle delay. A newer signal replaces the pending one.
func (t *Tracker) HandleDiagnosticsChanged(files []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.s.active {
		return
	}
	touched := false
	for _, f := range files {
		if f == t.s.file {
			touched = true
			break
		}
	}
	if !touched {
		return
	}

	count := len(t.diags.ErrorDiagnostics(t.s.file))
	fixed := count == 0 || (t.s.hasInitial && count < t.s.initialErrors)
	if !fixed {
		return
	}

	t.log.Debug("diagnostics indicate fix, scheduling diff",
		zap.String("file", t.s.file), zap.Int("errors", count))
	t.scheduleLocked(&t.s.diag, t.cfg.DiagnosticsSettle)
}

// HandleContentChanged reacts to any mutation of the tracked file.
// Rapid edits collapse into the single most recently scheduled timer.
func (t *Tracker) HandleContentChanged(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.s.active || t.s.file != path {
		return
	}
	t.scheduleLocked(&t.s.content, t.cfg.ContentSettle)
}

// scheduleLocked (re)arms a settle slot. Replacing bumps seq so a
// superseded callback that already fired but lost the lock race still
// no-ops.
func (t *Tracker) scheduleLocked(slot *settleTimer, delay time.Duration) {
	t.stopTimerLocked(slot)
	slot.seq++
	gen, seq := t.s.gen, slot.seq
	slot.timer = t.clock.AfterFunc(delay, func() {
		t.settleFired(slot, gen, seq)
	})
}

// settleFired runs when a settle timer elapses. The generation and
// sequence checks make a stale callback a no-op: if any path already
// completed the diff, stopped the session, or rearmed this slot, the
// captured values no longer match.
func (t *Tracker) settleFired(slot *settleTimer, gen, seq uint64) {
	t.mu.Lock()
	var diff *domain.CapturedDiff
	if t.s.active && t.s.gen == gen && slot.seq == seq {
		slot.timer = nil
		diff = t.computeDiffLocked()
	}
	t.mu.Unlock()
	t.deliver(diff)
}

// StopTracking ends the session, cancels pending timers and clears all
// baselines. Idempotent; safe from any state.
func (t *Tracker) StopTracking() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.s.active {
		t.log.Debug("tracking stopped", zap.String("file", t.s.file))
	}
	t.resetLocked()
}

// computeDiffLocked is the shared exit path for all three fix signals.
// Returns nil when there is nothing to emit. On a genuine change it
// clears the session; on before==after it leaves the baseline in place
// so a later real fix still diffs against the original reference point.
func (t *Tracker) computeDiffLocked() *domain.CapturedDiff {
	file := t.s.file
	before, ok := t.s.baselines[file]
	if !ok {
		return nil
	}

	after, err := t.currentText(file)
	if err != nil {
		t.log.Warn("after-content read failed", zap.String("file", file), zap.Error(err))
		return nil
	}
	if after == before {
		t.log.Debug("content unchanged, keeping baseline", zap.String("file", file))
		return nil
	}

	unified, err := unifiedDiff(file, before, after)
	if err != nil {
		t.log.Warn("diff rendering failed", zap.String("file", file), zap.Error(err))
		return nil
	}

	diff := &domain.CapturedDiff{
		File:      file,
		Language:  domain.Language(file),
		Before:    before,
		After:     after,
		Unified:   unified,
		Timestamp: t.clock.Now(),
	}
	t.resetLocked()
	return diff
}

func (t *Tracker) currentText(file string) (string, error) {
	if text, ok := t.buffers.LiveText(file); ok {
		return text, nil
	}
	return t.buffers.Open(context.Background(), file)
}

func (t *Tracker) resetLocked() {
	t.stopTimerLocked(&t.s.diag)
	t.stopTimerLocked(&t.s.content)
	t.s.file = ""
	t.s.active = false
	t.s.baselines = make(map[string]string)
	t.s.initialErrors = 0
	t.s.hasInitial = false
	t.s.gen++
}

func (t *Tracker) stopTimerLocked(slot *settleTimer) {
	if slot.timer != nil {
		slot.timer.Stop()
		slot.timer = nil
	}
}

func (t *Tracker) deliver(diff *domain.CapturedDiff) {
	if diff != nil && t.emit != nil {
		t.emit(*diff)
	}
}
