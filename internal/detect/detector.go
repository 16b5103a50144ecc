// Package detect normalizes raw error signals (editor diagnostics and
// build/run process output) into a deduplicated CapturedError stream.
package detect

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/vburojevic/fixwatch/internal/domain"
	"github.com/vburojevic/fixwatch/internal/source"
)

// DefaultDedupWindow suppresses identical (file, line, message) keys
// that fire again within this interval.
const DefaultDedupWindow = 2 * time.Second

// DefaultContextRadius is how many lines around the error line go into
// the context snippet.
const DefaultContextRadius = 5

// Config tunes detector behavior
type Config struct {
	DedupWindow   time.Duration
	ContextRadius int
	Roots         []string // project roots used to resolve terminal file references
}

func (c *Config) fill() {
	if c.DedupWindow <= 0 {
		c.DedupWindow = DefaultDedupWindow
	}
	if c.ContextRadius <= 0 {
		c.ContextRadius = DefaultContextRadius
	}
}

// Emit receives each accepted, non-duplicate error event
type Emit func(domain.CapturedError)

// Detector converts diagnostics changes and raw process output into
// CapturedError events. Read-only; its only state is the rolling dedup
// cache and counters.
type Detector struct {
	cfg     Config
	clock   clock.Clock
	log     *zap.Logger
	diags   source.DiagnosticSource
	buffers source.BufferSource
	dedupe  *dedupeCache
	emit    Emit
}

// New creates a Detector. A nil logger is replaced with a nop logger;
// a nil clock with the real one.
func New(cfg Config, diags source.DiagnosticSource, buffers source.BufferSource, clk clock.Clock, log *zap.Logger, emit Emit) *Detector {
	cfg.fill()
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{
		cfg:     cfg,
		clock:   clk,
		log:     log,
		diags:   diags,
		buffers: buffers,
		dedupe:  newDedupeCache(cfg.DedupWindow, clk),
		emit:    emit,
	}
}

// Suppressed returns how many duplicate error signals were swallowed
func (d *Detector) Suppressed() int { return d.dedupe.Suppressed() }

// OnDiagnosticsChanged re-reads error diagnostics for each affected
// supported-language file and emits one CapturedError per non-duplicate
// diagnostic.
func (d *Detector) OnDiagnosticsChanged(files []string) {
	supported := lo.Filter(files, func(f string, _ int) bool {
		return domain.Supported(f)
	})
	for _, file := range supported {
		text, open := d.buffers.LiveText(file)
		for _, diag := range d.diags.ErrorDiagnostics(file) {
			ctx := ""
			if open {
				ctx = domain.Snippet(text, diag.Line, d.cfg.ContextRadius)
			}
			d.accept(domain.CapturedError{
				Message:   diag.Message,
				File:      file,
				Line:      diag.Line,
				Language:  domain.Language(file),
				Context:   ctx,
				Severity:  domain.SeverityError,
				Source:    domain.SourceDiagnostics,
				Timestamp: d.clock.Now(),
			})
		}
	}
}

// OnProcessOutput scans a chunk of raw build/run output. An error form
// with an unresolvable file reference still fires as a degraded event;
// silent failure is never an option here.
func (d *Detector) OnProcessOutput(chunk string) {
	m := ParseProcessOutput(chunk)
	if m == nil {
		return
	}

	e := domain.CapturedError{
		Message:   m.Kind + ": " + m.Message,
		File:      domain.DegradedFile,
		Line:      1,
		Language:  "plaintext",
		Severity:  domain.SeverityError,
		Source:    domain.SourceProcessOutput,
		Timestamp: d.clock.Now(),
	}

	if m.File != "" {
		if resolved, ok := d.resolveFile(m.File); ok {
			e.File = resolved
			e.Line = m.Line
			e.Language = domain.Language(resolved)
			e.Context = d.readContext(resolved, m.Line)
		} else {
			d.log.Debug("terminal error file not resolvable, degrading",
				zap.String("file", m.File))
		}
	}

	d.accept(e)
}

func (d *Detector) accept(e domain.CapturedError) {
	if !d.dedupe.Check(e.Key()) {
		d.log.Debug("duplicate error suppressed", zap.String("key", e.Key()))
		return
	}
	if d.emit != nil {
		d.emit(e)
	}
}

// resolveFile maps a terminal-reported path onto the workspace: absolute
// paths must exist, relative ones are tried against each project root.
func (d *Detector) resolveFile(file string) (string, bool) {
	if filepath.IsAbs(file) {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file, true
		}
		return "", false
	}
	for _, root := range d.cfg.Roots {
		candidate := filepath.Join(root, file)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func (d *Detector) readContext(file string, line int) string {
	text, ok := d.buffers.LiveText(file)
	if !ok {
		var err error
		text, err = d.buffers.Open(context.Background(), file)
		if err != nil {
			d.log.Debug("context read failed", zap.String("file", file), zap.Error(err))
			return ""
		}
	}
	return domain.Snippet(text, line, d.cfg.ContextRadius)
}
