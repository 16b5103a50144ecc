package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/vburojevic/fixwatch/internal/detect"
	"github.com/vburojevic/fixwatch/internal/domain"
	"github.com/vburojevic/fixwatch/internal/filter"
	"github.com/vburojevic/fixwatch/internal/output"
	"github.com/vburojevic/fixwatch/internal/source"
	"github.com/vburojevic/fixwatch/internal/track"
)

// WatchCmd runs the correlation engine over stdin process output and
// filesystem changes under the project roots. Pipe a build or run
// command into it:
//
//	npm run dev 2>&1 | fixwatch watch -r .
type WatchCmd struct {
	Root              []string `short:"r" default:"." help:"Project root to watch (can be repeated)"`
	Where             []string `help:"Filter captured errors (e.g. 'language=go', 'message~timeout') - can be repeated"`
	DedupWindow       string   `default:"${config_dedup_window}" help:"Suppress identical errors repeating within this window"`
	DiagnosticsSettle string   `default:"${config_diagnostics_settle}" help:"Settle delay after diagnostics clear"`
	ContentSettle     string   `default:"${config_content_settle}" help:"Debounce for raw content changes"`
	ContextRadius     int      `default:"5" help:"Lines of context captured around an error line"`
	NoAutoTrack       bool     `help:"Do not start a tracking session on each captured error"`
	NoStdin           bool     `help:"Skip reading process output from stdin"`
}

// watchStats are the running counters reported in the shutdown summary
type watchStats struct {
	mu     sync.Mutex
	errors int
	diffs  int
}

func (s *watchStats) addError() {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
}

func (s *watchStats) addDiff() {
	s.mu.Lock()
	s.diffs++
	s.mu.Unlock()
}

func (s *watchStats) snapshot() (errors, diffs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors, s.diffs
}

// Run executes the watch command
func (c *WatchCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	dedupWindow, err := time.ParseDuration(c.DedupWindow)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_DURATION", fmt.Sprintf("invalid dedup window: %s", err))
	}
	diagSettle, err := time.ParseDuration(c.DiagnosticsSettle)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_DURATION", fmt.Sprintf("invalid diagnostics settle: %s", err))
	}
	contentSettle, err := time.ParseDuration(c.ContentSettle)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_DURATION", fmt.Sprintf("invalid content settle: %s", err))
	}

	where, err := filter.NewWhereFilter(c.Where)
	if err != nil {
		return outputErrorCommon(globals, "INVALID_WHERE", err.Error())
	}

	// Config-declared roots apply when the flag was left at its default
	rootArgs := c.Root
	if len(rootArgs) == 1 && rootArgs[0] == "." && globals.Config != nil && len(globals.Config.Detect.Roots) > 0 {
		rootArgs = globals.Config.Detect.Roots
	}

	roots := make([]string, 0, len(rootArgs))
	for _, root := range rootArgs {
		abs, err := filepath.Abs(root)
		if err != nil {
			return outputErrorCommon(globals, "INVALID_ROOT", fmt.Sprintf("cannot resolve root %s: %s", root, err))
		}
		if info, statErr := os.Stat(abs); statErr != nil || !info.IsDir() {
			return outputErrorCommon(globals, "INVALID_ROOT", fmt.Sprintf("not a directory: %s", abs))
		}
		roots = append(roots, abs)
	}

	log := newWatchLogger(globals, roots)
	defer log.Sync()

	writer := output.NewNDJSONWriter(globals.Stdout)
	stats := &watchStats{}
	start := time.Now()

	// Disk mode: no live editor buffers, no diagnostics stream. Errors
	// come from process output; fixes are observed via file changes.
	buffers := source.Disk{}
	diags := source.NoDiagnostics{}

	autoTrack := !c.NoAutoTrack
	if globals.Config != nil && !globals.Config.Track.AutoTrack {
		autoTrack = false
	}

	tracker := track.New(track.Config{
		DiagnosticsSettle: diagSettle,
		ContentSettle:     contentSettle,
	}, diags, buffers, nil, log.Zap(), func(d domain.CapturedDiff) {
		stats.addDiff()
		c.emitDiff(globals, writer, d)
	})

	detector := detect.New(detect.Config{
		DedupWindow:   dedupWindow,
		ContextRadius: c.ContextRadius,
		Roots:         roots,
	}, diags, buffers, nil, log.Zap(), func(e domain.CapturedError) {
		if !where.Match(&e) {
			return
		}
		stats.addError()
		c.emitError(globals, writer, e)
		if autoTrack && !e.Degraded() {
			tracker.StartTracking(e.File)
		}
	})

	watcher, err := source.NewFSWatcher(roots, log.Zap())
	if err != nil {
		return outputErrorCommon(globals, "WATCH_FAILED", fmt.Sprintf("cannot watch roots: %s", err))
	}
	defer watcher.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Run(ctx, tracker.HandleContentChanged)
	}()

	if globals.Format == "ndjson" {
		writer.WriteReady(roots)
	} else if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "Watching %d root(s), reading process output from stdin...\n", len(roots))
	}

	if !c.NoStdin {
		c.readProcessOutput(ctx, os.Stdin, detector)
	}
	<-ctx.Done()

	tracker.StopTracking()
	wg.Wait()

	errors, diffs := stats.snapshot()
	if globals.Format == "ndjson" {
		writer.WriteSummary(errors, diffs, detector.Suppressed(), time.Since(start))
	} else if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "\n%d error(s) captured, %d fix diff(s), %d duplicate(s) suppressed\n",
			errors, diffs, detector.Suppressed())
	}
	return nil
}

// readProcessOutput feeds raw stdin chunks to the detector until EOF or
// cancellation. Chunks arrive as the producing process flushes, which
// keeps multi-line stack traces together often enough for the frame
// patterns to pair them with their error line.
func (c *WatchCmd) readProcessOutput(ctx context.Context, r io.Reader, detector *detect.Detector) {
	go func() {
		buf := make([]byte, 16*1024)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				detector.OnProcessOutput(string(buf[:n]))
			}
			if err != nil {
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func (c *WatchCmd) emitError(globals *Globals, writer *output.NDJSONWriter, e domain.CapturedError) {
	if globals.Format == "ndjson" {
		writer.WriteCapturedError(e)
		return
	}
	loc := e.File
	if !e.Degraded() {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	fmt.Fprintf(globals.Stdout, "[%s] %s (%s)\n", e.Severity, e.Message, loc)
	if e.Context != "" && !globals.Quiet {
		fmt.Fprint(globals.Stdout, e.Context)
	}
}

func (c *WatchCmd) emitDiff(globals *Globals, writer *output.NDJSONWriter, d domain.CapturedDiff) {
	if globals.Format == "ndjson" {
		writer.WriteCapturedDiff(d)
		return
	}
	fmt.Fprintf(globals.Stdout, "fix captured for %s:\n%s", d.File, d.Unified)
}
