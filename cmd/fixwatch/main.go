package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/fixwatch/internal/cli"
	"github.com/vburojevic/fixwatch/internal/config"
)

const quickStart = `fixwatch - error-to-fix correlation for AI agents

Quick start:
  npm run dev 2>&1 | fixwatch watch -r .     Capture errors and fix diffs
  fixwatch watch -r . --where language=go    Only Go errors
  fixwatch langs                             Supported languages

For help:
  fixwatch --help                            All commands and flags
  fixwatch schema                            Machine-readable output schemas
`

func main() {
	// Show quick start if no args provided
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":             cfg.Format,
		"config_dedup_window":       cfg.Detect.DedupWindow,
		"config_diagnostics_settle": cfg.Track.DiagnosticsSettle,
		"config_content_settle":     cfg.Track.ContentSettle,
	}

	ctx := kong.Parse(&c,
		kong.Name("fixwatch"),
		kong.Description("fixwatch: correlate compiler/runtime errors with the edits that fix them\n\nAI agents: run 'fixwatch schema' for machine-readable output documentation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}
