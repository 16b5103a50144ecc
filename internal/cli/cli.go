// Package cli wires the correlation engine to a command line. The
// engine itself stays embeddable; everything here is adapters, flags
// and output formatting.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/vburojevic/fixwatch/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// Commit is set at build time via ldflags
var Commit = "unknown"

// CLI is the root command structure parsed by kong
type CLI struct {
	Format  string `short:"f" enum:"auto,ndjson,text" default:"${config_format}" help:"Output format (auto, ndjson, text)"`
	Quiet   bool   `short:"q" help:"Suppress non-event output"`
	Verbose bool   `short:"v" help:"Enable verbose debug logging"`

	Watch   WatchCmd   `cmd:"" help:"Watch process output and project files, emit captured errors and fix diffs"`
	Langs   LangsCmd   `cmd:"" help:"List supported languages and their file extensions"`
	Schema  SchemaCmd  `cmd:"" help:"Output JSON Schema for fixwatch output types"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals carries resolved global options into command Run methods
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer

	Config *config.Config
}

// NewGlobalsWithConfig resolves globals from parsed flags and loaded config
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	format := c.Format
	if format == "" {
		format = cfg.Format
	}
	if format == "auto" {
		// Pipes and redirects get machine-readable output
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			format = "text"
		} else {
			format = "ndjson"
		}
	}
	return &Globals{
		Format:  format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
}
