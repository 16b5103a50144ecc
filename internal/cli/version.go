package cli

import (
	"encoding/json"
	"fmt"

	"github.com/vburojevic/fixwatch/internal/output"
)

// VersionCmd shows version information
type VersionCmd struct{}

// versionOutput is the NDJSON shape for the version command
type versionOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// Run executes the version command
func (c *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(versionOutput{
			Type:          "version",
			SchemaVersion: output.SchemaVersion,
			Version:       Version,
			Commit:        Commit,
		})
	}
	fmt.Fprintf(globals.Stdout, "fixwatch %s (%s)\n", Version, Commit)
	return nil
}
