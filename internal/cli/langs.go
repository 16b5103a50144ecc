package cli

import (
	"encoding/json"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/fixwatch/internal/domain"
	"github.com/vburojevic/fixwatch/internal/output"
)

// LangsCmd lists the languages error detection applies to
type LangsCmd struct{}

// langsOutput is the NDJSON shape for the langs command
type langsOutput struct {
	Type          string              `json:"type"`
	SchemaVersion int                 `json:"schemaVersion"`
	Languages     map[string][]string `json:"languages"`
}

// Run executes the langs command
func (c *LangsCmd) Run(globals *Globals) error {
	langs := domain.Languages()

	if globals.Format == "ndjson" {
		out := langsOutput{
			Type:          "languages",
			SchemaVersion: output.SchemaVersion,
			Languages:     make(map[string][]string, len(langs)),
		}
		for _, lang := range langs {
			out.Languages[lang] = domain.Extensions(lang)
		}
		return json.NewEncoder(globals.Stdout).Encode(out)
	}

	table := tablewriter.NewTable(globals.Stdout)
	table.Header("Language", "Extensions")
	for _, lang := range langs {
		table.Append(lang, strings.Join(domain.Extensions(lang), ", "))
	}
	return table.Render()
}
