package cli

import (
	"encoding/json"
	"strings"
)

// SchemaCmd outputs JSON Schema for fixwatch output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (captured_error,captured_diff,summary,error). Default: all"`
}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]interface{}{
		"captured_error": capturedErrorSchema(),
		"captured_diff":  capturedDiffSchema(),
		"summary":        summarySchema(),
		"error":          errorSchema(),
	}

	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = []string{"captured_error", "captured_diff", "summary", "error"}
	}

	out := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "fixwatch Output Schemas",
		"description": "JSON Schema definitions for all fixwatch NDJSON output types",
		"definitions": map[string]interface{}{},
	}

	defs := out["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		if schema, ok := schemas[t]; ok {
			defs[t] = schema
		}
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func capturedErrorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Captured Error",
		"description": "A deduplicated error event from diagnostics or process output",
		"properties": map[string]interface{}{
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Error message",
			},
			"file": map[string]interface{}{
				"type":        "string",
				"description": "File path, or '<terminal>' for degraded events",
			},
			"line": map[string]interface{}{
				"type":        "integer",
				"description": "1-indexed line number",
			},
			"language": map[string]interface{}{
				"type":        "string",
				"description": "Language tag of the file",
			},
			"context": map[string]interface{}{
				"type":        "string",
				"description": "Code context around the error line",
			},
			"severity": map[string]interface{}{
				"type": "string",
				"enum": []string{"hint", "info", "warning", "error"},
			},
			"source": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"diagnostics", "process_output"},
				"description": "Channel that produced the error",
			},
			"timestamp": map[string]interface{}{
				"type":   "string",
				"format": "date-time",
			},
		},
		"required": []string{"message", "file", "line", "severity", "source"},
	}
}

func capturedDiffSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Captured Diff",
		"description": "The before/after change that resolved a tracked error",
		"properties": map[string]interface{}{
			"file": map[string]interface{}{
				"type": "string",
			},
			"language": map[string]interface{}{
				"type": "string",
			},
			"before": map[string]interface{}{
				"type":        "string",
				"description": "Full file content before the fix",
			},
			"after": map[string]interface{}{
				"type":        "string",
				"description": "Full file content after the fix",
			},
			"unified_diff": map[string]interface{}{
				"type":        "string",
				"description": "Unified diff between before and after",
			},
			"timestamp": map[string]interface{}{
				"type":   "string",
				"format": "date-time",
			},
		},
		"required": []string{"file", "before", "after", "unified_diff"},
	}
}

func summarySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Summary",
		"description": "Session statistics emitted at shutdown",
		"properties": map[string]interface{}{
			"errors": map[string]interface{}{
				"type": "integer",
			},
			"diffs": map[string]interface{}{
				"type": "integer",
			},
			"suppressed_duplicates": map[string]interface{}{
				"type": "integer",
			},
			"duration_seconds": map[string]interface{}{
				"type": "integer",
			},
		},
	}
}

func errorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Error",
		"description": "Machine-readable command failure",
		"properties": map[string]interface{}{
			"code": map[string]interface{}{
				"type": "string",
			},
			"message": map[string]interface{}{
				"type": "string",
			},
			"hint": map[string]interface{}{
				"type": "string",
			},
		},
		"required": []string{"code", "message"},
	}
}
