package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobals(format string) (*Globals, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &Globals{
		Format: format,
		Stdout: buf,
		Stderr: &bytes.Buffer{},
	}, buf
}

func TestSchemaCmdOutputsAllDefinitions(t *testing.T) {
	globals, buf := testGlobals("ndjson")

	cmd := &SchemaCmd{}
	require.NoError(t, cmd.Run(globals))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	defs, ok := out["definitions"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, defs, "captured_error")
	assert.Contains(t, defs, "captured_diff")
	assert.Contains(t, defs, "summary")
	assert.Contains(t, defs, "error")
}

func TestSchemaCmdFiltersTypes(t *testing.T) {
	globals, buf := testGlobals("ndjson")

	cmd := &SchemaCmd{Type: []string{"captured_diff"}}
	require.NoError(t, cmd.Run(globals))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	defs := out["definitions"].(map[string]interface{})
	assert.Contains(t, defs, "captured_diff")
	assert.NotContains(t, defs, "captured_error")
}

func TestVersionCmdNDJSON(t *testing.T) {
	globals, buf := testGlobals("ndjson")

	cmd := &VersionCmd{}
	require.NoError(t, cmd.Run(globals))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "version", out["type"])
	assert.NotEmpty(t, out["version"])
}

func TestLangsCmdNDJSON(t *testing.T) {
	globals, buf := testGlobals("ndjson")

	cmd := &LangsCmd{}
	require.NoError(t, cmd.Run(globals))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "languages", out["type"])

	langs, ok := out["languages"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, langs, "go")
	assert.Contains(t, langs, "typescript")
}

func TestOutputErrorCommonNDJSON(t *testing.T) {
	globals, buf := testGlobals("ndjson")

	err := outputErrorCommon(globals, "INVALID_ROOT", "not a directory", "check the path")
	require.Error(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "error", out["type"])
	assert.Equal(t, "INVALID_ROOT", out["code"])
	assert.Equal(t, "check the path", out["hint"])
}

func TestOutputErrorCommonText(t *testing.T) {
	buf := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	globals := &Globals{Format: "text", Stdout: buf, Stderr: stderr}

	err := outputErrorCommon(globals, "INVALID_WHERE", "no valid operator")
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "INVALID_WHERE")
	assert.Empty(t, buf.String())
}
