package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invalidYAML = `
name: bad_action
description: "Unknown action kind."
steps:
  - declare: { label: A, action: shrug }
expect:
  teardown: [A]
`

func TestValidate_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "ok.yaml", passingYAML)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)

	assert.Contains(t, out, "OK   "+path)
	assert.Contains(t, out, "1 file(s), 0 invalid")
}

func TestValidate_InvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "bad.yaml", invalidYAML)

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL "+path)
}

func TestValidate_Directory(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "ok.yaml", passingYAML)
	writeScenario(t, dir, "bad.yaml", invalidYAML)

	out, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "2 file(s), 1 invalid")
}

func TestValidate_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "ok.yaml", passingYAML)

	out, _, err := execute(t, "validate", "--format", "json", path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_MissingPath(t *testing.T) {
	_, _, err := execute(t, "validate", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
