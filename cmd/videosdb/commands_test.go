package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/videosdb/internal/loader"
)

const testInput = "../../internal/loader/testdata/input.json"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommand_Stdout(t *testing.T) {
	out, err := execute(t, "run", "--input", testInput, "--output", "-")
	require.NoError(t, err)

	results, err := loader.DecodeResults(bytes.NewBufferString(out))
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "success -> Quiet Days was viewed with total views of 1", results[0].Message)
}

func TestRunCommand_File(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "run", "-i", testInput, "-o", output)
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	results, err := loader.DecodeResults(f)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestRunCommand_MissingInput(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)

	_, err = execute(t, "run", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--input", testInput)
	require.Error(t, err, "the sample document has history for an unknown title")
	assert.Contains(t, out, "Unknown Title")

	valid := filepath.Join(t.TempDir(), "valid.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"movies": [{"title": "A", "year": 2000, "duration": 10}], "actions": []}`), 0o644))

	out, err = execute(t, "validate", "--input", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: 0 actions")
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, "stats", "--input", testInput)
	require.NoError(t, err)

	assert.Contains(t, out, `"movies": 2`)
	assert.Contains(t, out, `"shows": 1`)
	assert.Contains(t, out, `"unknown_history": 1`)
}

func TestDLQReplayRejectsNonPositiveMax(t *testing.T) {
	_, err := execute(t, "dlq", "replay", "--max", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--max must be positive")
}

func TestCommandTree(t *testing.T) {
	names := []string{}
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "validate", "stats", "dlq"})
}
