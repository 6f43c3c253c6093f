package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipelineDefinition = `{
	"name": "demo",
	"uuid": "pipe-1",
	"parameters": {"epochs": 10},
	"steps": {
		"load": {
			"uuid": "load",
			"title": "Load",
			"file_path": "load.ipynb",
			"parameters": {"source": "s3"},
			"incoming_connections": [],
			"meta_data": {"position": [0, 0]}
		},
		"train": {
			"uuid": "train",
			"title": "Train",
			"file_path": "train.ipynb",
			"parameters": {"lr": 0.1},
			"incoming_connections": ["load"],
			"meta_data": {"position": [200, 0]}
		}
	}
}`

const sharedNotebookDefinition = `{
	"name": "shared",
	"uuid": "pipe-2",
	"steps": {
		"a": {"uuid": "a", "file_path": "same.ipynb", "incoming_connections": []},
		"b": {"uuid": "b", "file_path": "./same.ipynb", "incoming_connections": []}
	}
}`

const strategyYAML = `
pipeline_parameters:
  parameters:
    epochs: [1, 2]
step-1:
  parameters:
    lr: "[0.1]"
    broken: "["
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	t.Parallel()

	good := writeFile(t, "good.json", pipelineDefinition)
	bad := writeFile(t, "bad.json", sharedNotebookDefinition)

	stdout, _, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Equal(t, good+": ok (load -> train)\n", stdout)

	stdout, _, err = run(t, "validate", good, bad)
	require.ErrorIs(t, err, errInvalidFiles)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], bad+": "))
	assert.Contains(t, lines[1], "same.ipynb")

	_, _, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestStrategy(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, "strategy", writeFile(t, "pipe.json", pipelineDefinition))
	require.NoError(t, err)

	assert.Contains(t, stdout, `"pipeline_parameters"`)
	assert.Contains(t, stdout, `"epochs": "[10]"`)
	assert.Contains(t, stdout, `"lr": "[0.1]"`)
	assert.Less(t, strings.Index(stdout, `"load"`), strings.Index(stdout, `"train"`))
}

func TestExpand(t *testing.T) {
	t.Parallel()

	strategy := writeFile(t, "strategy.yaml", strategyYAML)

	stdout, stderr, err := run(t, "expand", strategy)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		`{"pipeline_parameters":{"epochs":1},"step-1":{"lr":0.1}}`,
		`{"pipeline_parameters":{"epochs":2},"step-1":{"lr":0.1}}`,
		``,
	}, "\n"), stdout)
	assert.Contains(t, stderr, "parameter skipped")
	assert.Contains(t, stderr, "name=broken")

	stdout, _, err = run(t, "expand", "--count", strategy)
	require.NoError(t, err)
	assert.Equal(t, "2\n", stdout)
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	strategy := writeFile(t, "strategy.yaml", strategyYAML)
	selected := writeFile(t, "selected.json", `[
		{"pipeline_parameters": {"epochs": 3}, "step-1": {"lr": 0.1}},
		{"pipeline_parameters": {"epochs": 2}, "step-1": {"lr": 0.1}}
	]`)

	stdout, _, err := run(t, "reconcile", strategy, selected)
	require.NoError(t, err)
	assert.Equal(t, "[1]\n", stdout)
}

func TestDraw(t *testing.T) {
	t.Parallel()

	pipe := writeFile(t, "pipe.json", pipelineDefinition)

	stdout, _, err := run(t, "draw", pipe, "--select", "load", "--rankdir", "LR")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "strict digraph {"))
	assert.Contains(t, stdout, `rankdir="LR";`)
	assert.Contains(t, stdout, `"load" [ fillcolor="#ffd700"`)
	assert.Contains(t, stdout, `"load" -> "train" [ weight=0 ];`)

	output := filepath.Join(t.TempDir(), "pipe.dot")

	stdout, _, err = run(t, "draw", pipe, "-o", output)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"load" -> "train"`)
}
