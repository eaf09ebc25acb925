package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	pos := filepath.Join(dir, "pos")
	neg := filepath.Join(dir, "neg")
	queries := filepath.Join(dir, "queries")
	cfg := filepath.Join(dir, "rpni.yaml")
	require.NoError(t, os.WriteFile(pos, []byte("a\na;a\n"), 0644))
	require.NoError(t, os.WriteFile(neg, []byte("\n"), 0644))
	require.NoError(t, os.WriteFile(queries, []byte("\na;a;a\nb\n"), 0644))
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(
		"log:\n  level: error\nstore:\n  backend: file\n  dir: %s\n", filepath.Join(dir, "runs"))), 0644))

	out, _, err := execute(t, "pta", "--config", cfg, "-p", pos, "-n", neg)
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")

	out, errOut, err := execute(t, "learn", "--config", cfg, "-p", pos, "-n", neg, "--save", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"states"`)
	require.True(t, strings.HasPrefix(errOut, "Saved run "), errOut)
	id := strings.TrimSpace(strings.TrimPrefix(errOut, "Saved run "))

	out, _, err = execute(t, "runs", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, _, err = execute(t, "graph", id, "--config", cfg, "--stage", "initial", "-f", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph Automaton")

	_, _, err = execute(t, "graph", id, "--config", cfg, "--stage", "final")
	assert.Error(t, err)

	out, _, err = execute(t, "check", id, "--config", cfg, "-f", queries)
	require.NoError(t, err)
	assert.Equal(t, "reject\t\naccept\ta;a;a\nreject\tb\n", out)

	_, _, err = execute(t, "runs", "delete", id, "--config", cfg)
	require.NoError(t, err)
	_, _, err = execute(t, "graph", id, "--config", cfg, "--stage", "hypothesis")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rpni version")
}

func TestMCP_UnknownTransport(t *testing.T) {
	_, _, err := execute(t, "mcp", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--transport", "carrier")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}
