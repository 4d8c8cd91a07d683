package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "arbor version "+strings.TrimSpace(arbor.Version)+"\n", out)
}

func TestExpandCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	sample := filepath.Join(dir, "sample.yaml")
	require.NoError(t, os.WriteFile(sample, []byte(`
containers:
  - name: ids
    type: "[int]"
    value: [1, 2, 3]
`), 0644))

	out, err := run(t, "expand", sample,
		"--config", filepath.Join(dir, "missing.yaml"),
		"--format", "json",
		"--seed", "3",
	)
	require.NoError(t, err)

	var snaps []tree.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 1)
	assert.Len(t, snaps[0].Nodes, 4)
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arbor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\nmax_depth: 4\n"), 0644))

	t.Setenv("ARBOR_MAX_DEPTH", "6")
	require.NoError(t, expandCmd.ParseFlags([]string{"--config", path, "--log-level", "debug", "--store", "bolt"}))
	t.Cleanup(func() {
		_ = expandCmd.Flags().Set("log-level", "")
		_ = expandCmd.Flags().Set("store", "")
		_ = expandCmd.Flags().Set("config", "arbor.yaml")
	})

	cfg, err := loadConfig(expandCmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 6, cfg.MaxDepth)
	assert.Equal(t, config.BackendBolt, cfg.Store.Backend)
}
