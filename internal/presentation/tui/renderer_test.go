package tui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestSnapshotMarkdown(t *testing.T) {
	snap := &tree.Snapshot{
		ID: "abc",
		Nodes: []tree.NodeRecord{
			{Handle: 0, Parent: -1, Path: "scores", Type: "[]int", Source: "present",
				Size: &tree.SizeRecord{Min: 0, Max: 3, Decided: intPtr(2)}},
			{Handle: 1, Parent: 0, Path: "scores", Index: intPtr(0), Type: "int", Source: "present", Value: 10},
			{Handle: 2, Parent: 0, Path: "scores", Index: intPtr(1), Type: "int", Source: "unset"},
			{Handle: 3, Parent: -1, Path: "none", Type: "[]int", Source: "empty", Finalized: true},
		},
	}

	md := SnapshotMarkdown(snap)
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "# Snapshot `abc`", lines[0])
	assert.Equal(t, "- **scores** `[]int` size 2 of 0..3", lines[2])
	assert.Equal(t, "  - **scores[0]** `int` = `10`", lines[3])
	assert.Equal(t, "  - **scores[1]** `int` _(synthesized)_ not-null", lines[4])
	assert.Equal(t, "- **none** `[]int` _(empty)_", lines[5])
}

func TestNewRenderer_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	render := NewRenderer(f)
	out, err := render("# title")
	require.NoError(t, err)
	assert.Equal(t, "# title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3\n")
	assert.Contains(t, buf.String(), "v1.2.3")
}
