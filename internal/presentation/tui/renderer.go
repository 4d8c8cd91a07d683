package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/arbor/pkg/tree"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// Output that is not a terminal gets the markdown unchanged.
func NewRenderer(out *os.File) func(string) (string, error) {
	if !term.IsTerminal(int(out.Fd())) {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SnapshotMarkdown lays a snapshot out as a nested markdown list.
func SnapshotMarkdown(snap *tree.Snapshot) string {
	children := make(map[int][]int, len(snap.Nodes))
	var roots []int
	for _, rec := range snap.Nodes {
		if rec.Parent < 0 {
			roots = append(roots, rec.Handle)
			continue
		}
		children[rec.Parent] = append(children[rec.Parent], rec.Handle)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Snapshot `%s`\n\n", snap.ID)

	var write func(h, depth int)
	write = func(h, depth int) {
		rec := snap.Nodes[h]
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(describe(rec))
		sb.WriteString("\n")
		for _, c := range children[h] {
			write(c, depth+1)
		}
	}
	for _, r := range roots {
		write(r, 0)
	}
	return sb.String()
}

func describe(rec tree.NodeRecord) string {
	name := rec.Path
	if rec.Index != nil {
		name = fmt.Sprintf("%s[%d]", rec.Path, *rec.Index)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", name, rec.Type)

	switch {
	case rec.Size != nil && rec.Size.Decided != nil:
		fmt.Fprintf(&sb, " size %d of %d..%d", *rec.Size.Decided, rec.Size.Min, rec.Size.Max)
	case rec.Size != nil:
		fmt.Fprintf(&sb, " size %d..%d", rec.Size.Min, rec.Size.Max)
	}

	switch {
	case rec.Value != nil:
		fmt.Fprintf(&sb, " = `%v`", rec.Value)
	case rec.Finalized && rec.Source == "empty":
		sb.WriteString(" _(empty)_")
	case rec.Source == "unset" && rec.Index != nil:
		sb.WriteString(" _(synthesized)_")
	}

	if !rec.Nullable && rec.Index != nil && rec.Source == "unset" {
		sb.WriteString(" not-null")
	}
	return sb.String()
}
