package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/sample"
	"github.com/aretw0/arbor/pkg/tree"
)

// Output formats.
const (
	FormatTree    = "tree"
	FormatJSON    = "json"
	FormatMermaid = "mermaid"
)

// ExpandOptions controls RunExpand.
type ExpandOptions struct {
	// File is the sample file declaring root containers.
	File string
	// Format is one of FormatTree, FormatJSON or FormatMermaid.
	Format string
	// Save persists every snapshot to the runtime's store.
	Save bool
	// Out receives the rendered trees. Defaults to os.Stdout.
	Out io.Writer
}

// RunExpand builds every container of a sample file and renders the trees.
func RunExpand(ctx context.Context, rt *Runtime, opts ExpandOptions) ([]*tree.Snapshot, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	file, err := sample.Load(opts.File)
	if err != nil {
		return nil, err
	}
	roots, err := file.Nodes()
	if err != nil {
		return nil, err
	}
	rt.Logger.Debug("Sample loaded", "file", opts.File, "containers", len(roots))

	trees, err := rt.Engine.BuildAll(ctx, roots)
	if err != nil {
		return nil, err
	}

	snaps := make([]*tree.Snapshot, 0, len(trees))
	for _, t := range trees {
		if opts.Save {
			snap, err := rt.Engine.Save(ctx, t)
			if err != nil {
				return nil, err
			}
			snaps = append(snaps, snap)
			continue
		}
		snaps = append(snaps, t.Snapshot())
	}

	if err := render(out, opts.Format, snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

func render(out io.Writer, format string, snaps []*tree.Snapshot) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snaps)

	case FormatMermaid:
		for _, snap := range snaps {
			fmt.Fprint(out, graph.GenerateMermaid(snap, nil))
		}
		return nil

	case FormatTree, "":
		renderMarkdown := func(md string) (string, error) { return md, nil }
		if f, ok := out.(*os.File); ok {
			renderMarkdown = tui.NewRenderer(f)
		}
		for _, snap := range snaps {
			text, err := renderMarkdown(tui.SnapshotMarkdown(snap))
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			fmt.Fprint(out, text)
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q (want tree, json or mermaid)", format)
	}
}
