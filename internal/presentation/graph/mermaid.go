package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/tree"
)

// Overlay marks nodes to highlight on top of the default styling.
type Overlay struct {
	Highlight []int
}

// GenerateMermaid produces a Mermaid flowchart of a snapshot, one vertex per
// node and one edge per parent link.
// It applies semantic styling:
// - Root: ((Circle))
// - Sized container: [[Subroutine]]
// - Synthesized placeholder: [/Parallelogram/]
// - Default: [Rectangle]
// Placeholders and empty containers get their own classes; overlay handles
// are styled as highlighted.
func GenerateMermaid(snap *tree.Snapshot, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var synthesized, empty []string
	for _, rec := range snap.Nodes {
		safeID := nodeID(rec)

		opener, closer := "[", "]"
		switch {
		case rec.Parent < 0:
			opener, closer = "((", "))"
		case rec.Size != nil:
			opener, closer = "[[", "]]"
		case rec.Source == "unset":
			opener, closer = "[/", "/]"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, nodeLabel(rec), closer))

		if rec.Parent >= 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(snap.Nodes[rec.Parent]), safeID))
		}

		switch rec.Source {
		case "unset":
			if rec.Index != nil {
				synthesized = append(synthesized, safeID)
			}
		case "empty":
			if rec.Size == nil && rec.Finalized {
				empty = append(empty, safeID)
			}
		}
	}

	if len(synthesized) > 0 || len(empty) > 0 {
		sb.WriteString("\n    %% Origin Styles\n")
		sb.WriteString("    classDef synthesized fill:#f3e5f5,stroke:#6a1b9a,stroke-dasharray:4 2,color:#000;\n")
		sb.WriteString("    classDef empty fill:#eeeeee,stroke:#616161,color:#000;\n")
		for _, id := range synthesized {
			sb.WriteString(fmt.Sprintf("    class %s synthesized;\n", id))
		}
		for _, id := range empty {
			sb.WriteString(fmt.Sprintf("    class %s empty;\n", id))
		}
	}

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, h := range overlay.Highlight {
			if seen[h] || h < 0 || h >= len(snap.Nodes) {
				continue
			}
			seen[h] = true
			sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(snap.Nodes[h])))
		}
	}

	return sb.String()
}

func nodeID(rec tree.NodeRecord) string {
	return sanitizeMermaidID(fmt.Sprintf("%s_%d", rec.Path, rec.Handle))
}

func nodeLabel(rec tree.NodeRecord) string {
	label := rec.Path
	if rec.Index != nil {
		label = fmt.Sprintf("%s[%d]", rec.Path, *rec.Index)
	}
	label += " <br/> " + rec.Type
	if rec.Size != nil && rec.Size.Decided != nil {
		label += fmt.Sprintf(" #%d", *rec.Size.Decided)
	}
	if rec.Value != nil {
		label += fmt.Sprintf(" = %v", rec.Value)
	}
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "[", "_")
	s = strings.ReplaceAll(s, "]", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
