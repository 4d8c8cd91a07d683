package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/tree"
)

func intPtr(i int) *int { return &i }

func sampleSnapshot() *tree.Snapshot {
	return &tree.Snapshot{
		ID: "snap",
		Nodes: []tree.NodeRecord{
			{Handle: 0, Parent: -1, Path: "user.tags", Type: "[]string", Source: "present",
				Size: &tree.SizeRecord{Min: 0, Max: 3, Decided: intPtr(2)}},
			{Handle: 1, Parent: 0, Path: "user.tags", Index: intPtr(0), Type: "string", Source: "present", Value: `say "hi"`},
			{Handle: 2, Parent: 0, Path: "user.tags", Index: intPtr(1), Type: "string", Source: "unset"},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Root Shape And Sanitization",
			contains: []string{
				`user_tags_0(("user.tags <br/> []string #2"))`,
			},
		},
		{
			name: "Edges",
			contains: []string{
				"user_tags_0 --> user_tags_1",
				"user_tags_0 --> user_tags_2",
			},
		},
		{
			name: "Value Escaping",
			contains: []string{
				`user_tags_1["user.tags[0] <br/> string = say 'hi'"]`,
			},
		},
		{
			name: "Placeholder Shape And Class",
			contains: []string{
				`user_tags_2[/"user.tags[1] <br/> string"/]`,
				"class user_tags_2 synthesized;",
			},
			excludes: []string{"class user_tags_1 synthesized;"},
		},
		{
			name:    "Overlay",
			overlay: &graph.Overlay{Highlight: []int{1, 1, 9}},
			contains: []string{
				"classDef current",
				"class user_tags_1 current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sampleSnapshot(), tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Fatalf("GenerateMermaid() missing header:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, bad)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class user_tags_1 current;") != 1 {
				t.Errorf("highlight should be deduplicated:\n%v", got)
			}
		})
	}
}
