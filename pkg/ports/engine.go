package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
)

// TreeBuilder is the engine surface used by driving adapters (HTTP, MCP, CLI).
type TreeBuilder interface {
	// Build expands root and every container below it into a tree.
	Build(ctx context.Context, root *domain.Node) (*tree.Tree, error)
}
