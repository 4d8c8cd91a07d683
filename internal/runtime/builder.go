package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/expander"
	"github.com/aretw0/arbor/pkg/source"
	"github.com/aretw0/arbor/pkg/tree"
)

// DefaultMaxDepth bounds container nesting; deeper containers are left unexpanded.
const DefaultMaxDepth = 8

// Builder walks a root node and expands every container below it.
type Builder struct {
	expander expander.Expander
	logger   *slog.Logger
	maxDepth int
}

// BuilderOption configures the Builder.
type BuilderOption func(*Builder)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMaxDepth sets the nesting bound. Non-positive values keep the default.
func WithMaxDepth(depth int) BuilderOption {
	return func(b *Builder) {
		if depth > 0 {
			b.maxDepth = depth
		}
	}
}

// NewBuilder creates a builder around e.
func NewBuilder(e expander.Expander, opts ...BuilderOption) *Builder {
	b := &Builder{
		expander: e,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build expands root breadth-first. Each node is expanded at most once, by a
// single goroutine, so the expander's per-node mutations never race.
//
// Finalized nodes and nodes whose declared type is not container-shaped are
// kept as leaves. An expansion error aborts the build.
func (b *Builder) Build(ctx context.Context, root *domain.Node) (*tree.Tree, error) {
	t := tree.New()
	queue := []tree.Handle{t.Add(tree.NoParent, root)}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := queue[0]
		queue = queue[1:]
		node := t.Node(h)

		if node.Finalized() || !source.IsContainerType(node.Type.Root) {
			continue
		}
		if depth := t.Depth(h); depth >= b.maxDepth {
			b.logger.Warn("max depth reached, container left unexpanded", "node", node.String(), "depth", depth)
			continue
		}

		children, err := b.expander.Expand(node)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %s: %w", node, err)
		}
		for _, child := range children {
			queue = append(queue, t.Add(h, child))
		}
	}

	b.logger.Debug("tree built", "root", root.Path, "nodes", t.Len())
	return t, nil
}
