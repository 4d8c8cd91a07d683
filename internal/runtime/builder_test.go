package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/expander"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested []nested

func TestBuilder_NestedContainers(t *testing.T) {
	e := expander.New(expander.WithSizeDecider(domain.FixedDecider(2)))
	b := runtime.NewBuilder(e)

	root := domain.NewNode("grid", domain.TypeFor[[][]int](), domain.WithSource([][]int{{1, 2, 3}, {4}}))
	tr, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	// root + 2 rows + 4 cells
	assert.Equal(t, 7, tr.Len())

	rows := tr.Children(tree.Handle(0))
	require.Len(t, rows, 2)
	assert.Len(t, tr.Children(rows[0]), 3)
	assert.Len(t, tr.Children(rows[1]), 1)
	assert.Equal(t, 4, tr.Node(tr.Children(rows[1])[0]).Value().Get())
}

func TestBuilder_SkipsFinalizedAndLeaves(t *testing.T) {
	b := runtime.NewBuilder(expander.New())

	tr, err := b.Build(context.Background(), domain.NewNode("tags", domain.TypeFor[[]string](), domain.WithEmptySource()))
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())

	tr, err = b.Build(context.Background(), domain.NewNode("age", domain.TypeFor[int](), domain.WithSource(3)))
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len())
}

func TestBuilder_MaxDepth(t *testing.T) {
	e := expander.New(expander.WithSizeDecider(domain.FixedDecider(1)))
	b := runtime.NewBuilder(e, runtime.WithMaxDepth(3))

	tr, err := b.Build(context.Background(), domain.NewNode("n", domain.TypeFor[nested]()))
	require.NoError(t, err)

	// Depths 0, 1, 2 expand once each; the depth-3 node stays a leaf.
	assert.Equal(t, 4, tr.Len())
}

func TestBuilder_ErrorAborts(t *testing.T) {
	b := runtime.NewBuilder(expander.New())
	root := domain.NewNode("grid", domain.TypeFor[[][]int](), domain.WithSource([]any{[]int{1}, "bad"}))

	_, err := b.Build(context.Background(), root)
	assert.ErrorIs(t, err, domain.ErrUnsupportedContainerSource)
	assert.Contains(t, err.Error(), "grid[1]")
}

func TestBuilder_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runtime.NewBuilder(expander.New()).Build(ctx, domain.NewNode("xs", domain.TypeFor[[]int]()))
	assert.ErrorIs(t, err, context.Canceled)
}
