package domain_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNode_Construction(t *testing.T) {
	n := domain.NewNode("tags", domain.TypeFor[[]string](),
		domain.WithSource([]string{"a"}),
		domain.WithNullable(true),
		domain.WithNullInject(0.5),
	)

	_, ok := n.Index()
	assert.False(t, ok)
	assert.Equal(t, "tags", n.String())
	assert.True(t, n.Nullable)
	assert.Equal(t, 0.5, n.NullInject)
	assert.Equal(t, domain.LazyPresent, n.Value().Kind())
	assert.Nil(t, n.SizeConstraint())
	assert.False(t, n.Finalized())

	el := domain.NewNode("tags", domain.TypeFor[string](), domain.WithIndex(2))
	i, ok := el.Index()
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	assert.Equal(t, "tags[2]", el.String())
}

func TestNode_SingleTransitions(t *testing.T) {
	n := domain.NewNode("xs", domain.TypeFor[[]int]())

	n.AttachSizeConstraint(domain.ExactSize(1))
	assert.Panics(t, func() { n.AttachSizeConstraint(domain.ExactSize(2)) })
	assert.Equal(t, 1, n.SizeConstraint().Max())

	n.AssignGenerator(domain.Null())
	assert.True(t, n.Finalized())
	assert.Panics(t, func() { n.AssignGenerator(domain.Constant(1)) })
	assert.Nil(t, n.Generator().Generate(nil))
}
