package tree

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// Handle addresses a node inside a Tree. Handles are stable for the life of
// the tree.
type Handle int

// NoParent is the parent handle of a root node.
const NoParent Handle = -1

type entry struct {
	node     *domain.Node
	parent   Handle
	depth    int
	children []Handle
}

// Tree is an append-only arena of nodes. It is not safe for concurrent use.
type Tree struct {
	entries []entry
	roots   []Handle
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{}
}

// Add appends n under parent and returns its handle.
// Use NoParent to add a root.
func (t *Tree) Add(parent Handle, n *domain.Node) Handle {
	h := Handle(len(t.entries))
	depth := 0
	if parent == NoParent {
		t.roots = append(t.roots, h)
	} else {
		t.mustExist(parent)
		depth = t.entries[parent].depth + 1
		t.entries[parent].children = append(t.entries[parent].children, h)
	}
	t.entries = append(t.entries, entry{node: n, parent: parent, depth: depth})
	return h
}

// Node returns the node at h.
func (t *Tree) Node(h Handle) *domain.Node {
	t.mustExist(h)
	return t.entries[h].node
}

// Children returns the handles added under h, in insertion order.
func (t *Tree) Children(h Handle) []Handle {
	t.mustExist(h)
	return append([]Handle(nil), t.entries[h].children...)
}

// Parent returns the parent of h, or false for roots.
func (t *Tree) Parent(h Handle) (Handle, bool) {
	t.mustExist(h)
	p := t.entries[h].parent
	return p, p != NoParent
}

// Depth returns the distance of h from its root.
func (t *Tree) Depth(h Handle) int {
	t.mustExist(h)
	return t.entries[h].depth
}

// Roots returns the root handles in insertion order.
func (t *Tree) Roots() []Handle {
	return append([]Handle(nil), t.roots...)
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.entries) }

// Walk visits every node depth-first, parents before children. Returning
// false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(h Handle, n *domain.Node) bool) {
	var visit func(h Handle)
	visit = func(h Handle) {
		if !fn(h, t.entries[h].node) {
			return
		}
		for _, c := range t.entries[h].children {
			visit(c)
		}
	}
	for _, r := range t.roots {
		visit(r)
	}
}

func (t *Tree) mustExist(h Handle) {
	if h < 0 || int(h) >= len(t.entries) {
		panic(fmt.Sprintf("tree: unknown handle %d", h))
	}
}
