package domain

import "fmt"

// Node is one vertex of the generation tree: a single property or element
// position of the value under test.
//
// The positional index is fixed at construction. The size constraint and the
// generator slot each allow exactly one transition; a second attempt is a
// programming error and panics.
type Node struct {
	// Type is the declared type of the property.
	Type TypeDescriptor
	// Path is the property name. Elements share their container's path.
	Path string
	// Nullable allows the terminal generator to inject the absent value.
	Nullable bool
	// NullInject is the probability of injecting the absent value.
	NullInject float64

	index     int
	hasIndex  bool
	value     *LazyValue
	size      *SizeConstraint
	generator Generator
}

// NodeOption configures a Node at construction.
type NodeOption func(*Node)

// WithValue sets the lazy source holder.
func WithValue(v *LazyValue) NodeOption {
	return func(n *Node) {
		n.value = v
	}
}

// WithSource sets an already materialized source value.
func WithSource(v any) NodeOption {
	return WithValue(Just(v))
}

// WithDeferredSource sets a source that is materialized on first use.
func WithDeferredSource(fn func() any) NodeOption {
	return WithValue(Deferred(fn))
}

// WithEmptySource marks the node as explicitly empty.
func WithEmptySource() NodeOption {
	return WithValue(Empty())
}

// WithSize attaches a size constraint.
func WithSize(c *SizeConstraint) NodeOption {
	return func(n *Node) {
		n.size = c
	}
}

// WithIndex sets the positional index of an element node.
func WithIndex(i int) NodeOption {
	return func(n *Node) {
		n.index = i
		n.hasIndex = true
	}
}

// WithNullable sets the nullability flag.
func WithNullable(nullable bool) NodeOption {
	return func(n *Node) {
		n.Nullable = nullable
	}
}

// WithNullInject sets the null-injection probability.
func WithNullInject(p float64) NodeOption {
	return func(n *Node) {
		n.NullInject = p
	}
}

// NewNode creates a node for the given property.
func NewNode(path string, typ TypeDescriptor, opts ...NodeOption) *Node {
	n := &Node{
		Type: typ,
		Path: path,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Index returns the positional index, if the node is a container element.
func (n *Node) Index() (int, bool) {
	return n.index, n.hasIndex
}

// Value returns the lazy source holder (nil when unset).
func (n *Node) Value() *LazyValue {
	return n.value
}

// SizeConstraint returns the attached constraint, or nil.
func (n *Node) SizeConstraint() *SizeConstraint {
	return n.size
}

// AttachSizeConstraint commits a constraint to a node that has none.
func (n *Node) AttachSizeConstraint(c *SizeConstraint) {
	if n.size != nil {
		panic(fmt.Sprintf("domain: node %s already has size constraint %s", n, n.size))
	}
	n.size = c
}

// Generator returns the assigned terminal generator, or nil.
func (n *Node) Generator() Generator {
	return n.generator
}

// AssignGenerator finalizes the node with its terminal generator.
func (n *Node) AssignGenerator(g Generator) {
	if n.generator != nil {
		panic(fmt.Sprintf("domain: node %s already has a generator", n))
	}
	n.generator = g
}

// Finalized reports whether a terminal generator was assigned.
// Finalized nodes are not expanded again.
func (n *Node) Finalized() bool {
	return n.generator != nil
}

func (n *Node) String() string {
	if n.hasIndex {
		return fmt.Sprintf("%s[%d]", n.Path, n.index)
	}
	return n.Path
}
