/*
Package domain contains the core models of the Arbor generation tree.

It is kept pure and free of I/O, persistence and presentation concerns.

# Key Entities

  - Node: one property or element position of the value under test.
  - SizeConstraint: an inclusive element-count range with a one-time Decide.
  - LazyValue: a tri-state deferred source (unset, empty, present).
  - TypeDescriptor: a declared type plus its ordered generic arguments.
  - Generator: the terminal value producer assigned to a finalized node.
*/
package domain
