// Package expander materializes the children of container nodes.
//
// Default replays a node's source value (truncated at the size constraint's
// upper bound) and synthesizes non-nullable placeholders for the rest of the
// decided count. Registry picks a strategy per declared root type.
package expander
