// Package tree holds built generation trees as an arena of nodes addressed by
// stable handles, and converts them to serializable snapshots.
package tree
