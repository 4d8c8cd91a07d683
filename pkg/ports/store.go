package ports

import (
	"context"

	"github.com/aretw0/arbor/pkg/tree"
)

// SnapshotStore persists snapshots of built trees.
type SnapshotStore interface {
	// Save persists the snapshot under snap.ID, replacing any previous one.
	Save(ctx context.Context, snap *tree.Snapshot) error

	// Load retrieves a snapshot by ID.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, id string) (*tree.Snapshot, error)

	// Delete removes a snapshot. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored snapshots.
	List(ctx context.Context) ([]string, error)
}
