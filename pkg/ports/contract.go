package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSnapshot(id string) *tree.Snapshot {
	decided := 2
	index := 0
	return &tree.Snapshot{
		ID:        id,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Nodes: []tree.NodeRecord{
			{
				Handle: 0,
				Parent: -1,
				Path:   "scores",
				Type:   "[]int",
				Source: "present",
				Size:   &tree.SizeRecord{Min: 1, Max: 3, Decided: &decided},
			},
			{
				Handle: 1,
				Parent: 0,
				Path:   "scores",
				Index:  &index,
				Type:   "int",
				Source: "present",
				Value:  "ten",
			},
		},
	}
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	id := "contract-snapshot-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(id)

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.ID, loaded.ID)
		assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
		require.Len(t, loaded.Nodes, 2)
		assert.Equal(t, "scores", loaded.Nodes[0].Path)
		require.NotNil(t, loaded.Nodes[0].Size)
		require.NotNil(t, loaded.Nodes[0].Size.Decided)
		assert.Equal(t, 2, *loaded.Nodes[0].Size.Decided)
		require.NotNil(t, loaded.Nodes[1].Index)
		assert.Equal(t, "ten", loaded.Nodes[1].Value)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		loaded.Nodes[0].Path = "mutated"

		again, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "scores", again.Nodes[0].Path)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, contractSnapshot(id))
		require.NoError(t, err)

		err = store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		require.NoError(t, store.Save(ctx, contractSnapshot(id1)))
		require.NoError(t, store.Save(ctx, contractSnapshot(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
